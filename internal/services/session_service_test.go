package services

import (
	"testing"

	"redline/internal/repositories"
)

func TestSessionService_Lifecycle(t *testing.T) {
	svc := NewSessionService(repositories.NewMemorySessionRepository())

	sess, err := svc.Create("a@x.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(sess.ID) != 64 { // 32 bytes hex-encoded
		t.Fatalf("unexpected session id length: %d", len(sess.ID))
	}

	got := svc.Get(sess.ID)
	if got == nil || got.Email != "a@x.com" {
		t.Fatalf("lookup failed: %+v", got)
	}

	if !svc.Touch(sess.ID) {
		t.Fatal("touch should succeed for a live session")
	}
	touched := svc.Get(sess.ID)
	if touched.LastActivity.Before(got.LastActivity) {
		t.Fatal("touch should not move LastActivity backwards")
	}

	if !svc.Destroy(sess.ID) {
		t.Fatal("destroy should report the removal")
	}
	if svc.Get(sess.ID) != nil {
		t.Fatal("session should be gone after destroy")
	}
	if svc.Touch(sess.ID) {
		t.Fatal("touch on a destroyed session should fail")
	}
}

func TestSessionService_IDsAreUnique(t *testing.T) {
	svc := NewSessionService(repositories.NewMemorySessionRepository())
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		sess, err := svc.Create("a@x.com")
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[sess.ID] {
			t.Fatalf("duplicate session id: %s", sess.ID)
		}
		seen[sess.ID] = true
	}
}
