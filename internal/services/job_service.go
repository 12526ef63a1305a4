package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"redline/internal/models"
)

// Executor does the actual work of one job. What it returns becomes the job
// result; an error moves the job to failed.
type Executor func(job *models.Job) (any, error)

// JobService is the in-memory queue the client polls. Completed/failed are
// terminal: once there, a job's status never changes again.
type JobService struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
}

func NewJobService() *JobService {
	return &JobService{jobs: make(map[string]*models.Job)}
}

func (s *JobService) Create(jobType, owner string, data map[string]any) string {
	job := &models.Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Owner:     owner,
		Status:    models.JobPending,
		Data:      data,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	log.Printf("[jobs][create] id=%s type=%s owner=%s", job.ID, jobType, owner)
	return job.ID
}

// Start runs the executor in its own goroutine and returns immediately.
func (s *JobService) Start(id string, exec Executor) error {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("job %s not found", id)
	}
	if job.Status != models.JobPending {
		s.mu.Unlock()
		return fmt.Errorf("job %s is not pending", id)
	}
	now := time.Now()
	job.Status = models.JobRunning
	job.StartedAt = &now
	snapshot := *job
	s.mu.Unlock()

	go func() {
		result, err := exec(&snapshot)

		s.mu.Lock()
		defer s.mu.Unlock()
		done := time.Now()
		job.CompletedAt = &done
		if err != nil {
			job.Status = models.JobFailed
			job.Error = err.Error()
			log.Printf("[jobs][run] id=%s failed: %v", id, err)
			return
		}
		job.Status = models.JobCompleted
		job.Result = result
		job.Progress = 100
		log.Printf("[jobs][run] id=%s completed", id)
	}()
	return nil
}

func (s *JobService) Get(id string) *models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	cp := *job
	return &cp
}

func (s *JobService) ListByOwner(owner string) []*models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Job
	for _, job := range s.jobs {
		if job.Owner == owner {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out
}

func (s *JobService) UpdateProgress(id string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok && job.Status == models.JobRunning {
		job.Progress = progress
	}
}
