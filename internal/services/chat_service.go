package services

import (
	"fmt"
	"strings"

	"redline/internal/models"
)

const chatDocumentPreamble = `You are a specialized legal assistant. Your task is to answer questions based on the provided legal document.
Do not answer any questions that are not related to the document.
If the answer is not in the document, state that clearly.

Here is the document content:
---
%s
---
`

// ChatService answers assistant questions, optionally grounded in an uploaded
// document's text.
type ChatService struct {
	client *llmClient
	dryRun bool
}

func NewChatService(apiKey, model string, dryRun bool) *ChatService {
	return &ChatService{
		client: newLLMClient(apiKey, model),
		dryRun: dryRun || apiKey == "",
	}
}

func (s *ChatService) Respond(req models.ChatRequest) (string, error) {
	if s.dryRun {
		return "Dry-run mode: no model configured. Your question was: " + req.Prompt, nil
	}

	reply, err := s.client.generate(buildChatPrompt(req))
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func buildChatPrompt(req models.ChatRequest) string {
	var b strings.Builder
	if req.Type == "document" {
		fmt.Fprintf(&b, chatDocumentPreamble, req.DocumentText)
	} else {
		b.WriteString("You are a helpful legal assistant chatbot.\n")
	}
	for _, m := range req.History {
		role := "Assistant"
		if m.Role == "user" {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", req.Prompt)
	return b.String()
}
