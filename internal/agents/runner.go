package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const runUserID = "ghostwriter"

type Runner struct {
	appName string
}

func NewRunner(appName string) *Runner {
	return &Runner{appName: appName}
}

// Run sends prompt to a in a fresh in-memory session and returns the text of
// every event, one event per line.
func (r *Runner) Run(ctx context.Context, a agent.Agent, prompt string) (string, error) {
	sessionService := session.InMemoryService()
	sessionID := uuid.NewString()

	if _, err := sessionService.Create(ctx, &session.CreateRequest{
		AppName:   r.appName,
		UserID:    runUserID,
		SessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	rn, err := runner.New(runner.Config{
		AppName:        r.appName,
		Agent:          a,
		SessionService: sessionService,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create runner: %w", err)
	}

	var texts []string
	msg := genai.NewContentFromText(prompt, "user")
	for event, err := range rn.Run(ctx, runUserID, sessionID, msg, agent.RunConfig{}) {
		if err != nil {
			return strings.Join(texts, "\n"), fmt.Errorf("agent run: %w", err)
		}
		if event == nil || event.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range event.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			texts = append(texts, b.String())
		}
	}

	return strings.Join(texts, "\n"), nil
}
