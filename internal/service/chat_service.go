package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/ghostwriter/internal/models"
	"github.com/maheshrc27/ghostwriter/internal/repository"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	chatPromptTurns = 6

	askBrandReply    = "Thanks — to help with content, please tell me about your brand: what you sell, who your audience is, and what tone you prefer."
	askBrandFollowUp = "Please provide a short description of your brand (products/services, audience, tone)."
	toneFollowUp     = "Would you like a caption in a specific tone (e.g., playful, formal, educational)?"
	defaultMessage   = "Please help me with my brand messaging."
)

type ChatService interface {
	Chat(ctx context.Context, req transfer.ChatRequest) (*transfer.ChatResponse, error)
}

type chatService struct {
	sessions  repository.SessionRepository
	generator TextGenerator
}

// NewChatService builds the brand assistant. generator may be nil, in which
// case every reply comes from the template.
func NewChatService(sessions repository.SessionRepository, generator TextGenerator) ChatService {
	return &chatService{sessions: sessions, generator: generator}
}

func (s *chatService) Chat(ctx context.Context, req transfer.ChatRequest) (*transfer.ChatResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, err
		}
		sessionID = id
	}

	brandInfo := strings.TrimSpace(req.BrandInfo)
	if brandInfo == "" {
		history := s.persist(ctx, sessionID, models.ChatTurn{Role: models.RoleAssistant, Content: askBrandReply})
		return &transfer.ChatResponse{
			Reply:     askBrandReply,
			FollowUp:  askBrandFollowUp,
			SessionID: sessionID,
			History:   history,
		}, nil
	}

	message := strings.TrimSpace(req.Message)
	prior := s.sessions.GetByID(ctx, sessionID).Recent(chatPromptTurns)

	reply, followUp := s.answer(ctx, brandInfo, message, prior)

	var turns []models.ChatTurn
	if message != "" {
		turns = append(turns, models.ChatTurn{Role: models.RoleUser, Content: message})
	}
	turns = append(turns, models.ChatTurn{Role: models.RoleAssistant, Content: reply})

	return &transfer.ChatResponse{
		Reply:     reply,
		FollowUp:  followUp,
		SessionID: sessionID,
		History:   s.persist(ctx, sessionID, turns...),
	}, nil
}

func (s *chatService) answer(ctx context.Context, brandInfo, message string, prior []models.ChatTurn) (string, string) {
	if message == "" {
		message = defaultMessage
	}

	if s.generator != nil {
		text, err := s.generator.Generate(ctx, chatPrompt(brandInfo, message, prior))
		if err == nil && strings.TrimSpace(text) != "" {
			return text, followUpFrom(text)
		}
		if err != nil {
			slog.Info(err.Error())
		}
	}

	return fallbackReply(brandInfo, message), toneFollowUp
}

// persist appends turns and returns the stored history. A failed write is
// logged and the caller still gets the history it would have seen.
func (s *chatService) persist(ctx context.Context, sessionID string, turns ...models.ChatTurn) []models.ChatTurn {
	session, err := s.sessions.Append(ctx, sessionID, turns...)
	if err != nil {
		slog.Info("chat history not saved", "session_id", sessionID, "error", err.Error())
		session = s.sessions.GetByID(ctx, sessionID)
		session.History = append(session.History, turns...)
		session.Truncate()
	}
	if session.History == nil {
		return []models.ChatTurn{}
	}
	return session.History
}

func chatPrompt(brandInfo, message string, prior []models.ChatTurn) string {
	var b strings.Builder
	b.WriteString("You are a helpful brand assistant. Use the brand information below to respond to the user's message.\n\n")
	fmt.Fprintf(&b, "Brand information: %s\n\n", brandInfo)
	if len(prior) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, t := range prior {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User message: %s\n\n", message)
	b.WriteString("Provide a concise, actionable reply (2-4 short paragraphs) and suggest one follow-up question to clarify the brand further.")
	return b.String()
}

// followUpFrom picks the last line that asks a question.
func followUpFrom(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); strings.Contains(line, "?") {
			return line
		}
	}
	return toneFollowUp
}

func fallbackReply(brandInfo, message string) string {
	headline := message
	if r := []rune(headline); len(r) > 60 {
		headline = string(r[:60])
	}
	firstWord := brandInfo
	if fields := strings.Fields(brandInfo); len(fields) > 0 {
		firstWord = fields[0]
	}

	return strings.Join([]string{
		"Thanks — here are some quick ideas for your brand:",
		"Brand summary: " + brandInfo,
		"",
		"Suggested messages:",
		fmt.Sprintf("- Short headline: Try: \"%s\"", headline),
		fmt.Sprintf("- Social caption: Speak warmly to your audience and mention benefits; e.g., 'Our %s helps...'", firstWord),
	}, "\n")
}
