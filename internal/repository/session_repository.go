package repository

import (
	"context"

	"github.com/maheshrc27/ghostwriter/internal/models"
)

type SessionRepository interface {
	GetByID(ctx context.Context, sessionID string) *models.ChatSession
	// Append adds turns to whatever is currently stored for the session and
	// trims it to models.MaxHistoryTurns.
	Append(ctx context.Context, sessionID string, turns ...models.ChatTurn) (*models.ChatSession, error)
}

type sessionRepository struct {
	store *DocumentStore[models.ChatSession, *models.ChatSession]
}

func NewSessionRepository(backend Backend) SessionRepository {
	return &sessionRepository{
		store: NewDocumentStore[models.ChatSession](backend),
	}
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID string) *models.ChatSession {
	return r.store.Load(ctx, sessionID)
}

func (r *sessionRepository) Append(ctx context.Context, sessionID string, turns ...models.ChatTurn) (*models.ChatSession, error) {
	return r.store.Update(ctx, sessionID, func(s *models.ChatSession) error {
		for _, t := range turns {
			s.Append(t.Role, t.Content)
		}
		s.Truncate()
		return nil
	})
}
