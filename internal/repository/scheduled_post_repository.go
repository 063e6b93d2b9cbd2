package repository

import (
	"context"

	"github.com/maheshrc27/ghostwriter/internal/models"
)

type ScheduledPostRepository interface {
	GetByUserID(ctx context.Context, userID string) *models.UserPosts
	Update(ctx context.Context, userID string, fn func(*models.UserPosts) error) (*models.UserPosts, error)
	UserIDs(ctx context.Context) ([]string, error)
}

type scheduledPostRepository struct {
	store *DocumentStore[models.UserPosts, *models.UserPosts]
}

func NewScheduledPostRepository(backend Backend) ScheduledPostRepository {
	return &scheduledPostRepository{
		store: NewDocumentStore[models.UserPosts](backend),
	}
}

func (r *scheduledPostRepository) GetByUserID(ctx context.Context, userID string) *models.UserPosts {
	return r.store.Load(ctx, userID)
}

func (r *scheduledPostRepository) Update(ctx context.Context, userID string, fn func(*models.UserPosts) error) (*models.UserPosts, error) {
	return r.store.Update(ctx, userID, fn)
}

func (r *scheduledPostRepository) UserIDs(ctx context.Context) ([]string, error) {
	return r.store.Keys(ctx)
}
