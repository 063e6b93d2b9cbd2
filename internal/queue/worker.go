package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/ghostwriter/internal/service"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	err := q.ps.PublishScheduled(ctx, payload.UserID, payload.PostID)
	if errors.Is(err, service.ErrPostNotFound) {
		log.Printf("Post %s for user %s is gone, nothing to publish", payload.PostID, payload.UserID)
		return nil
	}
	if err != nil {
		log.Printf("Error publishing post %s for user %s: %v", payload.PostID, payload.UserID, err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return nil
}

// Register attaches the task handlers to mux.
func (q *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypePublishPost, q.HandlePublishPostTask)
}
