package queue

import (
	"github.com/maheshrc27/ghostwriter/internal/service"
)

type Queue struct {
	ps service.PostService
}

func NewQueue(ps service.PostService) *Queue {
	return &Queue{ps: ps}
}

const TaskTypePublishPost = "post:publish"

type PublishPostPayload struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}
