package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/ghostwriter/internal/models"
	"github.com/maheshrc27/ghostwriter/internal/queue"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type PostHandler struct {
	s           service.PostService
	AsynqClient *asynq.Client
}

// NewPostHandler wires the scheduled-post endpoints. asynqClient may be nil,
// in which case auto-publish posts wait for the due-post sweep.
func NewPostHandler(service service.PostService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: service, AsynqClient: asynqClient}
}

func (h *PostHandler) SavePost(c *fiber.Ctx) error {
	var req transfer.SavePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	post, delay, err := h.s.Save(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}

	if post.AutoPublish && h.AsynqClient != nil {
		err = queue.EnqueuePost(h.AsynqClient, queue.PublishPostPayload{UserID: req.UserID, PostID: post.ID}, delay)
		if err != nil {
			slog.Info(err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post scheduled successfully",
		"post":    post,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	var req transfer.ListPostsRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	posts, err := h.s.List(c.Context(), req.UserID)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.s.Get(c.Context(), c.Params("user_id"), c.Params("post_id"))
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	err := h.s.Delete(c.Context(), c.Params("user_id"), c.Params("post_id"))
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post deleted",
	})
}

type publishFunc func(ctx context.Context, req transfer.PublishPostRequest) (*models.ScheduledPost, *transfer.PlatformResult, error)

func (h *PostHandler) publishWith(c *fiber.Ctx, publish publishFunc) error {
	var req transfer.PublishPostRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.AccessToken == "" {
		req.AccessToken = GetAccessToken(c)
	}

	post, res, err := publish(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}
	if !res.Success {
		return c.Status(platformStatus(res)).JSON(res)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": res.Message,
		"url":     res.URL,
		"post":    post,
	})
}

func (h *PostHandler) PublishWordPress(c *fiber.Ctx) error {
	return h.publishWith(c, h.s.PublishWordPress)
}

func (h *PostHandler) PublishThreads(c *fiber.Ctx) error {
	return h.publishWith(c, h.s.PublishThreads)
}

func (h *PostHandler) PublishFacebook(c *fiber.Ctx) error {
	return h.publishWith(c, h.s.PublishFacebook)
}
