package service

import (
	"context"
	"fmt"

	"github.com/maheshrc27/ghostwriter/internal/models"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
	"golang.org/x/sync/errgroup"
)

const (
	publishConcurrency = 4
	publishNote        = "Publishing attempted. WordPress/Threads/Facebook posts sent when credentials provided, otherwise mock scheduling used."
)

type PublishService interface {
	// PublishOrSchedule returns exactly one result per item, in input order.
	// A failing item never stops the others.
	PublishOrSchedule(ctx context.Context, items []transfer.PublishItem) *transfer.PublishResult
}

type publishService struct {
	wp       WordPressService
	threads  ThreadsService
	facebook FacebookService
}

func NewPublishService(wp WordPressService, threads ThreadsService, facebook FacebookService) PublishService {
	return &publishService{
		wp:       wp,
		threads:  threads,
		facebook: facebook,
	}
}

func (s *publishService) PublishOrSchedule(ctx context.Context, items []transfer.PublishItem) *transfer.PublishResult {
	results := make([]transfer.PublishItemResult, len(items))

	var g errgroup.Group
	g.SetLimit(publishConcurrency)
	for i, item := range items {
		g.Go(func() error {
			results[i] = s.dispatch(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return &transfer.PublishResult{
		Status: "success",
		Items:  results,
		Note:   publishNote,
	}
}

func (s *publishService) dispatch(ctx context.Context, item transfer.PublishItem) transfer.PublishItemResult {
	switch models.ResolveChannel(item.Tag(), item.PostToWP) {
	case models.ChannelWordPress:
		creds, ok := s.wp.Credentials(transfer.WordPressCredentials{})
		if !ok {
			return mockResult(item)
		}
		status := item.Status
		if status == "" {
			status = "draft"
		}
		title := item.Title
		if title == "" {
			title = DailyTitle(timeNow())
		}
		res := s.wp.Publish(ctx, creds, transfer.WordPressPost{Title: title, Content: item.Text(), Status: status})
		out := transfer.PublishItemResult{
			Channel:      models.PlatformWordPress,
			Status:       itemStatus(res),
			ResponseCode: res.StatusCode,
			URL:          res.URL,
			PostID:       res.RemoteID,
		}
		if !res.Success {
			out.Note = "WP post failed: " + res.Message
		}
		return out

	case models.ChannelThreads:
		if item.AccessToken == "" {
			return tokenRequired(models.PlatformThreads, "Threads")
		}
		res := s.threads.Publish(ctx, item.AccessToken, item.Text(), item.ImageURL)
		return transfer.PublishItemResult{
			Channel:  models.PlatformThreads,
			Status:   itemStatus(res),
			ThreadID: res.RemoteID,
			URL:      res.URL,
			Message:  res.Message,
		}

	case models.ChannelFacebook:
		if item.AccessToken == "" {
			return tokenRequired(models.PlatformFacebook, "Facebook")
		}
		res := s.facebook.Publish(ctx, transfer.FacebookPost{
			Message:         item.Text(),
			AccessToken:     item.AccessToken,
			PageID:          item.PageID,
			PageAccessToken: item.PageAccessToken,
			ImageURL:        item.ImageURL,
		})
		return transfer.PublishItemResult{
			Channel: models.PlatformFacebook,
			Status:  itemStatus(res),
			PostID:  res.RemoteID,
			URL:     res.URL,
			Message: res.Message,
		}
	}

	return mockResult(item)
}

func mockResult(item transfer.PublishItem) transfer.PublishItemResult {
	channel := item.Tag()
	scheduled := item.ScheduledTime
	if scheduled == "" {
		scheduled = "now"
	}
	return transfer.PublishItemResult{
		Channel:       channel,
		Status:        "scheduled",
		ScheduledTime: scheduled,
		MockURL:       fmt.Sprintf("https://social.example.com/%s/post/12345", channel),
	}
}

func tokenRequired(channel, name string) transfer.PublishItemResult {
	return transfer.PublishItemResult{
		Channel: channel,
		Status:  "error",
		Note:    fmt.Sprintf("Access token required for %s posting", name),
	}
}

func itemStatus(res *transfer.PlatformResult) string {
	if res.Success {
		return "posted"
	}
	return "error"
}
