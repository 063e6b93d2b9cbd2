package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/maheshrc27/ghostwriter/configs"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

const ThreadsGraphURL = "https://graph.threads.net/v1.0"

const threadsTokenRequired = "User access token required. Please authenticate with Threads."

type ThreadsService interface {
	CheckConnection(ctx context.Context, accessToken string) *transfer.PlatformResult
	// Publish creates a media container and publishes it. mediaURL switches
	// the container to an IMAGE post.
	Publish(ctx context.Context, accessToken, text, mediaURL string) *transfer.PlatformResult
}

type threadsService struct {
	cfg     config.MetaApp
	baseURL string
	client  *http.Client
}

func NewThreadsService(cfg config.MetaApp, baseURL string, client *http.Client) ThreadsService {
	return &threadsService{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  defaultClient(client),
	}
}

func (s *threadsService) CheckConnection(ctx context.Context, accessToken string) *transfer.PlatformResult {
	if !s.cfg.Configured() {
		return configFailure("Threads API credentials not configured")
	}
	if accessToken == "" {
		return configFailure(threadsTokenRequired)
	}

	resp, err := s.me(ctx, accessToken)
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Connection error: %v", err))
	}
	if resp.status != http.StatusOK {
		return upstreamFailure("Threads API error: " + graphError(resp.body).Error.Message)
	}

	var user transfer.GraphUser
	_ = json.Unmarshal(resp.body, &user)
	username := user.Username
	if username == "" {
		username = "Unknown"
	}

	return &transfer.PlatformResult{
		Success:  true,
		Message:  "Connected to Threads as " + username,
		UserID:   user.ID,
		Username: user.Username,
	}
}

func (s *threadsService) Publish(ctx context.Context, accessToken, text, mediaURL string) *transfer.PlatformResult {
	if accessToken == "" {
		return configFailure(threadsTokenRequired)
	}

	userID := s.userID(ctx, accessToken)
	if userID == "" {
		return upstreamFailure("Failed to get user ID")
	}

	container := url.Values{}
	container.Set("media_type", "TEXT")
	container.Set("text", text)
	container.Set("access_token", accessToken)
	if mediaURL != "" {
		container.Set("media_type", "IMAGE")
		container.Set("image_url", mediaURL)
	}

	resp, err := s.postForm(ctx, fmt.Sprintf("%s/%s/threads", s.baseURL, userID), container)
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Network error: %v", err))
	}
	if resp.status != http.StatusOK {
		return upstreamFailure("Failed to create thread container: " + graphError(resp.body).Error.Message)
	}

	var created transfer.GraphIDResponse
	_ = json.Unmarshal(resp.body, &created)

	publish := url.Values{}
	publish.Set("creation_id", created.ID)
	publish.Set("access_token", accessToken)

	resp, err = s.postForm(ctx, fmt.Sprintf("%s/%s/threads_publish", s.baseURL, userID), publish)
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Network error: %v", err))
	}
	if resp.status != http.StatusOK {
		return upstreamFailure("Failed to publish thread: " + graphError(resp.body).Error.Message)
	}

	var published transfer.GraphIDResponse
	_ = json.Unmarshal(resp.body, &published)

	return &transfer.PlatformResult{
		Success:  true,
		Message:  "Successfully posted to Threads",
		RemoteID: published.ID,
		URL:      "https://www.threads.net/t/" + published.ID,
	}
}

func (s *threadsService) me(ctx context.Context, accessToken string) (*httpResponse, error) {
	return send(ctx, s.client, shortTimeout, func(ctx context.Context) (*http.Request, error) {
		q := url.Values{}
		q.Set("access_token", accessToken)
		return http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/me?"+q.Encode(), nil)
	})
}

func (s *threadsService) userID(ctx context.Context, accessToken string) string {
	resp, err := s.me(ctx, accessToken)
	if err != nil {
		slog.Info(err.Error())
		return ""
	}
	if resp.status != http.StatusOK {
		return ""
	}
	var user transfer.GraphUser
	if err := json.Unmarshal(resp.body, &user); err != nil {
		return ""
	}
	return user.ID
}

func (s *threadsService) postForm(ctx context.Context, endpoint string, form url.Values) (*httpResponse, error) {
	return send(ctx, s.client, longTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}
