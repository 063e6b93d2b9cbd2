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

const FacebookGraphURL = "https://graph.facebook.com/v18.0"

type FacebookService interface {
	CheckConnection(ctx context.Context, accessToken string) *transfer.PlatformResult
	ListPages(ctx context.Context, accessToken string) *transfer.PlatformResult
	// Publish posts to a page (PageID) or the token owner's feed. Posts with
	// an image go to /photos, everything else to /feed.
	Publish(ctx context.Context, post transfer.FacebookPost) *transfer.PlatformResult
	DeletePost(ctx context.Context, accessToken, postID string) *transfer.PlatformResult
}

type facebookService struct {
	cfg     config.MetaApp
	baseURL string
	client  *http.Client
}

func NewFacebookService(cfg config.MetaApp, baseURL string, client *http.Client) FacebookService {
	return &facebookService{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  defaultClient(client),
	}
}

func (s *facebookService) CheckConnection(ctx context.Context, accessToken string) *transfer.PlatformResult {
	if !s.cfg.Configured() {
		return configFailure("Facebook API credentials not configured")
	}
	if accessToken == "" {
		return configFailure("Access token required. Please authenticate with Facebook.")
	}

	resp, err := s.get(ctx, "/me", url.Values{"access_token": {accessToken}, "fields": {"id,name"}})
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Connection error: %v", err))
	}
	if resp.status != http.StatusOK {
		return upstreamFailure("Facebook API error: " + graphError(resp.body).Error.Message)
	}

	var user transfer.GraphUser
	_ = json.Unmarshal(resp.body, &user)
	name := user.Name
	if name == "" {
		name = "Unknown"
	}

	return &transfer.PlatformResult{
		Success: true,
		Message: "Connected to Facebook as " + name,
		UserID:  user.ID,
		Name:    user.Name,
	}
}

func (s *facebookService) ListPages(ctx context.Context, accessToken string) *transfer.PlatformResult {
	if accessToken == "" {
		return configFailure("Access token required")
	}

	resp, err := s.get(ctx, "/me/accounts", url.Values{"access_token": {accessToken}, "fields": {"id,name,access_token"}})
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Network error: %v", err))
	}
	if resp.status != http.StatusOK {
		return upstreamFailure("Failed to get pages: " + graphError(resp.body).Error.Message)
	}

	var pages transfer.FacebookPagesResponse
	_ = json.Unmarshal(resp.body, &pages)
	if pages.Data == nil {
		pages.Data = []transfer.FacebookPage{}
	}

	return &transfer.PlatformResult{
		Success: true,
		Message: fmt.Sprintf("Found %d page(s)", len(pages.Data)),
		Pages:   pages.Data,
	}
}

func (s *facebookService) Publish(ctx context.Context, post transfer.FacebookPost) *transfer.PlatformResult {
	token := post.PageAccessToken
	if token == "" {
		token = post.AccessToken
	}
	if token == "" {
		return configFailure("Access token required")
	}

	target := post.PageID
	if target == "" {
		target = "me"
	}

	form := url.Values{}
	form.Set("access_token", token)
	form.Set("published", "true")

	var endpoint string
	if post.ImageURL != "" {
		endpoint = fmt.Sprintf("%s/%s/photos", s.baseURL, target)
		form.Set("url", post.ImageURL)
		form.Set("caption", post.Message)
	} else {
		endpoint = fmt.Sprintf("%s/%s/feed", s.baseURL, target)
		form.Set("message", post.Message)
		if post.Link != "" {
			form.Set("link", post.Link)
		}
	}

	resp, err := send(ctx, s.client, longTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Network error: %v", err))
	}
	if resp.status != http.StatusOK {
		e := graphError(resp.body)
		slog.Info("facebook post failed", "status", resp.status, "code", e.Error.Code, "fbtrace_id", e.Error.FbtraceID)
		res := upstreamFailure("Failed to create post: " + e.Error.Message)
		res.ErrorCode = e.Error.Code
		res.ErrorType = e.Error.Type
		return res
	}

	var created transfer.GraphIDResponse
	_ = json.Unmarshal(resp.body, &created)

	return &transfer.PlatformResult{
		Success:  true,
		Message:  "Successfully posted to Facebook",
		RemoteID: created.ID,
		URL:      FacebookPostURL(post.PageID, created.ID),
	}
}

func (s *facebookService) DeletePost(ctx context.Context, accessToken, postID string) *transfer.PlatformResult {
	if accessToken == "" {
		return configFailure("Access token required")
	}

	resp, err := send(ctx, s.client, shortTimeout, func(ctx context.Context) (*http.Request, error) {
		q := url.Values{"access_token": {accessToken}}
		return http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/%s?%s", s.baseURL, url.PathEscape(postID), q.Encode()), nil)
	})
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Network error: %v", err))
	}
	if resp.status != http.StatusOK {
		return upstreamFailure("Failed to delete post: " + graphError(resp.body).Error.Message)
	}

	return &transfer.PlatformResult{Success: true, Message: "Post deleted successfully", RemoteID: postID}
}

func (s *facebookService) get(ctx context.Context, path string, q url.Values) (*httpResponse, error) {
	return send(ctx, s.client, shortTimeout, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
	})
}

// FacebookPostURL builds the public link for a graph post id. Page posts
// come back as PAGE_POST.
func FacebookPostURL(pageID, postID string) string {
	if pageID != "" {
		if page, post, ok := strings.Cut(postID, "_"); ok {
			return fmt.Sprintf("https://www.facebook.com/%s/posts/%s", page, post)
		}
	}
	return "https://www.facebook.com/" + strings.ReplaceAll(postID, "_", "/posts/")
}
