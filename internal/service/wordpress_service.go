package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	config "github.com/maheshrc27/ghostwriter/configs"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

const (
	wordPressTitleLimit    = 100
	wordPressTimeout       = 20 * time.Second
	wordPressAuthHint      = " Check WP_USER/WP_PASSWORD; WordPress requires an Application Password."
	WordPressNotConfigured = "WordPress credentials not configured (WP_SITE, WP_USER, WP_PASSWORD)"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

type WordPressService interface {
	// Credentials fills the gaps in override from the environment. ok is
	// false when site, user or password is still missing.
	Credentials(override transfer.WordPressCredentials) (creds transfer.WordPressCredentials, ok bool)
	CheckConnection(ctx context.Context, creds transfer.WordPressCredentials) *transfer.PlatformResult
	Publish(ctx context.Context, creds transfer.WordPressCredentials, post transfer.WordPressPost) *transfer.PlatformResult
}

type wordPressService struct {
	cfg    config.WordPress
	client *http.Client
}

func NewWordPressService(cfg config.WordPress, client *http.Client) WordPressService {
	return &wordPressService{cfg: cfg, client: defaultClient(client)}
}

func (s *wordPressService) Credentials(override transfer.WordPressCredentials) (transfer.WordPressCredentials, bool) {
	creds := override
	if creds.SiteURL == "" {
		creds.SiteURL = s.cfg.Site
	}
	if creds.Username == "" {
		creds.Username = s.cfg.User
	}
	if creds.Password == "" {
		creds.Password = s.cfg.Password
	}
	creds.SiteURL = strings.TrimRight(strings.TrimSpace(creds.SiteURL), "/")
	return creds, creds.SiteURL != "" && creds.Username != "" && creds.Password != ""
}

func (s *wordPressService) CheckConnection(ctx context.Context, creds transfer.WordPressCredentials) *transfer.PlatformResult {
	creds, ok := s.Credentials(creds)
	if !ok {
		return configFailure(WordPressNotConfigured)
	}

	resp, err := send(ctx, s.client, shortTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, creds.SiteURL+"/wp-json/wp/v2/users/me", nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(creds.Username, creds.Password)
		return req, nil
	})
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Connection error: %v", err))
	}

	if resp.status != http.StatusOK {
		res := upstreamFailure(wordPressError(resp.status, resp.body))
		res.StatusCode = resp.status
		return res
	}

	var user transfer.WordPressUser
	if err := json.Unmarshal(resp.body, &user); err != nil {
		return upstreamFailure(fmt.Sprintf("Unexpected WordPress response: %v", err))
	}

	return &transfer.PlatformResult{
		Success:    true,
		Message:    "Credentials verified",
		StatusCode: resp.status,
		UserID:     strconv.FormatInt(user.ID, 10),
		Name:       user.Name,
	}
}

func (s *wordPressService) Publish(ctx context.Context, creds transfer.WordPressCredentials, post transfer.WordPressPost) *transfer.PlatformResult {
	creds, ok := s.Credentials(creds)
	if !ok {
		return configFailure(WordPressNotConfigured)
	}

	title := strings.TrimSpace(post.Title)
	if title == "" {
		title = ExtractTitle(post.Content)
	}
	status := post.Status
	if status == "" {
		status = "draft"
	}

	payload, err := json.Marshal(map[string]string{
		"title":   title,
		"content": post.Content,
		"status":  status,
	})
	if err != nil {
		return upstreamFailure(err.Error())
	}

	resp, err := send(ctx, s.client, wordPressTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.SiteURL+"/wp-json/wp/v2/posts", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(creds.Username, creds.Password)
		return req, nil
	})
	if err != nil {
		slog.Info(err.Error())
		return upstreamFailure(fmt.Sprintf("Network error: %v", err))
	}

	if resp.status != http.StatusOK && resp.status != http.StatusCreated {
		res := upstreamFailure(wordPressError(resp.status, resp.body))
		res.StatusCode = resp.status
		return res
	}

	var created transfer.WordPressPostResponse
	if err := json.Unmarshal(resp.body, &created); err != nil {
		slog.Info(err.Error())
	}

	res := &transfer.PlatformResult{
		Success:    true,
		Message:    "Successfully posted to WordPress",
		StatusCode: resp.status,
		URL:        created.Link,
	}
	if created.ID != 0 {
		res.RemoteID = strconv.FormatInt(created.ID, 10)
	}
	return res
}

func wordPressError(status int, body []byte) string {
	msg := fmt.Sprintf("WordPress API error (HTTP %d): %s", status, string(body))
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		msg += wordPressAuthHint
	}
	return msg
}

// ExtractTitle derives a post title from the first line of content that
// still has text once markup is removed.
func ExtractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		text := htmlTag.ReplaceAllString(line, " ")
		text = strings.Join(strings.Fields(html.UnescapeString(text)), " ")
		if text == "" {
			continue
		}
		if r := []rune(text); len(r) > wordPressTitleLimit {
			text = strings.TrimSpace(string(r[:wordPressTitleLimit]))
		}
		return text
	}
	return DailyTitle(timeNow())
}

func DailyTitle(t time.Time) string {
	return "Daily Serving: " + t.Format("January 02, 2006")
}
