package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

const (
	checkTimeout       = 5 * time.Second
	wordPressThreshold = 2
)

type SiteService interface {
	// CheckWordPress scores five independent WordPress fingerprints.
	CheckWordPress(ctx context.Context, site string) (*transfer.CheckWordPressResponse, error)
}

type siteService struct {
	client *http.Client
}

func NewSiteService(client *http.Client) SiteService {
	return &siteService{client: defaultClient(client)}
}

func (s *siteService) CheckWordPress(ctx context.Context, site string) (*transfer.CheckWordPressResponse, error) {
	site = strings.TrimRight(strings.TrimSpace(site), "/")
	if site == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	if !strings.Contains(site, "://") {
		site = "https://" + site
	}
	base, err := url.Parse(site)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: %q is not a valid URL", ErrInvalidInput, site)
	}

	var signals transfer.WordPressSignals

	if r := s.fetch(ctx, resolve(base, "/wp-json/")); r != nil && r.status == http.StatusOK {
		var index map[string]any
		if json.Unmarshal(r.body, &index) == nil && index != nil {
			signals.WPJSON = true
		}
	}

	if r := s.fetch(ctx, base.String()); r != nil {
		page := strings.ToLower(string(r.body))
		signals.WPContent = strings.Contains(page, "wp-content") || strings.Contains(page, "wp-includes")
		signals.MetaGenerator = strings.Contains(page, `generator" content="wordpress`)
	}

	if r := s.fetch(ctx, resolve(base, "/wp-login.php")); r != nil {
		signals.WPLogin = r.status == http.StatusOK || r.status == http.StatusFound
		signals.HeadersPowered = strings.Contains(strings.ToLower(r.header.Get("X-Powered-By")), "wordpress")
	}

	score := signals.Score()
	return &transfer.CheckWordPressResponse{
		IsWordPress: score >= wordPressThreshold,
		Score:       score,
		Signals:     signals,
	}, nil
}

// fetch answers nil for any transport failure.
func (s *siteService) fetch(ctx context.Context, target string) *httpResponse {
	resp, err := send(ctx, s.client, checkTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		return req, nil
	})
	if err != nil {
		return nil
	}
	return resp
}

func resolve(base *url.URL, path string) string {
	return base.ResolveReference(&url.URL{Path: path}).String()
}
