package models

import (
	"strings"
	"time"
)

type PostStatus string

const (
	PostStatusScheduled PostStatus = "Scheduled"
	PostStatusPublished PostStatus = "Published"
)

const (
	PlatformWordPress = "wordpress"
	PlatformThreads   = "threads"
	PlatformFacebook  = "facebook"
	PlatformOther     = "other"
)

type ScheduledPost struct {
	ID              string     `json:"id"`
	Platform        string     `json:"platform"`
	Content         string     `json:"content"`
	DateTime        string     `json:"dateTime"`
	Status          PostStatus `json:"status"`
	ImageURL        *string    `json:"imageUrl"`
	CreatedAt       time.Time  `json:"createdAt"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	WordPressURL    string     `json:"wordpressUrl,omitempty"`
	WordPressPostID string     `json:"wordpressPostId,omitempty"`
	ThreadsURL      string     `json:"threadsUrl,omitempty"`
	ThreadsPostID   string     `json:"threadsPostId,omitempty"`
	FacebookURL     string     `json:"facebookUrl,omitempty"`
	FacebookPostID  string     `json:"facebookPostId,omitempty"`
	AutoPublish     bool       `json:"autoPublish,omitempty"`
	Credentials     string     `json:"credentials,omitempty"` // encrypted PostCredentials
	LastError       string     `json:"lastError,omitempty"`
	PublishingAt    *time.Time `json:"publishingAt,omitempty"` // set while a publisher holds the post
}

// PostCredentials is the plaintext form of ScheduledPost.Credentials.
type PostCredentials struct {
	AccessToken     string `json:"access_token,omitempty"`
	PageID          string `json:"page_id,omitempty"`
	PageAccessToken string `json:"page_access_token,omitempty"`
	Title           string `json:"title,omitempty"`
}

// UserPosts is the persisted document for one user id.
type UserPosts struct {
	Version int64            `json:"version"`
	Posts   []*ScheduledPost `json:"posts"`
}

func (d *UserPosts) GetVersion() int64  { return d.Version }
func (d *UserPosts) SetVersion(v int64) { d.Version = v }

func (d *UserPosts) Find(postID string) (int, *ScheduledPost) {
	for i, p := range d.Posts {
		if p != nil && p.ID == postID {
			return i, p
		}
	}
	return -1, nil
}

// Due reports whether the post is waiting for automatic publishing at now.
func (p *ScheduledPost) Due(now time.Time) bool {
	if !p.AutoPublish || p.Status != PostStatusScheduled {
		return false
	}
	at, err := ParseDateTime(p.DateTime)
	if err != nil {
		return false
	}
	return !at.After(now)
}

// PublishedTo reports whether the post already went out on platform.
func (p *ScheduledPost) PublishedTo(platform string) bool {
	if p.Status == PostStatusPublished && p.Platform == platform {
		return true
	}
	switch platform {
	case PlatformWordPress:
		return p.WordPressPostID != "" || p.WordPressURL != ""
	case PlatformThreads:
		return p.ThreadsPostID != "" || p.ThreadsURL != ""
	case PlatformFacebook:
		return p.FacebookPostID != "" || p.FacebookURL != ""
	}
	return false
}

// Sanitized returns a copy safe to hand back to clients.
func (p *ScheduledPost) Sanitized() *ScheduledPost {
	cp := *p
	cp.Credentials = ""
	return &cp
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime accepts the timestamp shapes the frontend produces. Values
// without a zone are read as UTC.
func ParseDateTime(s string) (time.Time, error) {
	var err error
	for _, layout := range dateTimeLayouts {
		var t time.Time
		t, err = time.Parse(layout, strings.TrimSpace(s))
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func NormalizePlatform(platform string) string {
	p := strings.ToLower(platform)
	switch {
	case strings.Contains(p, PlatformWordPress):
		return PlatformWordPress
	case strings.Contains(p, PlatformThreads):
		return PlatformThreads
	case strings.Contains(p, PlatformFacebook):
		return PlatformFacebook
	default:
		return PlatformOther
	}
}
