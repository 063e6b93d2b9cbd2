package service

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type fakeWordPress struct {
	mu         sync.Mutex
	configured bool
	fail       bool
	posts      []transfer.WordPressPost
}

func (f *fakeWordPress) Credentials(override transfer.WordPressCredentials) (transfer.WordPressCredentials, bool) {
	return transfer.WordPressCredentials{SiteURL: "https://blog.example", Username: "u", Password: "p"}, f.configured
}

func (f *fakeWordPress) CheckConnection(ctx context.Context, creds transfer.WordPressCredentials) *transfer.PlatformResult {
	return &transfer.PlatformResult{Success: true, Message: "Credentials verified"}
}

func (f *fakeWordPress) Publish(ctx context.Context, creds transfer.WordPressCredentials, post transfer.WordPressPost) *transfer.PlatformResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, post)
	if f.fail {
		return &transfer.PlatformResult{Message: "WordPress API error (HTTP 500): boom", StatusCode: 500, Failure: transfer.FailureUpstream}
	}
	return &transfer.PlatformResult{Success: true, Message: "Successfully posted to WordPress", StatusCode: 201, RemoteID: "42", URL: "https://blog.example/?p=42"}
}

type fakeThreads struct {
	mu    sync.Mutex
	delay time.Duration
	calls []string
}

func (f *fakeThreads) CheckConnection(ctx context.Context, accessToken string) *transfer.PlatformResult {
	return &transfer.PlatformResult{Success: true}
}

func (f *fakeThreads) Publish(ctx context.Context, accessToken, text, mediaURL string) *transfer.PlatformResult {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, accessToken+":"+text)
	if accessToken == "" {
		return configFailure(threadsTokenRequired)
	}
	return &transfer.PlatformResult{Success: true, Message: "Successfully posted to Threads", RemoteID: "t1", URL: "https://www.threads.net/t/t1"}
}

type fakeFacebook struct {
	mu    sync.Mutex
	posts []transfer.FacebookPost
}

func (f *fakeFacebook) CheckConnection(ctx context.Context, accessToken string) *transfer.PlatformResult {
	return &transfer.PlatformResult{Success: true}
}

func (f *fakeFacebook) ListPages(ctx context.Context, accessToken string) *transfer.PlatformResult {
	return &transfer.PlatformResult{Success: true}
}

func (f *fakeFacebook) Publish(ctx context.Context, post transfer.FacebookPost) *transfer.PlatformResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, post)
	return &transfer.PlatformResult{Success: true, Message: "Successfully posted to Facebook", RemoteID: "1_2", URL: "https://www.facebook.com/1/posts/2"}
}

func (f *fakeFacebook) DeletePost(ctx context.Context, accessToken, postID string) *transfer.PlatformResult {
	return &transfer.PlatformResult{Success: true}
}

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}
