package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/maheshrc27/ghostwriter/configs"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

var metaApp = config.MetaApp{AppID: "app", AppSecret: "secret"}

func TestExtractTitle(t *testing.T) {
	long := strings.Repeat("word ", 40)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"first line", "Hello world\nsecond line", "Hello world"},
		{"strips tags", "<h1>Fresh <em>Bread</em></h1>\n<p>body</p>", "Fresh Bread"},
		{"skips empty markup", "<p></p>\n\n  Tasty &amp; warm  ", "Tasty & warm"},
		{"collapses whitespace", "a \t  b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.content))
		})
	}

	got := ExtractTitle("<b>" + long + "</b>")
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 100)
	assert.NotContains(t, got, "<")

	timeNow = func() time.Time { return time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC) }
	defer func() { timeNow = time.Now }()
	assert.Equal(t, "Daily Serving: March 05, 2025", ExtractTitle("<br/>"))
}

func TestDailyTitle(t *testing.T) {
	assert.Equal(t, "Daily Serving: March 05, 2025", DailyTitle(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestWordPressCredentialsFallBackToConfig(t *testing.T) {
	wp := NewWordPressService(config.WordPress{Site: "https://env.example", User: "env", Password: "pw"}, nil)

	creds, ok := wp.Credentials(transfer.WordPressCredentials{SiteURL: "https://req.example/", Username: "req"})
	assert.True(t, ok)
	assert.Equal(t, "https://req.example", creds.SiteURL)
	assert.Equal(t, "req", creds.Username)
	assert.Equal(t, "pw", creds.Password)

	_, ok = NewWordPressService(config.WordPress{}, nil).Credentials(transfer.WordPressCredentials{SiteURL: "x"})
	assert.False(t, ok)
}

func TestWordPressPublish(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wp/v2/posts", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "editor", user)
		assert.Equal(t, "app-pass", pass)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"link":"https://blog.example/hello"}`))
	}))
	defer srv.Close()

	wp := NewWordPressService(config.WordPress{Site: srv.URL, User: "editor", Password: "app-pass"}, srv.Client())
	creds, ok := wp.Credentials(transfer.WordPressCredentials{})
	require.True(t, ok)

	res := wp.Publish(context.Background(), creds, transfer.WordPressPost{Content: "<h2>Hello</h2>\nBody"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "42", res.RemoteID)
	assert.Equal(t, "https://blog.example/hello", res.URL)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "Hello", got["title"])
	assert.Equal(t, "draft", got["status"])
}

func TestWordPressPublishUndecodableBodyHasNoRemoteID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`<html>created</html>`))
	}))
	defer srv.Close()

	wp := NewWordPressService(config.WordPress{}, srv.Client())
	res := wp.Publish(context.Background(), transfer.WordPressCredentials{SiteURL: srv.URL, Username: "u", Password: "p"}, transfer.WordPressPost{Title: "T", Content: "c"})

	require.True(t, res.Success)
	assert.Empty(t, res.RemoteID)
	assert.Empty(t, res.URL)
}

func TestWordPressPublishUnauthorizedAddsHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"rest_cannot_create"}`))
	}))
	defer srv.Close()

	wp := NewWordPressService(config.WordPress{}, srv.Client())
	res := wp.Publish(context.Background(), transfer.WordPressCredentials{SiteURL: srv.URL, Username: "u", Password: "p"}, transfer.WordPressPost{Title: "T", Content: "c"})

	assert.False(t, res.Success)
	assert.Equal(t, transfer.FailureUpstream, res.Failure)
	assert.Equal(t, `WordPress API error (HTTP 401): {"code":"rest_cannot_create"}`+wordPressAuthHint, res.Message)
}

func TestWordPressCheckConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wp/v2/users/me", r.URL.Path)
		w.Write([]byte(`{"id":7,"name":"Editor"}`))
	}))
	defer srv.Close()

	wp := NewWordPressService(config.WordPress{}, srv.Client())
	res := wp.CheckConnection(context.Background(), transfer.WordPressCredentials{SiteURL: srv.URL, Username: "u", Password: "p"})
	require.True(t, res.Success)
	assert.Equal(t, "Credentials verified", res.Message)
	assert.Equal(t, "7", res.UserID)
	assert.Equal(t, "Editor", res.Name)

	res = NewWordPressService(config.WordPress{}, nil).CheckConnection(context.Background(), transfer.WordPressCredentials{})
	assert.Equal(t, transfer.FailureConfig, res.Failure)
	assert.Equal(t, WordPressNotConfigured, res.Message)
}

func TestThreadsPublish(t *testing.T) {
	var container map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me":
			w.Write([]byte(`{"id":"u1","username":"baker"}`))
		case "/u1/threads":
			assert.NoError(t, r.ParseForm())
			container = map[string]string{
				"media_type": r.PostForm.Get("media_type"),
				"text":       r.PostForm.Get("text"),
				"image_url":  r.PostForm.Get("image_url"),
			}
			w.Write([]byte(`{"id":"c1"}`))
		case "/u1/threads_publish":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "c1", r.PostForm.Get("creation_id"))
			w.Write([]byte(`{"id":"t9"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	threads := NewThreadsService(metaApp, srv.URL, srv.Client())
	res := threads.Publish(context.Background(), "tok", "hello", "https://img.example/a.png")

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "t9", res.RemoteID)
	assert.Equal(t, "https://www.threads.net/t/t9", res.URL)
	assert.Equal(t, "IMAGE", container["media_type"])
	assert.Equal(t, "hello", container["text"])
	assert.Equal(t, "https://img.example/a.png", container["image_url"])
}

func TestThreadsPublishErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me":
			w.Write([]byte(`{"id":"u1"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Invalid parameter"}}`))
		}
	}))
	defer srv.Close()

	threads := NewThreadsService(metaApp, srv.URL, srv.Client())

	res := threads.Publish(context.Background(), "", "hello", "")
	assert.Equal(t, transfer.FailureConfig, res.Failure)

	res = threads.Publish(context.Background(), "tok", "hello", "")
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to create thread container: Invalid parameter", res.Message)
}

func TestThreadsCheckConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"id":"u1","username":"baker"}`))
	}))
	defer srv.Close()

	res := NewThreadsService(metaApp, srv.URL, srv.Client()).CheckConnection(context.Background(), "tok")
	require.True(t, res.Success)
	assert.Equal(t, "Connected to Threads as baker", res.Message)

	res = NewThreadsService(config.MetaApp{}, srv.URL, srv.Client()).CheckConnection(context.Background(), "tok")
	assert.Equal(t, "Threads API credentials not configured", res.Message)

	res = NewThreadsService(metaApp, srv.URL, srv.Client()).CheckConnection(context.Background(), "")
	assert.Equal(t, threadsTokenRequired, res.Message)
}

func TestFacebookPublish(t *testing.T) {
	var path, token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		path = r.URL.Path
		token = r.PostForm.Get("access_token")
		assert.Equal(t, "true", r.PostForm.Get("published"))
		w.Write([]byte(`{"id":"123_456"}`))
	}))
	defer srv.Close()

	fb := NewFacebookService(metaApp, srv.URL, srv.Client())

	res := fb.Publish(context.Background(), transfer.FacebookPost{
		Message:         "hi",
		AccessToken:     "user",
		PageID:          "123",
		PageAccessToken: "page",
	})
	require.True(t, res.Success)
	assert.Equal(t, "/123/feed", path)
	assert.Equal(t, "page", token)
	assert.Equal(t, "https://www.facebook.com/123/posts/456", res.URL)

	res = fb.Publish(context.Background(), transfer.FacebookPost{Message: "hi", AccessToken: "user", ImageURL: "https://img.example/a.png"})
	require.True(t, res.Success)
	assert.Equal(t, "/me/photos", path)
	assert.Equal(t, "user", token)
}

func TestFacebookPublishError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	res := NewFacebookService(metaApp, srv.URL, srv.Client()).Publish(context.Background(), transfer.FacebookPost{Message: "hi", AccessToken: "bad"})
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to create post: Invalid OAuth access token", res.Message)
	assert.Equal(t, 190, res.ErrorCode)
	assert.Equal(t, "OAuthException", res.ErrorType)
}

func TestFacebookListPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/accounts", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"1","name":"Bakery","access_token":"pt"}]}`))
	}))
	defer srv.Close()

	res := NewFacebookService(metaApp, srv.URL, srv.Client()).ListPages(context.Background(), "tok")
	require.True(t, res.Success)
	assert.Equal(t, "Found 1 page(s)", res.Message)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "Bakery", res.Pages[0].Name)
}

func TestFacebookPostURL(t *testing.T) {
	assert.Equal(t, "https://www.facebook.com/1/posts/2", FacebookPostURL("1", "1_2"))
	assert.Equal(t, "https://www.facebook.com/1/posts/2", FacebookPostURL("", "1_2"))
	assert.Equal(t, "https://www.facebook.com/99", FacebookPostURL("", "99"))
}
