package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/ghostwriter/internal/models"
	"github.com/maheshrc27/ghostwriter/internal/repository"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type postFixture struct {
	svc     PostService
	repo    repository.ScheduledPostRepository
	wp      *fakeWordPress
	threads *fakeThreads
	fb      *fakeFacebook
}

func newPostFixture(t *testing.T, secretKey string) *postFixture {
	t.Helper()
	f := &postFixture{
		repo:    repository.NewScheduledPostRepository(repository.NewFileBackend(t.TempDir())),
		wp:      &fakeWordPress{configured: true},
		threads: &fakeThreads{},
		fb:      &fakeFacebook{},
	}
	f.svc = NewPostService(f.repo, f.wp, f.threads, f.fb, secretKey)
	return f
}

func (f *postFixture) save(t *testing.T, req transfer.SavePostRequest) *models.ScheduledPost {
	t.Helper()
	post, _, err := f.svc.Save(context.Background(), req)
	require.NoError(t, err)
	return post
}

func TestPostSaveThenList(t *testing.T) {
	f := newPostFixture(t, "")
	ctx := context.Background()

	late := f.save(t, transfer.SavePostRequest{UserID: "u1", Platform: "Facebook", Content: "late", DateTime: "2025-02-01T09:00"})
	early := f.save(t, transfer.SavePostRequest{UserID: "u1", Platform: "Instagram", Content: "early", DateTime: "2025-01-01T09:00"})

	assert.Equal(t, models.PostStatusScheduled, late.Status)
	assert.Equal(t, models.PlatformFacebook, late.Platform)
	assert.Equal(t, models.PlatformOther, early.Platform)
	assert.NotEmpty(t, late.ID)

	posts, err := f.svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, early.ID, posts[0].ID)
	assert.Equal(t, late.ID, posts[1].ID)

	posts, err = f.svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostSaveValidates(t *testing.T) {
	f := newPostFixture(t, "")
	ctx := context.Background()

	_, _, err := f.svc.Save(ctx, transfer.SavePostRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = f.svc.Save(ctx, transfer.SavePostRequest{UserID: "u1", Content: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = f.svc.Save(ctx, transfer.SavePostRequest{UserID: "u1", Content: "x", AutoPublish: true, DateTime: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = f.svc.Save(ctx, transfer.SavePostRequest{UserID: "u1", Content: "x", Credentials: &models.PostCredentials{AccessToken: "tok"}})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPostSaveAutoPublishDelay(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	f := newPostFixture(t, "secret")

	_, delay, err := f.svc.Save(context.Background(), transfer.SavePostRequest{
		UserID: "u1", Platform: "threads", Content: "x", DateTime: "2025-01-01T09:30:00", AutoPublish: true,
		Credentials: &models.PostCredentials{AccessToken: "tok"},
	})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, delay)

	_, delay, err = f.svc.Save(context.Background(), transfer.SavePostRequest{
		UserID: "u1", Content: "x", DateTime: "2024-12-31T09:30:00", AutoPublish: true,
	})
	require.NoError(t, err)
	assert.Zero(t, delay)
}

func TestPostCredentialsNeverListed(t *testing.T) {
	f := newPostFixture(t, "secret")
	ctx := context.Background()

	saved := f.save(t, transfer.SavePostRequest{UserID: "u1", Platform: "threads", Content: "x", Credentials: &models.PostCredentials{AccessToken: "tok"}})
	assert.Empty(t, saved.Credentials)

	stored := f.repo.GetByUserID(ctx, "u1").Posts[0]
	assert.NotEmpty(t, stored.Credentials)
	assert.NotContains(t, stored.Credentials, "tok")

	posts, err := f.svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, posts[0].Credentials)
}

func TestPostDeleteRemovesExactlyOne(t *testing.T) {
	f := newPostFixture(t, "")
	ctx := context.Background()

	a := f.save(t, transfer.SavePostRequest{UserID: "u1", Content: "a", DateTime: "1"})
	b := f.save(t, transfer.SavePostRequest{UserID: "u1", Content: "b", DateTime: "2"})
	c := f.save(t, transfer.SavePostRequest{UserID: "u1", Content: "c", DateTime: "3"})

	require.NoError(t, f.svc.Delete(ctx, "u1", b.ID))

	posts, err := f.svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, a.ID, posts[0].ID)
	assert.Equal(t, c.ID, posts[1].ID)

	assert.ErrorIs(t, f.svc.Delete(ctx, "u1", b.ID), ErrPostNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "u1", ""), ErrInvalidInput)
}

func TestPostPublishWordPress(t *testing.T) {
	f := newPostFixture(t, "")
	ctx := context.Background()

	saved := f.save(t, transfer.SavePostRequest{UserID: "u1", Platform: "other", Content: "<h1>Title here</h1>\nbody"})

	post, res, err := f.svc.PublishWordPress(ctx, transfer.PublishPostRequest{UserID: "u1", PostID: saved.ID})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.Equal(t, "https://blog.example/?p=42", post.WordPressURL)
	assert.Equal(t, "42", post.WordPressPostID)
	assert.NotNil(t, post.PublishedAt)
	assert.Equal(t, "publish", f.wp.posts[0].Status)

	got, err := f.svc.Get(ctx, "u1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	assert.Equal(t, "https://blog.example/?p=42", got.WordPressURL)
}

func TestPostPublishFailureLeavesPostUnchanged(t *testing.T) {
	f := newPostFixture(t, "")
	f.wp.fail = true
	ctx := context.Background()

	saved := f.save(t, transfer.SavePostRequest{UserID: "u1", Content: "x"})

	post, res, err := f.svc.PublishWordPress(ctx, transfer.PublishPostRequest{UserID: "u1", PostID: saved.ID})
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.False(t, res.Success)

	got, err := f.svc.Get(ctx, "u1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, got.Status)
}

func TestPostPublishThreadsAndFacebook(t *testing.T) {
	f := newPostFixture(t, "")
	ctx := context.Background()

	saved := f.save(t, transfer.SavePostRequest{UserID: "u1", Content: "hello"})

	post, res, err := f.svc.PublishThreads(ctx, transfer.PublishPostRequest{UserID: "u1", PostID: saved.ID, AccessToken: "tok"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "https://www.threads.net/t/t1", post.ThreadsURL)

	post, _, err = f.svc.PublishFacebook(ctx, transfer.PublishPostRequest{UserID: "u1", PostID: saved.ID, AccessToken: "tok", PageID: "1", Link: "https://l.example"})
	require.NoError(t, err)
	assert.Equal(t, "1_2", post.FacebookPostID)
	assert.Equal(t, "https://l.example", f.fb.posts[0].Link)

	_, _, err = f.svc.PublishThreads(ctx, transfer.PublishPostRequest{UserID: "u1", PostID: "missing", AccessToken: "tok"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostPublishDue(t *testing.T) {
	f := newPostFixture(t, "secret")
	ctx := context.Background()

	due := f.save(t, transfer.SavePostRequest{
		UserID: "u1", Platform: "threads", Content: "due", DateTime: "2025-01-01T09:00", AutoPublish: true,
		Credentials: &models.PostCredentials{AccessToken: "tok"},
	})
	future := f.save(t, transfer.SavePostRequest{UserID: "u2", Platform: "threads", Content: "later", DateTime: "2025-06-01T09:00", AutoPublish: true})
	manual := f.save(t, transfer.SavePostRequest{UserID: "u2", Platform: "threads", Content: "manual", DateTime: "2025-01-01T09:00"})
	failing := f.save(t, transfer.SavePostRequest{UserID: "u2", Platform: "threads", Content: "no token", DateTime: "2025-01-01T08:00", AutoPublish: true})

	n, err := f.svc.PublishDue(ctx, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := f.svc.Get(ctx, "u1", due.ID)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	assert.ElementsMatch(t, []string{"tok:due", ":no token"}, f.threads.calls)

	got, _ = f.svc.Get(ctx, "u2", failing.ID)
	assert.Equal(t, models.PostStatusScheduled, got.Status)
	assert.Equal(t, threadsTokenRequired, got.LastError)

	for _, id := range []string{future.ID, manual.ID} {
		got, _ = f.svc.Get(ctx, "u2", id)
		assert.Equal(t, models.PostStatusScheduled, got.Status)
	}

	// Already published posts are not sent again.
	require.NoError(t, f.svc.PublishScheduled(ctx, "u1", due.ID))
	assert.Len(t, f.threads.calls, 2)
}

func TestPostAutoPublishSendsOnceUnderConcurrentPublishers(t *testing.T) {
	f := newPostFixture(t, "secret")
	f.threads.delay = 100 * time.Millisecond
	ctx := context.Background()

	due := f.save(t, transfer.SavePostRequest{
		UserID: "u1", Platform: "threads", Content: "due", DateTime: "2025-01-01T09:00", AutoPublish: true,
		Credentials: &models.PostCredentials{AccessToken: "tok"},
	})
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)
	for range 3 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.svc.PublishScheduled(ctx, "u1", due.ID))
		}()
		go func() {
			defer wg.Done()
			n, err := f.svc.PublishDue(ctx, now)
			assert.NoError(t, err)
			mu.Lock()
			sent += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"tok:due"}, f.threads.calls)
	assert.LessOrEqual(t, sent, 1)

	got, err := f.svc.Get(ctx, "u1", due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	assert.Nil(t, got.PublishingAt)
	assert.Equal(t, "t1", got.ThreadsPostID)
}

func TestPostManualPublishRespectsClaims(t *testing.T) {
	f := newPostFixture(t, "")
	ctx := context.Background()

	saved := f.save(t, transfer.SavePostRequest{UserID: "u1", Platform: "threads", Content: "hello"})
	req := transfer.PublishPostRequest{UserID: "u1", PostID: saved.ID, AccessToken: "tok"}

	hold := func(at time.Time) {
		_, err := f.repo.Update(ctx, "u1", func(d *models.UserPosts) error {
			_, p := d.Find(saved.ID)
			p.PublishingAt = &at
			return nil
		})
		require.NoError(t, err)
	}

	hold(time.Now().UTC())
	_, _, err := f.svc.PublishThreads(ctx, req)
	assert.ErrorIs(t, err, ErrPublishInProgress)
	assert.Empty(t, f.threads.calls)

	// A claim left behind by a crashed publisher expires.
	hold(time.Now().UTC().Add(-publishClaimTTL - time.Minute))
	post, res, err := f.svc.PublishThreads(ctx, req)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Nil(t, post.PublishingAt)

	_, _, err = f.svc.PublishThreads(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, f.threads.calls, 1)

	// Auto-publish never picks up a post that already went out.
	require.NoError(t, f.svc.PublishScheduled(ctx, "u1", saved.ID))
	assert.Len(t, f.threads.calls, 1)
}

func TestPostPublishWordPressWithoutCredentialsReleasesClaim(t *testing.T) {
	f := newPostFixture(t, "")
	f.wp.configured = false
	ctx := context.Background()

	saved := f.save(t, transfer.SavePostRequest{UserID: "u1", Content: "x"})

	_, _, err := f.svc.PublishWordPress(ctx, transfer.PublishPostRequest{UserID: "u1", PostID: saved.ID})
	assert.ErrorIs(t, err, ErrNotConfigured)

	got, err := f.svc.Get(ctx, "u1", saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PublishingAt)
	assert.Equal(t, models.PostStatusScheduled, got.Status)
}
