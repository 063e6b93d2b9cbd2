package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/ghostwriter/internal/models"
	"github.com/maheshrc27/ghostwriter/internal/repository"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
	"github.com/maheshrc27/ghostwriter/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	dueConcurrency  = 4
	publishClaimTTL = 5 * time.Minute
)

var errNothingToPublish = errors.New("post is not waiting to be published")

type PostService interface {
	// Save stores a new Scheduled post. delay is how long until its
	// dateTime, zero when already due or not auto-published.
	Save(ctx context.Context, req transfer.SavePostRequest) (post *models.ScheduledPost, delay time.Duration, err error)
	List(ctx context.Context, userID string) ([]*models.ScheduledPost, error)
	Get(ctx context.Context, userID, postID string) (*models.ScheduledPost, error)
	Delete(ctx context.Context, userID, postID string) error
	PublishWordPress(ctx context.Context, req transfer.PublishPostRequest) (*models.ScheduledPost, *transfer.PlatformResult, error)
	PublishThreads(ctx context.Context, req transfer.PublishPostRequest) (*models.ScheduledPost, *transfer.PlatformResult, error)
	PublishFacebook(ctx context.Context, req transfer.PublishPostRequest) (*models.ScheduledPost, *transfer.PlatformResult, error)
	// PublishScheduled publishes an auto-publish post with its stored
	// credentials. Posts no longer Scheduled, or held by another publisher,
	// are skipped.
	PublishScheduled(ctx context.Context, userID, postID string) error
	// PublishDue publishes every auto-publish post whose dateTime has passed
	// and reports how many went out.
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

type postService struct {
	repo      repository.ScheduledPostRepository
	wp        WordPressService
	threads   ThreadsService
	facebook  FacebookService
	secretKey string
}

func NewPostService(
	repo repository.ScheduledPostRepository,
	wp WordPressService,
	threads ThreadsService,
	facebook FacebookService,
	secretKey string) PostService {
	return &postService{
		repo:      repo,
		wp:        wp,
		threads:   threads,
		facebook:  facebook,
		secretKey: secretKey,
	}
}

func (s *postService) Save(ctx context.Context, req transfer.SavePostRequest) (*models.ScheduledPost, time.Duration, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, 0, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, 0, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, 0, err
	}

	post := &models.ScheduledPost{
		ID:          id,
		Platform:    models.NormalizePlatform(req.Platform),
		Content:     req.Content,
		DateTime:    req.DateTime,
		Status:      models.PostStatusScheduled,
		ImageURL:    req.ImageURL,
		CreatedAt:   timeNow().UTC(),
		AutoPublish: req.AutoPublish,
	}

	var delay time.Duration
	if req.AutoPublish {
		at, err := models.ParseDateTime(req.DateTime)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: date_time %q is not a timestamp", ErrInvalidInput, req.DateTime)
		}
		delay = max(at.Sub(timeNow()), 0)
	}

	if req.Credentials != nil && *req.Credentials != (models.PostCredentials{}) {
		sealed, err := s.seal(*req.Credentials)
		if err != nil {
			return nil, 0, err
		}
		post.Credentials = sealed
	}

	_, err = s.repo.Update(ctx, req.UserID, func(d *models.UserPosts) error {
		d.Posts = append(d.Posts, post)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("save post: %w", err)
	}

	return post.Sanitized(), delay, nil
}

func (s *postService) List(ctx context.Context, userID string) ([]*models.ScheduledPost, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	doc := s.repo.GetByUserID(ctx, userID)
	posts := make([]*models.ScheduledPost, 0, len(doc.Posts))
	for _, p := range doc.Posts {
		if p != nil {
			posts = append(posts, p.Sanitized())
		}
	}
	slices.SortStableFunc(posts, func(a, b *models.ScheduledPost) int {
		return cmp.Compare(a.DateTime, b.DateTime)
	})
	return posts, nil
}

func (s *postService) Get(ctx context.Context, userID, postID string) (*models.ScheduledPost, error) {
	post, err := s.find(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	return post.Sanitized(), nil
}

func (s *postService) Delete(ctx context.Context, userID, postID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(postID) == "" {
		return fmt.Errorf("%w: user_id and post_id are required", ErrInvalidInput)
	}
	_, err := s.repo.Update(ctx, userID, func(d *models.UserPosts) error {
		i, _ := d.Find(postID)
		if i < 0 {
			return ErrPostNotFound
		}
		d.Posts = slices.Delete(d.Posts, i, i+1)
		return nil
	})
	return err
}

func (s *postService) PublishWordPress(ctx context.Context, req transfer.PublishPostRequest) (*models.ScheduledPost, *transfer.PlatformResult, error) {
	post, err := s.claim(ctx, req.UserID, req.PostID, models.PlatformWordPress)
	if err != nil {
		return nil, nil, err
	}
	creds, ok := s.wp.Credentials(req.WordPress())
	if !ok {
		s.release(ctx, req.UserID, post.ID)
		return nil, nil, fmt.Errorf("%w: %s", ErrNotConfigured, WordPressNotConfigured)
	}

	res := s.wp.Publish(ctx, creds, transfer.WordPressPost{
		Title:   req.Title,
		Content: post.Content,
		Status:  "publish",
	})
	return s.complete(ctx, req.UserID, post.ID, models.PlatformWordPress, res)
}

func (s *postService) PublishThreads(ctx context.Context, req transfer.PublishPostRequest) (*models.ScheduledPost, *transfer.PlatformResult, error) {
	post, err := s.claim(ctx, req.UserID, req.PostID, models.PlatformThreads)
	if err != nil {
		return nil, nil, err
	}

	res := s.threads.Publish(ctx, req.AccessToken, post.Content, imageURL(post))
	return s.complete(ctx, req.UserID, post.ID, models.PlatformThreads, res)
}

func (s *postService) PublishFacebook(ctx context.Context, req transfer.PublishPostRequest) (*models.ScheduledPost, *transfer.PlatformResult, error) {
	post, err := s.claim(ctx, req.UserID, req.PostID, models.PlatformFacebook)
	if err != nil {
		return nil, nil, err
	}

	res := s.facebook.Publish(ctx, transfer.FacebookPost{
		Message:         post.Content,
		AccessToken:     req.AccessToken,
		PageID:          req.PageID,
		PageAccessToken: req.PageAccessToken,
		Link:            req.Link,
		ImageURL:        imageURL(post),
	})
	return s.complete(ctx, req.UserID, post.ID, models.PlatformFacebook, res)
}

func (s *postService) PublishScheduled(ctx context.Context, userID, postID string) error {
	_, err := s.publishScheduled(ctx, userID, postID)
	return err
}

// publishScheduled reports whether this call sent the post.
func (s *postService) publishScheduled(ctx context.Context, userID, postID string) (bool, error) {
	post, err := s.claim(ctx, userID, postID, "")
	if errors.Is(err, errNothingToPublish) || errors.Is(err, ErrPublishInProgress) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	res, err := s.sendScheduled(ctx, post)
	if err == nil && !res.Success {
		err = errors.New(res.Message)
	}

	if _, ferr := s.finish(ctx, userID, postID, post.Platform, res, err); ferr != nil {
		slog.Info(ferr.Error())
		if err == nil {
			err = ferr
		}
	}
	return err == nil, err
}

func (s *postService) sendScheduled(ctx context.Context, post *models.ScheduledPost) (*transfer.PlatformResult, error) {
	var creds models.PostCredentials
	if post.Credentials != "" {
		var err error
		creds, err = s.open(post.Credentials)
		if err != nil {
			return nil, err
		}
	}

	switch post.Platform {
	case models.PlatformWordPress:
		wpCreds, ok := s.wp.Credentials(transfer.WordPressCredentials{})
		if !ok {
			return nil, errors.New(WordPressNotConfigured)
		}
		return s.wp.Publish(ctx, wpCreds, transfer.WordPressPost{Title: creds.Title, Content: post.Content, Status: "publish"}), nil
	case models.PlatformThreads:
		return s.threads.Publish(ctx, creds.AccessToken, post.Content, imageURL(post)), nil
	case models.PlatformFacebook:
		return s.facebook.Publish(ctx, transfer.FacebookPost{
			Message:         post.Content,
			AccessToken:     creds.AccessToken,
			PageID:          creds.PageID,
			PageAccessToken: creds.PageAccessToken,
			ImageURL:        imageURL(post),
		}), nil
	}
	return nil, fmt.Errorf("platform %q cannot be published automatically", post.Platform)
}

func (s *postService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	userIDs, err := s.repo.UserIDs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		published int
	)
	semaphore := make(chan struct{}, dueConcurrency)

	for _, userID := range userIDs {
		for _, post := range s.repo.GetByUserID(ctx, userID).Posts {
			if post == nil || !post.Due(now) {
				continue
			}

			wg.Add(1)
			semaphore <- struct{}{}
			go func(userID, postID string) {
				defer wg.Done()
				defer func() { <-semaphore }()

				sent, err := s.publishScheduled(ctx, userID, postID)
				if err != nil {
					log.Printf("Error auto-publishing post %s for user %s: %v", postID, userID, err)
					return
				}
				if sent {
					mu.Lock()
					published++
					mu.Unlock()
				}
			}(userID, post.ID)
		}
	}

	wg.Wait()
	return published, nil
}

// claim takes the post for one publisher under the document lock. An empty
// platform is the auto-publish path: the post must still be Scheduled and
// goes out on its own platform. A claim older than publishClaimTTL is
// considered abandoned.
func (s *postService) claim(ctx context.Context, userID, postID, platform string) (*models.ScheduledPost, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(postID) == "" {
		return nil, fmt.Errorf("%w: user_id and post_id are required", ErrInvalidInput)
	}

	var claimed models.ScheduledPost
	_, err := s.repo.Update(ctx, userID, func(d *models.UserPosts) error {
		_, p := d.Find(postID)
		if p == nil {
			return ErrPostNotFound
		}

		now := timeNow().UTC()
		if p.PublishingAt != nil && now.Sub(*p.PublishingAt) < publishClaimTTL {
			return ErrPublishInProgress
		}

		auto := platform == ""
		if auto {
			if p.Status != models.PostStatusScheduled || p.PublishedTo(p.Platform) {
				return errNothingToPublish
			}
		} else if p.PublishedTo(platform) {
			return fmt.Errorf("%w: post already published to %s", ErrInvalidInput, platform)
		}

		p.PublishingAt = &now
		claimed = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &claimed, nil
}

// finish drops the claim and records the outcome. A platform the post
// already went out on keeps its first result.
func (s *postService) finish(ctx context.Context, userID, postID, platform string, res *transfer.PlatformResult, cause error) (*models.ScheduledPost, error) {
	var updated *models.ScheduledPost
	_, err := s.repo.Update(ctx, userID, func(d *models.UserPosts) error {
		_, p := d.Find(postID)
		if p == nil {
			return ErrPostNotFound
		}
		p.PublishingAt = nil
		switch {
		case cause != nil:
			p.LastError = cause.Error()
		case res != nil && res.Success && !p.PublishedTo(platform):
			applyPublished(p, platform, res)
		}
		updated = p.Sanitized()
		return nil
	})
	return updated, err
}

func (s *postService) release(ctx context.Context, userID, postID string) {
	if _, err := s.finish(ctx, userID, postID, "", nil, nil); err != nil {
		slog.Info(err.Error())
	}
}

// complete ends a manual publish. A failed platform call leaves the post as
// it was apart from the released claim.
func (s *postService) complete(ctx context.Context, userID, postID, platform string, res *transfer.PlatformResult) (*models.ScheduledPost, *transfer.PlatformResult, error) {
	updated, err := s.finish(ctx, userID, postID, platform, res, nil)
	if err != nil {
		return nil, res, fmt.Errorf("record publish of %s: %w", postID, err)
	}
	if !res.Success {
		return nil, res, nil
	}
	return updated, res, nil
}

func (s *postService) find(ctx context.Context, userID, postID string) (*models.ScheduledPost, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(postID) == "" {
		return nil, fmt.Errorf("%w: user_id and post_id are required", ErrInvalidInput)
	}
	_, post := s.repo.GetByUserID(ctx, userID).Find(postID)
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) seal(creds models.PostCredentials) (string, error) {
	if s.secretKey == "" {
		return "", fmt.Errorf("%w: SECRET_KEY is required to store platform credentials", ErrNotConfigured)
	}
	plain, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}
	return utils.Seal(plain, s.secretKey)
}

func (s *postService) open(sealed string) (models.PostCredentials, error) {
	var creds models.PostCredentials
	if s.secretKey == "" {
		return creds, fmt.Errorf("%w: SECRET_KEY is required to read platform credentials", ErrNotConfigured)
	}
	plain, err := utils.Open(sealed, s.secretKey)
	if err != nil {
		return creds, fmt.Errorf("decrypt credentials: %w", err)
	}
	err = json.Unmarshal(plain, &creds)
	return creds, err
}

func applyPublished(p *models.ScheduledPost, platform string, res *transfer.PlatformResult) {
	now := timeNow().UTC()
	p.Status = models.PostStatusPublished
	p.PublishedAt = &now
	p.LastError = ""

	switch platform {
	case models.PlatformWordPress:
		p.WordPressURL, p.WordPressPostID = res.URL, res.RemoteID
	case models.PlatformThreads:
		p.ThreadsURL, p.ThreadsPostID = res.URL, res.RemoteID
	case models.PlatformFacebook:
		p.FacebookURL, p.FacebookPostID = res.URL, res.RemoteID
	}
}

func imageURL(post *models.ScheduledPost) string {
	if post.ImageURL == nil {
		return ""
	}
	return *post.ImageURL
}
