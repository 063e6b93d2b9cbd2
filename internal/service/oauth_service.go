package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	config "github.com/maheshrc27/ghostwriter/configs"
	"github.com/maheshrc27/ghostwriter/internal/models"
	"github.com/maheshrc27/ghostwriter/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const stateTTL = 10 * time.Minute

var threadsEndpoint = oauth2.Endpoint{
	AuthURL:   "https://threads.net/oauth/authorize",
	TokenURL:  "https://graph.threads.net/oauth/access_token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type OAuthService interface {
	// GetAuthURL returns the provider consent URL carrying a signed state.
	GetAuthURL(ctx context.Context, platform string) (string, error)
	// Exchange checks the state and trades the callback code for a user access token.
	Exchange(ctx context.Context, platform, code, state string) (*oauth2.Token, error)
}

type oauthService struct {
	configs   map[string]*oauth2.Config
	secretKey string
}

func NewOAuthService(cfg *config.Config) OAuthService {
	configs := map[string]*oauth2.Config{}

	if cfg.Facebook.Configured() {
		configs[models.PlatformFacebook] = &oauth2.Config{
			ClientID:     cfg.Facebook.AppID,
			ClientSecret: cfg.Facebook.AppSecret,
			RedirectURL:  cfg.Facebook.RedirectURI,
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"pages_show_list", "pages_read_engagement", "pages_manage_posts"},
		}
	}
	if cfg.Threads.Configured() {
		configs[models.PlatformThreads] = &oauth2.Config{
			ClientID:     cfg.Threads.AppID,
			ClientSecret: cfg.Threads.AppSecret,
			RedirectURL:  cfg.Threads.RedirectURI,
			Endpoint:     threadsEndpoint,
			Scopes:       []string{"threads_basic", "threads_content_publish"},
		}
	}

	return &oauthService{configs: configs, secretKey: cfg.SecretKey}
}

func (s *oauthService) config(platform string) (*oauth2.Config, error) {
	switch platform {
	case models.PlatformFacebook, models.PlatformThreads:
	default:
		return nil, fmt.Errorf("%w: unsupported platform %q", ErrInvalidInput, platform)
	}
	c, ok := s.configs[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s app id/secret", ErrNotConfigured, platform)
	}
	if s.secretKey == "" {
		return nil, fmt.Errorf("%w: SECRET_KEY", ErrNotConfigured)
	}
	return c, nil
}

func (s *oauthService) GetAuthURL(ctx context.Context, platform string) (string, error) {
	c, err := s.config(platform)
	if err != nil {
		return "", err
	}

	state, err := utils.GenerateStateToken(s.secretKey, platform, stateTTL)
	if err != nil {
		return "", err
	}
	return c.AuthCodeURL(state), nil
}

func (s *oauthService) Exchange(ctx context.Context, platform, code, state string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code is empty", ErrInvalidInput)
	}
	c, err := s.config(platform)
	if err != nil {
		return nil, err
	}

	claims, err := utils.ValidateStateToken(s.secretKey, state)
	if err != nil || claims.Platform != platform {
		return nil, fmt.Errorf("%w: invalid state", ErrInvalidInput)
	}

	token, err := c.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: token exchange failed: %v", ErrUpstream, err)
	}
	return token, nil
}
