package config

import (
	"os"
	"path/filepath"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type WordPress struct {
	Site     string
	User     string
	Password string
}

type MetaApp struct {
	AppID       string
	AppSecret   string
	RedirectURI string
}

type Config struct {
	Port             string
	LogLevel         string
	FrontendURL      string
	GoogleAPIKey     string
	GoogleModel      string
	GoogleImageModel string
	NanobananaAPIKey string
	NanobananaAPIURL string
	WordPress        WordPress
	Facebook         MetaApp
	Threads          MetaApp
	DataDir          string
	StoreBackend     string
	PostgresURI      string
	RedisURI         string
	SecretKey        string
	R2               R2
}

func LoadConfig() *Config {
	model := getEnv("GOOGLE_MODEL", "gemini-2.5-flash-lite")
	return &Config{
		Port:             getEnv("PORT", "3000"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),
		GoogleAPIKey:     getEnv("GOOGLE_API_KEY", ""),
		GoogleModel:      model,
		GoogleImageModel: getEnv("GOOGLE_IMAGE_MODEL", model),
		NanobananaAPIKey: getEnv("NANOBANANA_API_KEY", ""),
		NanobananaAPIURL: getEnv("NANOBANANA_API_URL", "https://api.nanobanana.com/v1/generate"),
		WordPress: WordPress{
			Site:     strings.TrimRight(getEnv("WP_SITE", ""), "/"),
			User:     getEnv("WP_USER", ""),
			Password: getEnv("WP_PASSWORD", ""),
		},
		Facebook: MetaApp{
			AppID:       getEnv("FACEBOOK_APP_ID", ""),
			AppSecret:   getEnv("FACEBOOK_APP_SECRET", ""),
			RedirectURI: getEnv("FACEBOOK_REDIRECT_URI", "http://localhost:3000/auth/facebook/callback"),
		},
		Threads: MetaApp{
			AppID:       getEnv("THREADS_APP_ID", ""),
			AppSecret:   getEnv("THREADS_APP_SECRET", ""),
			RedirectURI: getEnv("THREADS_REDIRECT_URI", "http://localhost:3000/auth/threads/callback"),
		},
		DataDir:      getEnv("DATA_DIR", "./data"),
		StoreBackend: getEnv("STORE_BACKEND", "file"),
		PostgresURI:  getEnv("POSTGRES_URI", ""),
		RedisURI:     getEnv("REDIS_URI", ""),
		SecretKey:    getEnv("SECRET_KEY", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  strings.TrimRight(getEnv("R2_PUBLIC_URL", ""), "/"),
		},
	}
}

func (c *Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

func (c *Config) ScheduledPostsDir() string {
	return filepath.Join(c.DataDir, "scheduled_posts")
}

func (w WordPress) Configured() bool {
	return w.Site != "" && w.User != "" && w.Password != ""
}

func (m MetaApp) Configured() bool {
	return m.AppID != "" && m.AppSecret != ""
}

func (r R2) Configured() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != "" && r.PublicURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
