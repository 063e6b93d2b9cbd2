package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/ghostwriter/internal/transfer"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// Publisher is the dispatcher the publish_or_schedule tool calls into.
type Publisher interface {
	PublishOrSchedule(ctx context.Context, items []transfer.PublishItem) *transfer.PublishResult
}

type Trend struct {
	Topic         string  `json:"topic"`
	Platform      string  `json:"platform"`
	VelocityScore float64 `json:"velocity_score"`
}

type FetchTrendsInput struct {
	BrandTopic string `json:"brand_topic"`
}

type FetchTrendsOutput struct {
	Status     string  `json:"status"`
	BrandTopic string  `json:"brand_topic"`
	Trends     []Trend `json:"trends"`
	AsOf       string  `json:"as_of"`
}

type ChannelMetrics struct {
	Channel  string `json:"channel"`
	Views    int    `json:"views"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
}

type AnalyticsInput struct{}

type AnalyticsOutput struct {
	Status  string           `json:"status"`
	Metrics []ChannelMetrics `json:"metrics"`
	AsOf    string           `json:"as_of"`
}

type PublishInput struct {
	Items []transfer.PublishItem `json:"items"`
}

var now = time.Now

func FetchTrends(brandTopic string) FetchTrendsOutput {
	return FetchTrendsOutput{
		Status:     "success",
		BrandTopic: brandTopic,
		Trends: []Trend{
			{Topic: "AI won’t replace you, but someone using AI will", Platform: "TikTok", VelocityScore: 0.92},
			{Topic: "Women in tech switching careers into AI", Platform: "Instagram", VelocityScore: 0.87},
			{Topic: "How to stay relevant in the age of agents", Platform: "LinkedIn", VelocityScore: 0.81},
		},
		AsOf: now().UTC().Format(time.RFC3339),
	}
}

func MockAnalytics() AnalyticsOutput {
	return AnalyticsOutput{
		Status: "success",
		Metrics: []ChannelMetrics{
			{Channel: "TikTok", Views: 18450, Likes: 3200, Comments: 240},
			{Channel: "Instagram", Views: 8200, Likes: 970, Comments: 54},
			{Channel: "YouTubeShort", Views: 4200, Likes: 380, Comments: 21},
			{Channel: "LinkedIn", Views: 3100, Likes: 265, Comments: 19},
		},
		AsOf: now().UTC().Format(time.RFC3339),
	}
}

// NewTools builds every tool the catalog can reference, keyed by name.
func NewTools(publisher Publisher) (map[string]tool.Tool, error) {
	trends, err := functiontool.New(functiontool.Config{
		Name:        "fetch_trends",
		Description: "Return a few trending topics for the brand niche.",
	}, func(ctx tool.Context, in FetchTrendsInput) (FetchTrendsOutput, error) {
		return FetchTrends(in.BrandTopic), nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch_trends tool: %w", err)
	}

	publish, err := functiontool.New(functiontool.Config{
		Name:        "publish_or_schedule",
		Description: "Publish or schedule posts to WordPress, Threads and Facebook. Other channels, or channels without credentials, are mock-scheduled.",
	}, func(ctx tool.Context, in PublishInput) (transfer.PublishResult, error) {
		return *publisher.PublishOrSchedule(ctx, in.Items), nil
	})
	if err != nil {
		return nil, fmt.Errorf("publish_or_schedule tool: %w", err)
	}

	analytics, err := functiontool.New(functiontool.Config{
		Name:        "get_mock_analytics",
		Description: "Return engagement metrics per channel for the last campaign.",
	}, func(ctx tool.Context, in AnalyticsInput) (AnalyticsOutput, error) {
		return MockAnalytics(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("get_mock_analytics tool: %w", err)
	}

	return map[string]tool.Tool{
		"fetch_trends":        trends,
		"publish_or_schedule": publish,
		"get_mock_analytics":  analytics,
	}, nil
}
