package transfer

import "strings"

type PublishItem struct {
	Channel         string `json:"channel"`
	Title           string `json:"title,omitempty"`
	Content         string `json:"content,omitempty"`
	Caption         string `json:"caption,omitempty"`
	Status          string `json:"status,omitempty"`
	PostToWP        bool   `json:"post_to_wp,omitempty"`
	AccessToken     string `json:"access_token,omitempty"`
	PageID          string `json:"page_id,omitempty"`
	PageAccessToken string `json:"page_access_token,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	ScheduledTime   string `json:"scheduled_time,omitempty"`
}

// Text is the body to publish: content, else caption.
func (i PublishItem) Text() string {
	if i.Content != "" {
		return i.Content
	}
	return i.Caption
}

// Tag is the lowercased channel tag, "unknown" when absent.
func (i PublishItem) Tag() string {
	if strings.TrimSpace(i.Channel) == "" {
		return "unknown"
	}
	return strings.ToLower(i.Channel)
}

type PublishRequest struct {
	Items []PublishItem `json:"items"`
}

type PublishItemResult struct {
	Channel       string `json:"channel"`
	Status        string `json:"status"`
	ResponseCode  int    `json:"response_code,omitempty"`
	URL           string `json:"url,omitempty"`
	PostID        string `json:"post_id,omitempty"`
	ThreadID      string `json:"thread_id,omitempty"`
	Message       string `json:"message,omitempty"`
	Note          string `json:"note,omitempty"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	MockURL       string `json:"mock_url,omitempty"`
}

type PublishResult struct {
	Status string              `json:"status"`
	Items  []PublishItemResult `json:"items"`
	Note   string              `json:"note"`
}
