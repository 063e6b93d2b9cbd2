package transfer

import "github.com/maheshrc27/ghostwriter/internal/models"

type SavePostRequest struct {
	UserID      string                  `json:"user_id"`
	Platform    string                  `json:"platform"`
	Content     string                  `json:"content"`
	DateTime    string                  `json:"date_time"`
	ImageURL    *string                 `json:"image_url"`
	AutoPublish bool                    `json:"auto_publish"`
	Credentials *models.PostCredentials `json:"credentials,omitempty"`
}

type ListPostsRequest struct {
	UserID string `json:"user_id"`
}

// PublishPostRequest carries what a manual publish needs beyond the stored post.
type PublishPostRequest struct {
	UserID          string `json:"user_id"`
	PostID          string `json:"post_id"`
	Title           string `json:"title,omitempty"`
	SiteURL         string `json:"site_url,omitempty"`
	Username        string `json:"username,omitempty"`
	Password        string `json:"password,omitempty"`
	AccessToken     string `json:"access_token,omitempty"`
	PageID          string `json:"page_id,omitempty"`
	PageAccessToken string `json:"page_access_token,omitempty"`
	Link            string `json:"link,omitempty"`
}

func (r PublishPostRequest) WordPress() WordPressCredentials {
	return WordPressCredentials{SiteURL: r.SiteURL, Username: r.Username, Password: r.Password}
}
