package transfer

import "github.com/maheshrc27/ghostwriter/internal/models"

type ChatRequest struct {
	BrandInfo string `json:"brand_info"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Reply     string            `json:"reply"`
	FollowUp  string            `json:"follow_up"`
	SessionID string            `json:"session_id"`
	History   []models.ChatTurn `json:"history"`
}
