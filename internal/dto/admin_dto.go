package dto

import "time"

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type SessionListItem struct {
	Id           string    `json:"id"`
	CurrentState string    `json:"current_state"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SessionListResponse struct {
	Sessions []SessionListItem `json:"sessions"`
	Total    int64             `json:"total"`
}

type SessionTranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionTranscriptResponse struct {
	SessionId string                   `json:"session_id"`
	Entries   []SessionTranscriptEntry `json:"entries"`
}

type RecommendationEventItem struct {
	Id              string    `json:"id"`
	SessionId       string    `json:"session_id"`
	ProductId       string    `json:"product_id"`
	SimilarityScore *float64  `json:"similarity_score,omitempty"`
	Tier            string    `json:"tier"`
	Confidence      string    `json:"confidence"`
	CreatedAt       time.Time `json:"created_at"`
}

type AssistantStatsResponse struct {
	TotalProducts   int64 `json:"total_products"`
	IndexedProducts int64 `json:"indexed_products"`
	TotalSessions   int64 `json:"total_sessions"`
	ActiveSessions  int64 `json:"active_sessions"`
	Recommendations int64 `json:"recommendations"`
}
