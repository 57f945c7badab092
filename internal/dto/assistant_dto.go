package dto

type ChatRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
}

type ActionButton struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ProductDetail struct {
	Id              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	ImageUrl        string   `json:"image_url,omitempty"`
	Price           float64  `json:"price"`
	Metal           string   `json:"metal,omitempty"`
	Gemstones       []string `json:"gemstones,omitempty"`
	DesignType      string   `json:"design_type,omitempty"`
	StyleTags       []string `json:"style_tags,omitempty"`
	OccasionTags    []string `json:"occasion_tags,omitempty"`
	Description     string   `json:"description,omitempty"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	Confidence      string   `json:"confidence,omitempty"`
}

type ChatResponse struct {
	SessionId            string          `json:"session_id"`
	Reply                string          `json:"reply"`
	Products             []ProductDetail `json:"products,omitempty"`
	CurrentState         string          `json:"current_state"`
	NextActionSuggestion string          `json:"next_action_suggestion"`
	ActionButtons        []ActionButton  `json:"action_buttons,omitempty"`
	EndConversation      bool            `json:"end_conversation"`
}

type NewSessionRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type NewSessionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
