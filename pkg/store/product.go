package store

// Product is a catalog item as it flows through the recommendation pipeline.
// Similarity and MatchScore are transient ranking values attached per
// recommendation event; they are never written back to the catalog.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	ImageURL      string   `json:"image_url,omitempty"`
	Price         float64  `json:"price"`
	Metal         string   `json:"metal"`
	Gemstones     []string `json:"gemstones"`
	DesignType    string   `json:"design_type"`
	StyleTags     []string `json:"style_tags"`
	OccasionTags  []string `json:"occasion_tags"`
	RecipientTags []string `json:"recipient_tags"`
	Description   string   `json:"description,omitempty"`

	Similarity float64 `json:"similarity_score,omitempty"`
	MatchScore float64 `json:"-"`
}
