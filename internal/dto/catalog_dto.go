package dto

type ProductCreateRequest struct {
	Id            string   `json:"id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	ImageUrl      string   `json:"image_url"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	Metal         string   `json:"metal"`
	Gemstones     []string `json:"gemstones"`
	DesignType    string   `json:"design_type"`
	StyleTags     []string `json:"style_tags"`
	OccasionTags  []string `json:"occasion_tags"`
	RecipientTags []string `json:"recipient_tags"`
	Description   string   `json:"description"`
}

type ProductListResponse struct {
	Products []ProductDetail `json:"products"`
	Total    int64           `json:"total"`
}

// PublishEmbedProductMessage is the payload queued for the embedding worker.
type PublishEmbedProductMessage struct {
	ProductId string `json:"product_id"`
}
