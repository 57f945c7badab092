package contract

import (
	"context"

	"jewelry-assistant-be/pkg/store"
)

// ScoredProduct pairs a catalog product with its cosine similarity to the
// query vector.
type ScoredProduct struct {
	Product    *store.Product
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// VectorFilter is the structured part of a hybrid similarity search. Nil
// fields are not applied.
type VectorFilter struct {
	Category *string
	Metal    *string
	MaxPrice *float64
}

type ProductEmbeddingRepository interface {
	Upsert(ctx context.Context, productId, document string, embedding []float32) error
	DeleteByProductId(ctx context.Context, productId string) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilarWithScore runs the hybrid query: cosine similarity over the
	// index joined with the structured filters, results above threshold only.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, filter VectorFilter) ([]*ScoredProduct, error)
}
