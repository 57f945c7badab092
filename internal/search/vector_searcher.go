package search

import (
	"context"
	"fmt"
	"log"

	"jewelry-assistant-be/internal/repository/contract"
	"jewelry-assistant-be/internal/repository/unitofwork"
	"jewelry-assistant-be/pkg/assistant/recommend"
	"jewelry-assistant-be/pkg/embedding"
	"jewelry-assistant-be/pkg/store"
)

// VectorSearcher embeds the query text and runs the hybrid pgvector search.
// It satisfies the recommendation engine's searcher contract.
type VectorSearcher struct {
	embedder   embedding.EmbeddingProvider
	uowFactory unitofwork.RepositoryFactory
	threshold  float64
	logger     *log.Logger
}

func NewVectorSearcher(embedder embedding.EmbeddingProvider, uowFactory unitofwork.RepositoryFactory, threshold float64, logger *log.Logger) *VectorSearcher {
	return &VectorSearcher{
		embedder:   embedder,
		uowFactory: uowFactory,
		threshold:  threshold,
		logger:     logger,
	}
}

func (s *VectorSearcher) Search(ctx context.Context, query string, filter recommend.Filter, limit int) ([]store.Product, error) {
	resp, err := s.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ProductEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		resp.Embedding.Values,
		limit,
		s.threshold,
		contract.VectorFilter{
			Category: filter.Category,
			Metal:    filter.Metal,
			MaxPrice: filter.MaxPrice,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	products := make([]store.Product, 0, len(scored))
	for _, sp := range scored {
		if sp.Product == nil {
			continue
		}
		p := *sp.Product
		p.Similarity = sp.Similarity
		products = append(products, p)
	}

	s.logger.Printf("[SEARCH] %d candidates above %.2f for %q", len(products), s.threshold, query)
	return products, nil
}
