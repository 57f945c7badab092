package implementation

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jewelry-assistant-be/internal/mapper"
	"jewelry-assistant-be/internal/model"
	"jewelry-assistant-be/internal/repository/contract"
)

type ProductEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductEmbeddingRepository(db *gorm.DB) contract.ProductEmbeddingRepository {
	return &ProductEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductEmbeddingRepositoryImpl) Upsert(ctx context.Context, productId, document string, embedding []float32) error {
	m := &model.ProductEmbedding{
		ProductId:      productId,
		Document:       document,
		EmbeddingValue: pgvector.NewVector(embedding),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "embedding_value", "updated_at"}),
		}).
		Create(m).Error
}

func (r *ProductEmbeddingRepositoryImpl) DeleteByProductId(ctx context.Context, productId string) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productId).Delete(&model.ProductEmbedding{}).Error
}

func (r *ProductEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore joins the vector index with the catalog so the
// structured filters and the similarity cutoff run in one query.
// Cosine distance in pgvector is: 1 - cosine_similarity
// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
func (r *ProductEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, filter contract.VectorFilter) ([]*contract.ScoredProduct, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Product
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("product_embeddings").
		Select("products.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN products ON products.id = product_embeddings.product_id").
		Where("product_embeddings.deleted_at IS NULL").
		Where("products.deleted_at IS NULL").
		Where("products.is_active = ?", true).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)

	if filter.Category != nil {
		query = query.Where("LOWER(products.category) = LOWER(?)", *filter.Category)
	}
	if filter.Metal != nil {
		query = query.Where("products.metal ILIKE ?", "%"+*filter.Metal+"%")
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredProduct, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredProduct{
			Product:    r.mapper.ToEntity(&res.Product),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
