package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/repository/memory"
	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/internal/repository/unitofwork"
	"jewelry-assistant-be/pkg/store"
)

// ICatalogService manages the product catalog. Every write queues the product
// for (re)embedding so the vector index follows the catalog.
type ICatalogService interface {
	Create(ctx context.Context, req *dto.ProductCreateRequest) (*dto.ProductDetail, error)
	CreateBulk(ctx context.Context, reqs []dto.ProductCreateRequest) (int, error)
	Update(ctx context.Context, req *dto.ProductCreateRequest) (*dto.ProductDetail, error)
	Delete(ctx context.Context, id string) error
	GetById(ctx context.Context, id string) (*dto.ProductDetail, error)
	List(ctx context.Context, category string, page, pageSize int) (*dto.ProductListResponse, error)
	ReindexAll(ctx context.Context) (int, error)
}

type catalogService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	catalogCache     *memory.CatalogCache
	logger           *log.Logger
}

func NewCatalogService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	catalogCache *memory.CatalogCache,
	logger *log.Logger,
) ICatalogService {
	return &catalogService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		catalogCache:     catalogCache,
		logger:           logger,
	}
}

func (c *catalogService) Create(ctx context.Context, req *dto.ProductCreateRequest) (*dto.ProductDetail, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	product := requestToProduct(req)
	if err := uow.ProductRepository().Create(ctx, product); err != nil {
		return nil, err
	}

	c.catalogCache.Invalidate()
	c.queueEmbedding(ctx, product.ID)

	detail := toProductDetail(*product, "")
	return &detail, nil
}

func (c *catalogService) CreateBulk(ctx context.Context, reqs []dto.ProductCreateRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	products := make([]*store.Product, len(reqs))
	for i := range reqs {
		products[i] = requestToProduct(&reqs[i])
	}
	if err := uow.ProductRepository().CreateBulk(ctx, products); err != nil {
		return 0, err
	}

	c.catalogCache.Invalidate()
	for _, p := range products {
		c.queueEmbedding(ctx, p.ID)
	}
	return len(products), nil
}

func (c *catalogService) Update(ctx context.Context, req *dto.ProductCreateRequest) (*dto.ProductDetail, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ProductRepository().FindById(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("product %s not found", req.Id)
	}

	product := requestToProduct(req)
	if err := uow.ProductRepository().Update(ctx, product); err != nil {
		return nil, err
	}

	c.catalogCache.Invalidate()
	c.queueEmbedding(ctx, product.ID)

	detail := toProductDetail(*product, "")
	return &detail, nil
}

func (c *catalogService) Delete(ctx context.Context, id string) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if err := uow.ProductEmbeddingRepository().DeleteByProductId(ctx, id); err != nil {
		return err
	}
	if err := uow.ProductRepository().Delete(ctx, id); err != nil {
		return err
	}

	c.catalogCache.Invalidate()
	return nil
}

func (c *catalogService) GetById(ctx context.Context, id string) (*dto.ProductDetail, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	detail := toProductDetail(*product, "")
	return &detail, nil
}

func (c *catalogService) List(ctx context.Context, category string, page, pageSize int) (*dto.ProductListResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{specification.ActiveOnly{}}
	if category != "" {
		specs = append(specs, specification.ByCategory{Category: category})
	}

	total, err := uow.ProductRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs, specification.OrderBy{Field: "price"})
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		specs = append(specs, specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize})
	}

	products, err := uow.ProductRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	details := make([]dto.ProductDetail, len(products))
	for i, p := range products {
		details[i] = toProductDetail(*p, "")
	}
	return &dto.ProductListResponse{Products: details, Total: total}, nil
}

// ReindexAll queues every active product for re-embedding. Used after model
// or document-format changes.
func (c *catalogService) ReindexAll(ctx context.Context) (int, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.ProductRepository().FindAll(ctx, specification.ActiveOnly{})
	if err != nil {
		return 0, err
	}

	for _, p := range products {
		c.queueEmbedding(ctx, p.ID)
	}
	return len(products), nil
}

func (c *catalogService) queueEmbedding(ctx context.Context, productId string) {
	payload, err := json.Marshal(dto.PublishEmbedProductMessage{ProductId: productId})
	if err != nil {
		c.logger.Printf("[CATALOG] marshal embed message for %s: %v", productId, err)
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Printf("[CATALOG] queue embedding for %s: %v", productId, err)
	}
}

func requestToProduct(req *dto.ProductCreateRequest) *store.Product {
	return &store.Product{
		ID:            req.Id,
		Name:          req.Name,
		Category:      req.Category,
		ImageURL:      req.ImageUrl,
		Price:         req.Price,
		Metal:         req.Metal,
		Gemstones:     req.Gemstones,
		DesignType:    req.DesignType,
		StyleTags:     req.StyleTags,
		OccasionTags:  req.OccasionTags,
		RecipientTags: req.RecipientTags,
		Description:   req.Description,
	}
}
