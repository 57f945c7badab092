package contract

import (
	"context"

	"jewelry-assistant-be/internal/repository/specification"
	"jewelry-assistant-be/pkg/store"
)

type ProductRepository interface {
	Create(ctx context.Context, product *store.Product) error
	CreateBulk(ctx context.Context, products []*store.Product) error
	Update(ctx context.Context, product *store.Product) error
	Delete(ctx context.Context, id string) error
	FindById(ctx context.Context, id string) (*store.Product, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*store.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*store.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
