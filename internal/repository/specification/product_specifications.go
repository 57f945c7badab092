package specification

import "gorm.io/gorm"

// ByCategory filters products by exact category (case-insensitive).
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(category) = LOWER(?)", s.Category)
}

// ByMetalLike filters products whose metal contains the given term.
type ByMetalLike struct {
	Metal string
}

func (s ByMetalLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("metal ILIKE ?", "%"+s.Metal+"%")
}

// ByMaxPrice filters products at or below the price ceiling.
type ByMaxPrice struct {
	MaxPrice float64
}

func (s ByMaxPrice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price <= ?", s.MaxPrice)
}

// ActiveOnly keeps only purchasable catalog entries.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
