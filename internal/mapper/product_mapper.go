package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"jewelry-assistant-be/internal/model"
	"jewelry-assistant-be/pkg/store"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(p *model.Product) *store.Product {
	if p == nil {
		return nil
	}

	return &store.Product{
		ID:            p.Id,
		Name:          p.Name,
		Category:      p.Category,
		ImageURL:      p.ImageUrl,
		Price:         p.Price,
		Metal:         p.Metal,
		Gemstones:     fromJSONArray(p.Gemstones),
		DesignType:    p.DesignType,
		StyleTags:     fromJSONArray(p.StyleTags),
		OccasionTags:  fromJSONArray(p.OccasionTags),
		RecipientTags: fromJSONArray(p.RecipientTags),
		Description:   p.Description,
	}
}

func (m *ProductMapper) ToModel(p *store.Product) *model.Product {
	if p == nil {
		return nil
	}

	return &model.Product{
		Id:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		ImageUrl:      p.ImageURL,
		Price:         p.Price,
		Metal:         p.Metal,
		Gemstones:     toJSONArray(p.Gemstones),
		DesignType:    p.DesignType,
		StyleTags:     toJSONArray(p.StyleTags),
		OccasionTags:  toJSONArray(p.OccasionTags),
		RecipientTags: toJSONArray(p.RecipientTags),
		Description:   p.Description,
		IsActive:      true,
	}
}

func (m *ProductMapper) ToEntities(products []*model.Product) []*store.Product {
	entities := make([]*store.Product, len(products))
	for i, p := range products {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ProductMapper) ToModels(products []*store.Product) []*model.Product {
	models := make([]*model.Product, len(products))
	for i, p := range products {
		models[i] = m.ToModel(p)
	}
	return models
}

func toJSONArray(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}

func fromJSONArray(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
