package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id            string         `gorm:"type:varchar(64);primaryKey"`
	Name          string         `gorm:"type:varchar(255);not null;index"`
	Category      string         `gorm:"type:varchar(64);not null;index"`
	ImageUrl      string         `gorm:"type:varchar(512)"`
	Price         float64        `gorm:"not null;index"`
	Metal         string         `gorm:"type:varchar(128);index"`
	Gemstones     datatypes.JSON `gorm:"type:jsonb"`
	DesignType    string         `gorm:"type:varchar(128);index"`
	StyleTags     datatypes.JSON `gorm:"type:jsonb"`
	OccasionTags  datatypes.JSON `gorm:"type:jsonb"`
	RecipientTags datatypes.JSON `gorm:"type:jsonb"`
	Description   string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	IsActive      bool           `gorm:"default:true"`
}

func (Product) TableName() string {
	return "products"
}
