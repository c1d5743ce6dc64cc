package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var DefaultProductPrice = decimal.RequireFromString("99.99")

type Product struct {
	ID          string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	CategoryID  string          `gorm:"size:36;not null;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Title       string          `gorm:"size:255;not null;index"`
	Brand       string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	Slug        string          `gorm:"size:255;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(9,2);not null"`
	Image       string          `gorm:"size:255"`
	Available   bool            `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (p *Product) ImageURL() string {
	if p.Image == "" || strings.HasPrefix(p.Image, "http://") || strings.HasPrefix(p.Image, "https://") {
		return p.Image
	}
	return "/media/" + p.Image
}
