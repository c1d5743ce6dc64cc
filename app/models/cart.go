package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID         string  `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID     *string `gorm:"size:36;index"`
	CartItems  []CartItem
	GrandTotal decimal.Decimal `gorm:"type:decimal(16,2);"`
	TotalQty   int             `gorm:"-"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
