package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"gorm.io/gorm"
)

type CartItemRepository struct {
	DB *gorm.DB
}

type CartItemRepositoryImpl interface {
	Add(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, cartID string, productID string) error
	GetCartAndProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error)
}

func NewCartItemRepository(db *gorm.DB) CartItemRepositoryImpl {
	return &CartItemRepository{db}
}

func (r *CartItemRepository) Add(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Omit("Product").Create(item).Error
}

func (r *CartItemRepository) Update(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Omit("Product").Save(item).Error
}

func (r *CartItemRepository) Delete(ctx context.Context, cartID string, productID string) error {
	return r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

func (r *CartItemRepository) GetCartAndProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
