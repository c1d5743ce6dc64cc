package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartRepositoryImpl interface {
	GetCartWithItems(ctx context.Context, cartID string) (*models.Cart, error)
	GetOrCreateCart(ctx context.Context, cartID string) (*models.Cart, error)
	AssignUser(ctx context.Context, cartID, userID string) error
	UpdateCartSummary(ctx context.Context, cartID string) error
	GetCartItemCount(ctx context.Context, cartID string) (int, error)
	DeleteCart(ctx context.Context, cartID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepositoryImpl {
	return &cartRepository{db}
}

func (r *cartRepository) GetCartWithItems(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("CartItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("CartItems.Product").
		Where("id = ?", cartID).
		Take(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreateCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).FirstOrCreate(&cart, models.Cart{ID: cartID}).Error; err != nil {
		return nil, fmt.Errorf("failed to get or create cart %s: %w", cartID, err)
	}
	return &cart, nil
}

func (r *cartRepository) AssignUser(ctx context.Context, cartID, userID string) error {
	return r.db.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cartID).Update("user_id", userID).Error
}

func (r *cartRepository) UpdateCartSummary(ctx context.Context, cartID string) error {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return err
	}

	grandTotal := decimal.Zero
	for _, item := range items {
		grandTotal = grandTotal.Add(item.Subtotal)
	}

	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("grand_total", grandTotal).Error
}

func (r *cartRepository) GetCartItemCount(ctx context.Context, cartID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Count(&count).Error

	return int(count), err
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", cartID).Delete(&models.Cart{}).Error
	})
}
