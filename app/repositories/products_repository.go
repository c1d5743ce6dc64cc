package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	GetAvailable(ctx context.Context) ([]models.Product, error)
	GetAvailableByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) available(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).Model(&models.Product{}).Where("available = ?", true)
}

func (p *productRepository) GetAvailable(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.available(ctx).Order("title ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetAvailableByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := p.available(ctx).
		Where("category_id = ?", categoryID).
		Order("title ASC").
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Order("title ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetBySlug returns the earliest inserted product carrying slug. Slugs are not unique on products.
func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		Order("created_at ASC").
		Order("id ASC").
		Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit("Category").Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit("Category").Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items of product %s: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete product %s: %w", id, err)
		}
		return nil
	})
}
