package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetTopLevel(ctx context.Context) ([]models.Category, error)
	GetDescendantIDs(ctx context.Context, id string) ([]string, error)
	LoadAncestors(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetTopLevel(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("parent_id IS NULL").Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetDescendantIDs walks the tree breadth first and returns every category below id, id excluded.
func (r *categoryRepository) GetDescendantIDs(ctx context.Context, id string) ([]string, error) {
	return collectDescendantIDs(r.db.WithContext(ctx), id)
}

func collectDescendantIDs(tx *gorm.DB, id string) ([]string, error) {
	var all []string
	seen := map[string]bool{id: true}
	frontier := []string{id}

	for len(frontier) > 0 {
		var children []string
		if err := tx.Model(&models.Category{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return nil, fmt.Errorf("failed to load child categories: %w", err)
		}

		frontier = frontier[:0]
		for _, child := range children {
			if seen[child] {
				continue
			}
			seen[child] = true
			all = append(all, child)
			frontier = append(frontier, child)
		}
	}
	return all, nil
}

// LoadAncestors fills category.Parent, category.Parent.Parent and so on up to the root.
func (r *categoryRepository) LoadAncestors(ctx context.Context, category *models.Category) error {
	seen := map[string]bool{category.ID: true}
	current := category

	for !current.IsRoot() {
		parentID := *current.ParentID
		if seen[parentID] {
			log.Printf("LoadAncestors: cycle detected at category %s", parentID)
			return fmt.Errorf("category tree has a cycle at %s", parentID)
		}
		seen[parentID] = true

		var parent models.Category
		if err := r.db.WithContext(ctx).First(&parent, "id = ?", parentID).Error; err != nil {
			return fmt.Errorf("failed to load parent category %s: %w", parentID, err)
		}
		current.Parent = &parent
		current = &parent
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":      category.Name,
			"slug":      category.Slug,
			"parent_id": category.ParentID,
		}).Error
}

// Delete removes the category, every category below it, the products filed under any of them and
// the cart lines pointing at those products, in one transaction.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		descendants, err := collectDescendantIDs(tx, id)
		if err != nil {
			return err
		}
		ids := append([]string{id}, descendants...)

		productIDs := tx.Model(&models.Product{}).Select("id").Where("category_id IN ?", ids)
		if err := tx.Where("product_id IN (?)", productIDs).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items of category %s: %w", id, err)
		}
		if err := tx.Where("category_id IN ?", ids).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete products of category %s: %w", id, err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("failed to delete category %s: %w", id, err)
		}
		return nil
	})
}
