package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/repositories"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/slugify"
	"github.com/shopspring/decimal"
)

var maxProductPrice = decimal.New(1, 7)

type CatalogService struct {
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCatalogService(categoryRepo repositories.CategoryRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *CatalogService) ListAvailableProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetAvailable(ctx)
}

func (s *CatalogService) ListProductsByCategorySlug(ctx context.Context, slug string) (*models.Category, []models.Product, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get category %q: %w", slug, err)
	}
	if category == nil {
		return nil, nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}

	products, err := s.productRepo.GetAvailableByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products of category %q: %w", slug, err)
	}
	return category, products, nil
}

// GetProductBySlug ignores the availability flag; a hidden product stays reachable by its URL.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %q: %w", slug, err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %q: %w", slug, ErrNotFound)
	}
	if product.Category != nil {
		if err := s.categoryRepo.LoadAncestors(ctx, product.Category); err != nil {
			return nil, err
		}
	}
	return product, nil
}

func (s *CatalogService) ListTopLevelCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetTopLevel(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err := s.categoryRepo.LoadAncestors(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// StringifyPath returns "Root -> ... -> category" for the category with the given id.
func (s *CatalogService) StringifyPath(ctx context.Context, id string) (string, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return "", err
	}
	return category.FullPath(), nil
}

// ListCategoriesWithPaths returns every category with its ancestor chain loaded.
func (s *CatalogService) ListCategoriesWithPaths(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for i := range categories {
		if categories[i].ParentID != nil {
			categories[i].Parent = byID[*categories[i].ParentID]
		}
	}
	return categories, nil
}

const invalidSlugMessage = "Enter a valid slug consisting of lowercase letters, numbers, underscores or hyphens."

type CategoryInput struct {
	Name     string
	Slug     string
	ParentID string
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, FieldErrors{"name": "Name is required."}
	}

	category := &models.Category{
		Name: name,
		Slug: strings.TrimSpace(in.Slug),
	}
	if category.Slug != "" && !slugify.Valid(category.Slug) {
		return nil, FieldErrors{"slug": invalidSlugMessage}
	}
	if in.ParentID != "" {
		parent, err := s.categoryRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, FieldErrors{"parent": "Parent category does not exist."}
		}
		category.ParentID = &parent.ID
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, fmt.Errorf("category slug %q: %w", category.Slug, ErrUniquenessViolation)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory refuses a parent that is the category itself or sits below it.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, FieldErrors{"name": "Name is required."}
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return nil, FieldErrors{"slug": "Slug is required."}
	}
	if !slugify.Valid(slug) {
		return nil, FieldErrors{"slug": invalidSlugMessage}
	}

	category.ParentID = nil
	if in.ParentID != "" {
		if in.ParentID == category.ID {
			return nil, FieldErrors{"parent": "A category cannot be its own parent."}
		}
		descendants, err := s.categoryRepo.GetDescendantIDs(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			if d == in.ParentID {
				return nil, FieldErrors{"parent": "A category cannot be moved below one of its descendants."}
			}
		}
		parent, err := s.categoryRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, FieldErrors{"parent": "Parent category does not exist."}
		}
		category.ParentID = &parent.ID
	}

	category.Name = name
	category.Slug = slug
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, fmt.Errorf("category slug %q: %w", slug, ErrUniquenessViolation)
		}
		return nil, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return s.categoryRepo.Delete(ctx, id)
}

type ProductInput struct {
	CategoryID  string
	Title       string
	Brand       string
	Description string
	Slug        string
	Price       string
	Image       string
	Available   bool
}

func (s *CatalogService) buildProduct(ctx context.Context, product *models.Product, in ProductInput) error {
	errs := FieldErrors{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs["title"] = "Title is required."
	}
	brand := strings.TrimSpace(in.Brand)
	if brand == "" {
		errs["brand"] = "Brand is required."
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = slugify.Make(title)
	}
	switch {
	case slug == "":
		errs["slug"] = "Slug is required."
	case !slugify.Valid(slug):
		errs["slug"] = invalidSlugMessage
	}

	price := models.DefaultProductPrice
	if strings.TrimSpace(in.Price) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(in.Price))
		switch {
		case err != nil:
			errs["price"] = "Price must be a number."
		case parsed.IsNegative():
			errs["price"] = "Price cannot be negative."
		case parsed.Exponent() < -2:
			errs["price"] = "Price allows at most 2 decimal places."
		case parsed.GreaterThanOrEqual(maxProductPrice):
			errs["price"] = "Price is too large."
		default:
			price = parsed
		}
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		errs["category"] = "Category is required."
	}

	if len(errs) > 0 {
		return errs
	}

	product.CategoryID = category.ID
	product.Category = nil
	product.Title = title
	product.Brand = brand
	product.Description = strings.TrimSpace(in.Description)
	product.Slug = slug
	product.Price = price.Round(2)
	product.Available = in.Available
	if in.Image != "" {
		product.Image = in.Image
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{}
	if err := s.buildProduct(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err := s.buildProduct(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return product, nil
}

func (s *CatalogService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetAll(ctx)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
