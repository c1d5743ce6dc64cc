package services

import (
	"errors"
	"testing"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
)

func seedCatalog(t *testing.T, f *fixture) (tools, hammers *models.Category) {
	t.Helper()
	var err error
	tools, err = f.catalog.CreateCategory(bg, CategoryInput{Name: "Tools", Slug: "tools"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	hammers, err = f.catalog.CreateCategory(bg, CategoryInput{Name: "Hammers", Slug: "hammers", ParentID: tools.ID})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return tools, hammers
}

func addProduct(t *testing.T, f *fixture, categoryID, title, slug string, available bool) *models.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(bg, ProductInput{
		CategoryID: categoryID, Title: title, Brand: "Acme", Slug: slug, Price: "19.99", Available: available,
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s): %v", title, err)
	}
	return p
}

func TestAvailabilityView(t *testing.T) {
	f := newFixture()
	_, hammers := seedCatalog(t, f)
	addProduct(t, f, hammers.ID, "Claw hammer", "claw-hammer", true)
	hidden := addProduct(t, f, hammers.ID, "Ball hammer", "ball-hammer", false)

	products, err := f.catalog.ListAvailableProducts(bg)
	if err != nil {
		t.Fatalf("ListAvailableProducts: %v", err)
	}
	if len(products) != 1 || products[0].Title != "Claw hammer" {
		t.Fatalf("unexpected available products %+v", products)
	}

	got, err := f.catalog.GetProductBySlug(bg, hidden.Slug)
	if err != nil {
		t.Fatalf("unavailable product must stay reachable by slug: %v", err)
	}
	if got.Available {
		t.Fatalf("expected the unavailable product")
	}
}

func TestListProductsByCategorySlugIsExactCategory(t *testing.T) {
	f := newFixture()
	tools, hammers := seedCatalog(t, f)
	addProduct(t, f, tools.ID, "Toolbox", "toolbox", true)
	addProduct(t, f, hammers.ID, "Sledge", "sledge", true)
	addProduct(t, f, hammers.ID, "Mallet", "mallet", true)

	category, products, err := f.catalog.ListProductsByCategorySlug(bg, "hammers")
	if err != nil {
		t.Fatalf("ListProductsByCategorySlug: %v", err)
	}
	if category.ID != hammers.ID {
		t.Fatalf("wrong category resolved")
	}
	if len(products) != 2 || products[0].Title != "Mallet" || products[1].Title != "Sledge" {
		t.Fatalf("expected hammers ordered by title, got %+v", products)
	}

	if _, _, err := f.catalog.ListProductsByCategorySlug(bg, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetProductBySlug(t *testing.T) {
	f := newFixture()
	_, hammers := seedCatalog(t, f)
	first := addProduct(t, f, hammers.ID, "Hammer A", "hammer", true)
	addProduct(t, f, hammers.ID, "Hammer B", "hammer", true)

	got, err := f.catalog.GetProductBySlug(bg, "hammer")
	if err != nil {
		t.Fatalf("GetProductBySlug: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("expected earliest product for a shared slug")
	}
	if got.Category == nil || got.Category.FullPath() != "Tools -> Hammers" {
		t.Fatalf("expected category path to be loaded, got %+v", got.Category)
	}

	if _, err := f.catalog.GetProductBySlug(bg, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStringifyPath(t *testing.T) {
	f := newFixture()
	tools, hammers := seedCatalog(t, f)
	claw, _ := f.catalog.CreateCategory(bg, CategoryInput{Name: "Claw", ParentID: hammers.ID})

	cases := map[string]string{
		tools.ID:   "Tools",
		hammers.ID: "Tools -> Hammers",
		claw.ID:    "Tools -> Hammers -> Claw",
	}
	for id, want := range cases {
		got, err := f.catalog.StringifyPath(bg, id)
		if err != nil || got != want {
			t.Errorf("StringifyPath(%s) = %q, %v; want %q", id, got, err, want)
		}
	}
}

func TestCategorySlugGeneratedAndUnique(t *testing.T) {
	f := newFixture()
	c, err := f.catalog.CreateCategory(bg, CategoryInput{Name: "Garden Tools"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Slug == "" {
		t.Fatalf("slug not generated")
	}

	if _, err := f.catalog.CreateCategory(bg, CategoryInput{Name: "Other", Slug: c.Slug}); !errors.Is(err, ErrUniquenessViolation) {
		t.Fatalf("expected ErrUniquenessViolation, got %v", err)
	}
}

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	f := newFixture()
	tools, hammers := seedCatalog(t, f)

	if _, err := f.catalog.UpdateCategory(bg, tools.ID, CategoryInput{Name: "Tools", Slug: "tools", ParentID: tools.ID}); !errors.Is(err, ErrValidation) {
		t.Fatalf("self parent: expected ErrValidation, got %v", err)
	}
	if _, err := f.catalog.UpdateCategory(bg, tools.ID, CategoryInput{Name: "Tools", Slug: "tools", ParentID: hammers.ID}); !errors.Is(err, ErrValidation) {
		t.Fatalf("descendant parent: expected ErrValidation, got %v", err)
	}

	moved, err := f.catalog.UpdateCategory(bg, hammers.ID, CategoryInput{Name: "Hammers", Slug: "hammers"})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if !moved.IsRoot() {
		t.Fatalf("expected hammers to become a root")
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	f := newFixture()
	tools, hammers := seedCatalog(t, f)
	garden, _ := f.catalog.CreateCategory(bg, CategoryInput{Name: "Garden", Slug: "garden"})
	addProduct(t, f, tools.ID, "Toolbox", "toolbox", true)
	addProduct(t, f, hammers.ID, "Sledge", "sledge", true)
	keep := addProduct(t, f, garden.ID, "Hose", "hose", true)

	if err := f.catalog.DeleteCategory(bg, tools.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	if _, err := f.catalog.GetCategory(bg, hammers.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("child category survived: %v", err)
	}
	products, _ := f.catalog.ListAllProducts(bg)
	if len(products) != 1 || products[0].ID != keep.ID {
		t.Fatalf("expected only the garden product to remain, got %+v", products)
	}
	if err := f.catalog.DeleteCategory(bg, tools.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestProductValidation(t *testing.T) {
	f := newFixture()
	_, hammers := seedCatalog(t, f)

	cases := []struct {
		name  string
		in    ProductInput
		field string
	}{
		{"negative price", ProductInput{CategoryID: hammers.ID, Title: "X", Brand: "B", Price: "-1"}, "price"},
		{"three decimals", ProductInput{CategoryID: hammers.ID, Title: "X", Brand: "B", Price: "1.999"}, "price"},
		{"too large", ProductInput{CategoryID: hammers.ID, Title: "X", Brand: "B", Price: "10000000"}, "price"},
		{"no category", ProductInput{Title: "X", Brand: "B"}, "category"},
		{"no title", ProductInput{CategoryID: hammers.ID, Brand: "B"}, "title"},
	}
	for _, c := range cases {
		_, err := f.catalog.CreateProduct(bg, c.in)
		var fe FieldErrors
		if !errors.As(err, &fe) || fe[c.field] == "" {
			t.Errorf("%s: expected error on %s, got %v", c.name, c.field, err)
		}
	}

	p, err := f.catalog.CreateProduct(bg, ProductInput{CategoryID: hammers.ID, Title: "Claw Hammer", Brand: "Acme"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if !p.Price.Equal(models.DefaultProductPrice) {
		t.Fatalf("expected default price, got %s", p.Price)
	}
	if p.Slug != "claw-hammer" {
		t.Fatalf("expected slug from title, got %q", p.Slug)
	}
}

func TestSlugMustBeURLSafe(t *testing.T) {
	f := newFixture()
	tools, _ := seedCatalog(t, f)

	if _, err := f.catalog.CreateCategory(bg, CategoryInput{Name: "Power Tools", Slug: "Power Tools/2"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for a slug with spaces and slashes, got %v", err)
	}
	if _, err := f.catalog.UpdateCategory(bg, tools.ID, CategoryInput{Name: "Tools", Slug: "Tools"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for an uppercase slug, got %v", err)
	}
	_, err := f.catalog.CreateProduct(bg, ProductInput{CategoryID: tools.ID, Title: "Saw", Brand: "Acme", Slug: "saw?id=1"})
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) || fieldErrs["slug"] == "" {
		t.Fatalf("expected a slug field error, got %v", err)
	}

	c, err := f.catalog.CreateCategory(bg, CategoryInput{Name: "Power Tools", Slug: "power-tools_2"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, _, err := f.catalog.ListProductsByCategorySlug(bg, c.Slug); err != nil {
		t.Fatalf("category should be reachable by its slug: %v", err)
	}
}
