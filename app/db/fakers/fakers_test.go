package fakers

import (
	"testing"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
)

func TestCategoryFakerLinksChildren(t *testing.T) {
	roots, children := CategoryFaker()
	if len(roots) != len(CategoryTree) {
		t.Fatalf("expected %d roots, got %d", len(CategoryTree), len(roots))
	}
	for _, c := range children {
		if c.Parent == nil {
			t.Fatalf("child %s has no parent", c.Name)
		}
		if c.Slug == "" {
			t.Fatalf("child %s has no slug", c.Name)
		}
	}
}

func TestProductFakerProducesValidProduct(t *testing.T) {
	p := ProductFaker(&models.Category{ID: "cat-1"})
	if p.CategoryID != "cat-1" || p.Title == "" || p.Slug == "" {
		t.Fatalf("incomplete product: %+v", p)
	}
	if p.Price.IsNegative() || p.Price.Exponent() < -2 {
		t.Fatalf("bad price %s", p.Price)
	}
}

func TestUserFakerCanLogIn(t *testing.T) {
	u := UserFaker()
	if !u.IsActive || !helpers.PasswordCompare(u.Password, []byte(DemoPassword)) {
		t.Fatalf("demo user unusable: %+v", u)
	}
}
