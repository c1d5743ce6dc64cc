package models

import "testing"

func TestCategoryFullPath(t *testing.T) {
	tools := &Category{Name: "Tools"}
	hammers := &Category{Name: "Hammers", Parent: tools}
	claw := &Category{Name: "Claw", Parent: hammers}

	if got := hammers.FullPath(); got != "Tools -> Hammers" {
		t.Fatalf("expected %q, got %q", "Tools -> Hammers", got)
	}

	names := claw.PathNames()
	if len(names) != 3 {
		t.Fatalf("expected depth+1 = 3 names, got %d (%v)", len(names), names)
	}
	if names[0] != "Tools" || names[2] != "Claw" {
		t.Fatalf("names not ordered root to leaf: %v", names)
	}
}

func TestCategoryRootPath(t *testing.T) {
	root := &Category{Name: "Tools"}
	if root.FullPath() != "Tools" {
		t.Fatalf("unexpected root path %q", root.FullPath())
	}
	if !root.IsRoot() {
		t.Fatalf("category without parent should be a root")
	}
}

func TestCategoryBeforeCreateFillsSlug(t *testing.T) {
	c := &Category{Name: "Garden"}
	if err := c.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if c.ID == "" || c.Slug == "" {
		t.Fatalf("expected id and slug to be generated, got %+v", c)
	}

	explicit := &Category{Name: "Garden", Slug: "garden"}
	_ = explicit.BeforeCreate(nil)
	if explicit.Slug != "garden" {
		t.Fatalf("explicit slug overwritten: %q", explicit.Slug)
	}
}
