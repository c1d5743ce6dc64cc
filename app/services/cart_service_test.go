package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartLifecycle(t *testing.T) {
	f := newFixture()
	_, hammers := seedCatalog(t, f)
	claw := addProduct(t, f, hammers.ID, "Claw", "claw", true)
	sledge := addProduct(t, f, hammers.ID, "Sledge", "sledge", true)

	empty, err := f.cart.GetCart(bg, "c1")
	if err != nil || len(empty.CartItems) != 0 || !empty.GrandTotal.IsZero() {
		t.Fatalf("expected an empty cart, got %+v %v", empty, err)
	}

	if _, err := f.cart.AddItem(bg, "c1", claw.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := f.cart.AddItem(bg, "c1", sledge.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	cart, err := f.cart.AddItem(bg, "c1", claw.ID, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(cart.CartItems) != 2 || cart.TotalQty != 4 {
		t.Fatalf("expected 2 lines and 4 units, got %d lines %d units", len(cart.CartItems), cart.TotalQty)
	}
	if !cart.GrandTotal.Equal(decimal.RequireFromString("79.96")) {
		t.Fatalf("unexpected grand total %s", cart.GrandTotal)
	}

	cart, err = f.cart.UpdateItemQty(bg, "c1", claw.ID, 1)
	if err != nil {
		t.Fatalf("UpdateItemQty: %v", err)
	}
	if !cart.GrandTotal.Equal(decimal.RequireFromString("39.98")) {
		t.Fatalf("unexpected total after update %s", cart.GrandTotal)
	}

	cart, err = f.cart.UpdateItemQty(bg, "c1", claw.ID, 0)
	if err != nil {
		t.Fatalf("UpdateItemQty(0): %v", err)
	}
	if len(cart.CartItems) != 1 || cart.CartItems[0].ProductID != sledge.ID {
		t.Fatalf("zero quantity should drop the line, got %+v", cart.CartItems)
	}

	cart, err = f.cart.RemoveItem(bg, "c1", sledge.ID)
	if err != nil || len(cart.CartItems) != 0 {
		t.Fatalf("RemoveItem: %+v %v", cart, err)
	}
	if n, _ := f.cart.CountItems(bg, "c1"); n != 0 {
		t.Fatalf("expected empty cart count, got %d", n)
	}
}

func TestCartRejectsUnavailableAndBadQuantity(t *testing.T) {
	f := newFixture()
	_, hammers := seedCatalog(t, f)
	hidden := addProduct(t, f, hammers.ID, "Hidden", "hidden", false)
	claw := addProduct(t, f, hammers.ID, "Claw", "claw", true)

	if _, err := f.cart.AddItem(bg, "c1", hidden.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unavailable product, got %v", err)
	}
	if _, err := f.cart.AddItem(bg, "c1", "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing product, got %v", err)
	}
	if _, err := f.cart.AddItem(bg, "c1", claw.ID, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for zero quantity, got %v", err)
	}
	if _, err := f.cart.UpdateItemQty(bg, "c1", claw.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when updating a missing line, got %v", err)
	}
}

func TestDeletingProductEmptiesCartLines(t *testing.T) {
	f := newFixture()
	_, hammers := seedCatalog(t, f)
	claw := addProduct(t, f, hammers.ID, "Claw", "claw", true)
	if _, err := f.cart.AddItem(bg, "c1", claw.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := f.catalog.DeleteProduct(bg, claw.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	cart, _ := f.cart.GetCart(bg, "c1")
	if len(cart.CartItems) != 0 {
		t.Fatalf("cart still references deleted product")
	}
}

func TestClearCart(t *testing.T) {
	f := newFixture()
	_, hammers := seedCatalog(t, f)
	claw := addProduct(t, f, hammers.ID, "Claw", "claw", true)
	if _, err := f.cart.AddItem(bg, "c1", claw.ID, 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := f.cart.ClearCart(bg, "c1"); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}
	if n, _ := f.cart.CountItems(bg, "c1"); n != 0 {
		t.Fatalf("expected no lines after clearing, got %d", n)
	}
	if err := f.cart.ClearCart(bg, ""); err != nil {
		t.Fatalf("clearing without a cart should be a no-op, got %v", err)
	}
}
