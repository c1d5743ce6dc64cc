package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/repositories"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/calc"
	"github.com/shopspring/decimal"
)

const maxLineQty = 99

type CartService struct {
	cartRepo     repositories.CartRepositoryImpl
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartService(cartRepo repositories.CartRepositoryImpl, cartItemRepo repositories.CartItemRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// GetCart returns the stored cart or an empty, unsaved one.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID == "" {
		return &models.Cart{GrandTotal: decimal.Zero}, nil
	}
	cart, err := s.cartRepo.GetCartWithItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart %s: %w", cartID, err)
	}
	if cart == nil {
		return &models.Cart{ID: cartID, GrandTotal: decimal.Zero}, nil
	}
	cart.GrandTotal = calc.GrandTotal(cart.CartItems)
	cart.TotalQty = calc.TotalQty(cart.CartItems)
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, cartID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 || qty > maxLineQty {
		return nil, FieldErrors{"qty": fmt.Sprintf("Quantity must be between 1 and %d.", maxLineQty)}
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if product == nil || !product.Available {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	if _, err := s.cartRepo.GetOrCreateCart(ctx, cartID); err != nil {
		return nil, err
	}

	item, err := s.cartItemRepo.GetCartAndProduct(ctx, cartID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}

	if item != nil {
		item.Qty += qty
		if item.Qty > maxLineQty {
			item.Qty = maxLineQty
		}
		item.Price = product.Price
		item.Subtotal = calc.LineTotal(item.Price, item.Qty)
		if err := s.cartItemRepo.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		item = &models.CartItem{
			CartID:    cartID,
			ProductID: product.ID,
			Qty:       qty,
			Price:     product.Price,
			Subtotal:  calc.LineTotal(product.Price, qty),
		}
		if err := s.cartItemRepo.Add(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add new cart item: %w", err)
		}
	}

	if err := s.cartRepo.UpdateCartSummary(ctx, cartID); err != nil {
		log.Printf("AddItem: failed to update summary of cart %s: %v", cartID, err)
	}
	return s.GetCart(ctx, cartID)
}

// UpdateItemQty sets the quantity of a line; zero or less removes it.
func (s *CartService) UpdateItemQty(ctx context.Context, cartID, productID string, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}
	if qty > maxLineQty {
		return nil, FieldErrors{"qty": fmt.Sprintf("Quantity must be between 1 and %d.", maxLineQty)}
	}

	item, err := s.cartItemRepo.GetCartAndProduct(ctx, cartID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
	}

	item.Qty = qty
	item.Subtotal = calc.LineTotal(item.Price, qty)
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	if err := s.cartRepo.UpdateCartSummary(ctx, cartID); err != nil {
		log.Printf("UpdateItemQty: failed to update summary of cart %s: %v", cartID, err)
	}
	return s.GetCart(ctx, cartID)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*models.Cart, error) {
	if err := s.cartItemRepo.Delete(ctx, cartID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove item from cart: %w", err)
	}
	if err := s.cartRepo.UpdateCartSummary(ctx, cartID); err != nil {
		log.Printf("RemoveItem: failed to update summary of cart %s: %v", cartID, err)
	}
	return s.GetCart(ctx, cartID)
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	if cartID == "" {
		return nil
	}
	if err := s.cartRepo.DeleteCart(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}

func (s *CartService) CountItems(ctx context.Context, cartID string) (int, error) {
	if cartID == "" {
		return 0, nil
	}
	return s.cartRepo.GetCartItemCount(ctx, cartID)
}

// ClaimCart binds an anonymous cart to the user who just logged in.
func (s *CartService) ClaimCart(ctx context.Context, cartID, userID string) error {
	if cartID == "" {
		return nil
	}
	return s.cartRepo.AssignUser(ctx, cartID, userID)
}
