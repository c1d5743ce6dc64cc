package calc

import (
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/shopspring/decimal"
)

func LineTotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

func GrandTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func TotalQty(items []models.CartItem) int {
	qty := 0
	for _, item := range items {
		qty += item.Qty
	}
	return qty
}
