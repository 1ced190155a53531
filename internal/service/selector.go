package service

import (
	"github.com/shopspring/decimal"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

const (
	maxItemsPerOrder = 5
	maxItemQuantity  = 3
)

// SelectedItem is one line the selector decided to put in an order.
type SelectedItem struct {
	Product   *model.Product
	Quantity  int
	UnitPrice decimal.Decimal // after discount
}

func (i SelectedItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SelectItems picks 1-5 distinct products in random order with a random
// quantity of 1-3 each, keeping only the lines that still fit under maxTotal.
// A product that overshoots is skipped, not retried with a smaller quantity,
// so the result can be empty.
func SelectItems(rng Rand, products []*model.Product, maxTotal decimal.Decimal) []SelectedItem {
	if len(products) == 0 {
		return nil
	}

	k := 1 + rng.Intn(maxItemsPerOrder)
	if k > len(products) {
		k = len(products)
	}

	shuffled := make([]*model.Product, len(products))
	copy(shuffled, products)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	running := decimal.Zero
	var selected []SelectedItem
	for _, p := range shuffled[:k] {
		item := SelectedItem{
			Product:   p,
			Quantity:  1 + rng.Intn(maxItemQuantity),
			UnitPrice: p.EffectivePrice(),
		}

		next := running.Add(item.LineTotal())
		if next.GreaterThan(maxTotal) {
			continue
		}

		running = next
		selected = append(selected, item)
	}

	return selected
}

// SelectionTotal sums the line totals of a selection.
func SelectionTotal(items []SelectedItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
