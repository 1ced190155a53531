package model

import "github.com/shopspring/decimal"

type OrderType string

const (
	OrderTypeManual OrderType = "MANUAL"
	OrderTypeAuto   OrderType = "AUTO"
)

type PaymentMethod string

// PaymentMethodCOD is the only payment method the store accepts.
const PaymentMethodCOD PaymentMethod = "COD"

// OrderSummary is what a successful generation reports back.
type OrderSummary struct {
	ID           string          `json:"id"`
	OrderCode    string          `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	ItemsCount   int             `json:"items_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// OrderStats aggregates the orders placed since a cut-off.
type OrderStats struct {
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
