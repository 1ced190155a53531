package model

import (
	"fmt"
	"strings"
	"time"
)

// Payload versions understood by the sheet webhook.
const (
	SyncPayloadV1 = 1
	SyncPayloadV2 = 2
)

// SyncRecordV1 is the row shape the first spreadsheet integration consumed.
type SyncRecordV1 struct {
	Version       int    `json:"version"`
	OrderID       string `json:"order_id"`
	DateTime      string `json:"date_time"`
	CustomerName  string `json:"customer_name"`
	PhoneNumber   string `json:"phone_number"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Products      string `json:"products"`
	TotalAmount   string `json:"total_amount"`
	OrderType     string `json:"order_type"`
	PaymentMethod string `json:"payment_method"`
}

// SyncRecordV2 is the flat record the current sheet expects.
type SyncRecordV2 struct {
	Version       int    `json:"version"`
	OrderID       string `json:"order_id"`
	Name          string `json:"name"`
	Date          string `json:"date"`
	ContactNumber string `json:"contact_number"`
	Type          string `json:"type"`
	Address       string `json:"address"`
	Time          string `json:"time"`
}

// NewSyncRecord renders an order in the requested payload version. Date and
// time are rendered in loc.
func NewSyncRecord(order *Order, version int, loc *time.Location) (any, error) {
	if loc == nil {
		loc = time.UTC
	}
	created := order.CreatedAt.In(loc)

	switch version {
	case SyncPayloadV1:
		products := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			products = append(products, fmt.Sprintf("%s x%d", item.ProductName, item.Quantity))
		}
		return &SyncRecordV1{
			Version:       SyncPayloadV1,
			OrderID:       order.OrderCode,
			DateTime:      created.Format(time.RFC3339),
			CustomerName:  order.CustomerName,
			PhoneNumber:   order.PhoneNumber,
			Address:       order.Address,
			City:          order.City,
			Products:      strings.Join(products, ", "),
			TotalAmount:   order.TotalAmount.StringFixed(2),
			OrderType:     string(order.OrderType),
			PaymentMethod: string(order.PaymentMethod),
		}, nil
	case SyncPayloadV2:
		return &SyncRecordV2{
			Version:       SyncPayloadV2,
			OrderID:       order.OrderCode,
			Name:          order.CustomerName,
			Date:          created.Format("2006-01-02"),
			ContactNumber: order.PhoneNumber,
			Type:          string(order.OrderType),
			Address:       order.Address,
			Time:          created.Format("15:04:05"),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported sync payload version %d", version)
	}
}
