package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID                 string          `gorm:"primaryKey;size:36;not null" json:"id"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Price              decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPercentage int             `gorm:"not null;default:0" json:"discount_percentage"` // 0-100
	ImageURL           *string         `gorm:"size:1024" json:"image_url"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// EffectivePrice is the unit price after the product discount, rounded to
// currency precision.
func (p *Product) EffectivePrice() decimal.Decimal {
	pct := p.DiscountPercentage
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return p.Price.
		Mul(decimal.NewFromInt(int64(100 - pct))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

type Order struct {
	ID            string          `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderCode     string          `gorm:"size:64;uniqueIndex;not null" json:"order_id"` // CHR-YYYYMMDD-NNNN
	CustomerName  string          `gorm:"size:255;not null" json:"customer_name"`
	PhoneNumber   string          `gorm:"size:32;not null" json:"phone_number"`
	Address       string          `gorm:"size:512;not null" json:"address"`
	City          string          `gorm:"size:128" json:"city"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"` // sum of items
	OrderType     OrderType       `gorm:"size:16;index;not null" json:"order_type"`
	PaymentMethod PaymentMethod   `gorm:"size:16;not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID string `gorm:"primaryKey;size:36;not null" json:"id"`
	// FK → orders.id
	OrderID string `gorm:"size:36;index;not null" json:"order_id"`
	// FK → products.id, cleared when the product is deleted
	ProductID          *string         `gorm:"size:36;index" json:"product_id"`
	Product            *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
	ProductName        string          `gorm:"size:255;not null" json:"product_name"`
	Quantity           int             `gorm:"not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	DiscountPercentage int             `gorm:"not null;default:0" json:"discount_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// LineTotal is unit price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type SiteSettings struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	TickerText          string    `gorm:"size:512" json:"ticker_text"`
	TickerEnabled       bool      `gorm:"not null" json:"ticker_enabled"`
	AutomationEnabled   bool      `gorm:"column:automation_running;not null" json:"automation_running"`
	AutomationStartHour int       `gorm:"not null" json:"automation_start_hour"`
	AutomationEndHour   int       `gorm:"not null" json:"automation_end_hour"`
	AutomationTimezone  string    `gorm:"size:64;not null" json:"automation_timezone"`
	LogoURL             *string   `gorm:"size:1024" json:"logo_url"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// OrderCodeSequence holds the last issued order-code number per UTC day.
type OrderCodeSequence struct {
	Day       string `gorm:"primaryKey;size:8"` // YYYYMMDD
	LastValue int    `gorm:"not null"`
	UpdatedAt time.Time
}

// All lists every persisted model for migrations.
func All() []any {
	return []any{
		&Product{},
		&Order{},
		&OrderItem{},
		&SiteSettings{},
		&OrderCodeSequence{},
	}
}
