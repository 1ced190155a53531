package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProductRequest is used for create and partial update; nil fields are left
// untouched on update.
type ProductRequest struct {
	Name               *string          `json:"name"`
	Price              *decimal.Decimal `json:"price"`
	DiscountPercentage *int             `json:"discount_percentage"`
	ImageURL           *string          `json:"image_url"`
}

type SettingsRequest struct {
	TickerText          *string `json:"ticker_text"`
	TickerEnabled       *bool   `json:"ticker_enabled"`
	AutomationEnabled   *bool   `json:"automation_running"`
	AutomationStartHour *int    `json:"automation_start_hour"`
	AutomationEndHour   *int    `json:"automation_end_hour"`
	AutomationTimezone  *string `json:"automation_timezone"`
	LogoURL             *string `json:"logo_url"`
}

// PublicSettings is the storefront view of the settings row.
type PublicSettings struct {
	TickerText    string  `json:"ticker_text"`
	TickerEnabled bool    `json:"ticker_enabled"`
	LogoURL       *string `json:"logo_url"`
}

type GenerateResponse struct {
	Success bool                `json:"success"`
	Order   *model.OrderSummary `json:"order,omitempty"`
	Error   string              `json:"error,omitempty"`
}
