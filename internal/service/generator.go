package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
	"github.com/abdulrafay1716/shopflow-automation/internal/repository"
)

// DefaultMaxOrderTotal is the budget cap of one synthetic order.
var DefaultMaxOrderTotal = decimal.NewFromInt(30000)

type OrderGenerator interface {
	Generate(ctx context.Context) (*model.OrderSummary, error)
}

type GeneratorOptions struct {
	MaxOrderTotal decimal.Decimal
	OrderPrefix   string
}

type orderGeneratorImpl struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	codes        OrderCodeProvider
	notifier     SyncNotifier
	rng          Rand
	clock        clock.Clock
	opts         GeneratorOptions
	log          zerolog.Logger
}

func NewOrderGenerator(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	codes OrderCodeProvider,
	notifier SyncNotifier,
	rng Rand,
	clk clock.Clock,
	opts GeneratorOptions,
	log zerolog.Logger,
) OrderGenerator {
	if opts.MaxOrderTotal.IsZero() {
		opts.MaxOrderTotal = DefaultMaxOrderTotal
	}
	if opts.OrderPrefix == "" {
		opts.OrderPrefix = "CHR"
	}

	return &orderGeneratorImpl{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		codes:        codes,
		notifier:     notifier,
		rng:          rng,
		clock:        clk,
		opts:         opts,
		log:          log.With().Str("component", "order_generator").Logger(),
	}
}

func (g *orderGeneratorImpl) Generate(ctx context.Context) (*model.OrderSummary, error) {
	settings, err := g.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read settings: %v", ErrUpstreamUnavailable, err)
	}
	if !settings.AutomationEnabled {
		return nil, ErrAutomationDisabled
	}

	products, err := g.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", ErrUpstreamUnavailable, err)
	}
	if len(products) == 0 {
		return nil, ErrNoProductsAvailable
	}

	selected := SelectItems(g.rng, products, g.opts.MaxOrderTotal)
	if len(selected) == 0 {
		return nil, ErrNoFittingProducts
	}

	customer := NewCustomer(g.rng)
	now := g.clock.Now().UTC()

	order := &model.Order{
		OrderCode:     nextOrderCode(ctx, g.codes, g.opts.OrderPrefix, now, g.log),
		CustomerName:  customer.Name,
		PhoneNumber:   customer.Phone,
		Address:       customer.Address,
		City:          customer.City,
		TotalAmount:   SelectionTotal(selected),
		OrderType:     model.OrderTypeAuto,
		PaymentMethod: model.PaymentMethodCOD,
		CreatedAt:     now,
	}

	items := make([]*model.OrderItem, len(selected))
	for i, sel := range selected {
		productID := sel.Product.ID
		items[i] = &model.OrderItem{
			ProductID:          &productID,
			ProductName:        sel.Product.Name,
			Quantity:           sel.Quantity,
			UnitPrice:          sel.UnitPrice,
			DiscountPercentage: sel.Product.DiscountPercentage,
			CreatedAt:          now,
		}
	}

	err = g.orderRepo.CreateWithItems(ctx, order, items)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		collided := order.OrderCode
		order.OrderCode = FallbackOrderCode(g.opts.OrderPrefix, now)
		g.log.Warn().Str("order_code", collided).Str("retry_code", order.OrderCode).Msg("order code collision, retrying once")
		err = g.orderRepo.CreateWithItems(ctx, order, items)
	}
	if err != nil {
		g.log.Error().Err(err).Str("order_code", order.OrderCode).Msg("store generated order")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	order.Items = make([]model.OrderItem, len(items))
	for i, item := range items {
		order.Items[i] = *item
	}
	g.notifier.Enqueue(order)

	g.log.Info().
		Str("order_code", order.OrderCode).
		Str("customer", order.CustomerName).
		Int("items", len(items)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("generated order")

	return &model.OrderSummary{
		ID:           order.ID,
		OrderCode:    order.OrderCode,
		CustomerName: order.CustomerName,
		ItemsCount:   len(items),
		TotalAmount:  order.TotalAmount,
	}, nil
}
