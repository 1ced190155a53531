package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/abdulrafay1716/shopflow-automation/internal/dto"
	"github.com/abdulrafay1716/shopflow-automation/internal/model"
	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
	"github.com/abdulrafay1716/shopflow-automation/internal/repository"
)

const defaultOrderListLimit = 100

type AdminService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	CreateProduct(ctx context.Context, req dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	ListOrders(ctx context.Context, limit int) ([]*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
	SyncOrder(ctx context.Context, orderID string) error
	TodayStats(ctx context.Context) (*model.OrderStats, error)

	GetSettings(ctx context.Context) (model.SiteSettings, error)
	UpdateSettings(ctx context.Context, req dto.SettingsRequest) (model.SiteSettings, error)
}

type adminServiceImpl struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	notifier     SyncNotifier
	clock        clock.Clock
	log          zerolog.Logger
}

func NewAdminService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	notifier SyncNotifier,
	clk clock.Clock,
	log zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		clock:        clk,
		log:          log.With().Str("component", "admin").Logger(),
	}
}

func (s *adminServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *adminServiceImpl) CreateProduct(ctx context.Context, req dto.ProductRequest) (*model.Product, error) {
	if req.Name == nil || req.Price == nil {
		return nil, fmt.Errorf("%w: name and price are required", ErrInvalidProduct)
	}

	updates, err := productUpdates(req)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:     updates["name"].(string),
		Price:    req.Price.Round(2),
		ImageURL: req.ImageURL,
	}
	if req.DiscountPercentage != nil {
		product.DiscountPercentage = *req.DiscountPercentage
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

func (s *adminServiceImpl) UpdateProduct(ctx context.Context, productID string, req dto.ProductRequest) (*model.Product, error) {
	updates, err := productUpdates(req)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidProduct)
	}

	product, err := s.productRepo.Update(ctx, productID, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (s *adminServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	err := s.productRepo.Delete(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.log.Info().Str("product_id", productID).Msg("product deleted")
	return nil
}

func productUpdates(req dto.ProductRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidProduct)
		}
		updates["name"] = name
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.DiscountPercentage != nil {
		d := *req.DiscountPercentage
		if d < 0 || d > 100 {
			return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidProduct)
		}
		updates["discount_percentage"] = d
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	return updates, nil
}

func (s *adminServiceImpl) ListOrders(ctx context.Context, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = defaultOrderListLimit
	}
	return s.orderRepo.List(ctx, limit)
}

func (s *adminServiceImpl) GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	return s.orderRepo.GetOrderItems(ctx, orderID)
}

func (s *adminServiceImpl) SyncOrder(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}

	return s.notifier.SyncNow(ctx, order)
}

// TodayStats counts orders since midnight UTC.
func (s *adminServiceImpl) TodayStats(ctx context.Context) (*model.OrderStats, error) {
	now := s.clock.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.orderRepo.StatsSince(ctx, midnight)
}

func (s *adminServiceImpl) GetSettings(ctx context.Context) (model.SiteSettings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *adminServiceImpl) UpdateSettings(ctx context.Context, req dto.SettingsRequest) (model.SiteSettings, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return model.SiteSettings{}, fmt.Errorf("read settings: %w", err)
	}

	updates := map[string]interface{}{}
	start, end := current.AutomationStartHour, current.AutomationEndHour

	if req.AutomationStartHour != nil {
		start = *req.AutomationStartHour
		updates["automation_start_hour"] = start
	}
	if req.AutomationEndHour != nil {
		end = *req.AutomationEndHour
		updates["automation_end_hour"] = end
	}
	if start < 0 || start > 23 || end < 0 || end > 23 {
		return model.SiteSettings{}, fmt.Errorf("%w: hours must be between 0 and 23", ErrInvalidSettings)
	}
	if start > end {
		return model.SiteSettings{}, fmt.Errorf("%w: start hour %d is after end hour %d", ErrInvalidSettings, start, end)
	}

	if req.AutomationTimezone != nil {
		if _, err := time.LoadLocation(*req.AutomationTimezone); err != nil || *req.AutomationTimezone == "" {
			return model.SiteSettings{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidSettings, *req.AutomationTimezone)
		}
		updates["automation_timezone"] = *req.AutomationTimezone
	}
	if req.AutomationEnabled != nil {
		updates["automation_running"] = *req.AutomationEnabled
	}
	if req.TickerText != nil {
		updates["ticker_text"] = *req.TickerText
	}
	if req.TickerEnabled != nil {
		updates["ticker_enabled"] = *req.TickerEnabled
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}

	if len(updates) == 0 {
		return current, nil
	}

	settings, err := s.settingsRepo.Update(ctx, updates)
	if err != nil {
		return model.SiteSettings{}, fmt.Errorf("update settings: %w", err)
	}

	s.log.Info().
		Bool("automation_running", settings.AutomationEnabled).
		Int("start", settings.AutomationStartHour).
		Int("end", settings.AutomationEndHour).
		Str("timezone", settings.AutomationTimezone).
		Msg("settings updated")

	return settings, nil
}
