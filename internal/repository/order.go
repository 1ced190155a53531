package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	// CreateWithItems commits the order and its items atomically.
	CreateWithItems(ctx context.Context, order *model.Order, items []*model.OrderItem) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, limit int) ([]*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
	StatsSince(ctx context.Context, since time.Time) (*model.OrderStats, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *orderRepoImpl) CreateWithItems(ctx context.Context, order *model.Order, items []*model.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := r.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}

		return nil
	})
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// StatsSince sums in Go so the result stays exact on drivers that return
// decimals as floats.
func (r *orderRepoImpl) StatsSince(ctx context.Context, since time.Time) (*model.OrderStats, error) {
	var totals []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("created_at >= ?", since).
		Pluck("total_amount", &totals).Error

	if err != nil {
		return nil, err
	}

	stats := &model.OrderStats{Orders: int64(len(totals)), Revenue: decimal.Zero}
	for _, t := range totals {
		stats.Revenue = stats.Revenue.Add(t)
	}

	return stats, nil
}
