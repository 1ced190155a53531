package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	List(ctx context.Context) ([]*model.Product, error)
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, productID string, updates map[string]interface{}) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

// Seed inserts a starter catalog when the products table is empty.
func (r *productRepoImpl) Seed(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []model.Product{
		{Name: "Embroidered Lawn Suit", Price: decimal.NewFromInt(4500), DiscountPercentage: 20},
		{Name: "Cotton Kurta", Price: decimal.NewFromInt(2200), DiscountPercentage: 0},
		{Name: "Chiffon Dupatta", Price: decimal.NewFromInt(1200), DiscountPercentage: 10},
		{Name: "Khussa Pair", Price: decimal.NewFromInt(1800), DiscountPercentage: 15},
		{Name: "Pashmina Shawl", Price: decimal.NewFromInt(6500), DiscountPercentage: 25},
		{Name: "Silk Waistcoat", Price: decimal.NewFromInt(3900), DiscountPercentage: 0},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, productID string, updates map[string]interface{}) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Updates(updates)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", productID).First(&product).Error
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
