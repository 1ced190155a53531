package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

// NewDB opens an isolated in-memory sqlite database with every model migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// SeedProduct inserts a product with the given price and discount.
func SeedProduct(t *testing.T, db *gorm.DB, name string, price int64, discount int) *model.Product {
	t.Helper()

	p := &model.Product{
		Name:               name,
		Price:              decimal.NewFromInt(price),
		DiscountPercentage: discount,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedSettings writes the singleton settings row.
func SeedSettings(t *testing.T, db *gorm.DB, enabled bool, start, end int, tz string) *model.SiteSettings {
	t.Helper()

	s := &model.SiteSettings{
		ID:                  1,
		TickerText:          "Free delivery on all orders",
		TickerEnabled:       true,
		AutomationEnabled:   enabled,
		AutomationStartHour: start,
		AutomationEndHour:   end,
		AutomationTimezone:  tz,
	}
	require.NoError(t, db.Save(s).Error)
	return s
}
