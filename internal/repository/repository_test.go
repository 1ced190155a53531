package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
	"github.com/abdulrafay1716/shopflow-automation/internal/testutil"
)

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewProductRepository(db)

	t.Run("seed only fills an empty catalog", func(t *testing.T) {
		require.NoError(t, repo.Seed(ctx))
		first, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, first)

		require.NoError(t, repo.Seed(ctx))
		second, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, second, len(first))
	})

	t.Run("create update delete", func(t *testing.T) {
		p := &model.Product{Name: "Lawn Print", Price: decimal.NewFromInt(3000)}
		require.NoError(t, repo.Create(ctx, p))
		require.NotEmpty(t, p.ID)

		updated, err := repo.Update(ctx, p.ID, map[string]interface{}{"discount_percentage": 30})
		require.NoError(t, err)
		assert.Equal(t, 30, updated.DiscountPercentage)

		require.NoError(t, repo.Delete(ctx, p.ID))
		_, err = repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("update unknown product", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("delete unknown product", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), gorm.ErrRecordNotFound)
	})
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	product := testutil.SeedProduct(t, db, "Cotton Kurta", 2200, 0)

	order := &model.Order{
		OrderCode:     "CHR-20260101-0001",
		CustomerName:  "Bilal Raza",
		PhoneNumber:   "0300-1234567",
		Address:       "House 1, Street 2, Saddar, Lahore",
		City:          "Lahore",
		TotalAmount:   decimal.NewFromInt(4400),
		OrderType:     model.OrderTypeAuto,
		PaymentMethod: model.PaymentMethodCOD,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.Create(ctx, tx, order); err != nil {
			return err
		}
		return repo.CreateOrderItems(ctx, tx, []*model.OrderItem{{
			OrderID:     order.ID,
			ProductID:   &product.ID,
			ProductName: product.Name,
			Quantity:    2,
			UnitPrice:   product.Price,
		}})
	})
	require.NoError(t, err)

	t.Run("find preloads items", func(t *testing.T) {
		got, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Cotton Kurta", got.Items[0].ProductName)
		assert.True(t, got.TotalAmount.Equal(got.Items[0].LineTotal()))
	})

	t.Run("duplicate order code is translated", func(t *testing.T) {
		dup := *order
		dup.ID = ""
		err := repo.Create(ctx, db, &dup)
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("deleting a product keeps history", func(t *testing.T) {
		require.NoError(t, NewProductRepository(db).Delete(ctx, product.ID))

		items, err := repo.GetOrderItems(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].ProductID)
		assert.Equal(t, "Cotton Kurta", items[0].ProductName)
	})

	t.Run("list and stats", func(t *testing.T) {
		orders, err := repo.List(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, orders, 1)

		stats, err := repo.StatsSince(ctx, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Orders)
		assert.Equal(t, "4400", stats.Revenue.String())

		empty, err := repo.StatsSince(ctx, time.Now().Add(24*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, empty.Orders)
		assert.True(t, empty.Revenue.IsZero())
	})
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewSettingsRepository(db)

	t.Run("missing row reads defaults", func(t *testing.T) {
		s, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.False(t, s.AutomationEnabled)
		assert.Equal(t, "Asia/Karachi", s.AutomationTimezone)
	})

	t.Run("ensure defaults is idempotent", func(t *testing.T) {
		require.NoError(t, repo.EnsureDefaults(ctx))
		require.NoError(t, repo.EnsureDefaults(ctx))

		var count int64
		require.NoError(t, db.Model(&model.SiteSettings{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		s, err := repo.Update(ctx, map[string]interface{}{"automation_running": true})
		require.NoError(t, err)
		assert.True(t, s.AutomationEnabled)
		assert.Equal(t, 11, s.AutomationStartHour)
		assert.Equal(t, 23, s.AutomationEndHour)

		s, err = repo.Update(ctx, map[string]interface{}{"automation_end_hour": 20})
		require.NoError(t, err)
		assert.True(t, s.AutomationEnabled)
		assert.Equal(t, 20, s.AutomationEndHour)
	})

	t.Run("caller's updates are not modified", func(t *testing.T) {
		updates := map[string]interface{}{"ticker_text": "Eid sale is live"}
		s, err := repo.Update(ctx, updates)
		require.NoError(t, err)
		assert.Equal(t, "Eid sale is live", s.TickerText)
		assert.Equal(t, map[string]interface{}{"ticker_text": "Eid sale is live"}, updates)
		assert.NotContains(t, updates, "updated_at")

		// reusing the same map must not carry a stale timestamp forward
		_, err = repo.Update(ctx, updates)
		require.NoError(t, err)
		assert.Len(t, updates, 1)
	})
}

func TestOrderCodeRepository_NextSequence(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewOrderCodeRepository(db)

	t.Run("increments per day", func(t *testing.T) {
		for want := 1; want <= 3; want++ {
			got, err := repo.NextSequence(ctx, "20260101")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		got, err := repo.NextSequence(ctx, "20260102")
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("concurrent callers get distinct values", func(t *testing.T) {
		var (
			mu   sync.Mutex
			seen = map[int]bool{}
			wg   sync.WaitGroup
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := repo.NextSequence(ctx, "20260103")
				assert.NoError(t, err)
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 10)
	})
}

func TestOrderRepository_CreateWithItems(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	product := testutil.SeedProduct(t, db, "Pashmina Shawl", 6500, 25)

	newOrder := func(code string) *model.Order {
		return &model.Order{
			OrderCode:     code,
			CustomerName:  "Zainab Awan",
			PhoneNumber:   "0301-2345678",
			Address:       "House 40, Street 7, F-10, Islamabad",
			City:          "Islamabad",
			TotalAmount:   decimal.RequireFromString("4875"),
			OrderType:     model.OrderTypeAuto,
			PaymentMethod: model.PaymentMethodCOD,
		}
	}

	t.Run("commits order and items together", func(t *testing.T) {
		order := newOrder("CHR-20260201-0001")
		items := []*model.OrderItem{{
			ProductID:          &product.ID,
			ProductName:        product.Name,
			Quantity:           1,
			UnitPrice:          product.EffectivePrice(),
			DiscountPercentage: product.DiscountPercentage,
		}}
		require.NoError(t, repo.CreateWithItems(ctx, order, items))
		assert.Equal(t, order.ID, items[0].OrderID)

		got, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, got.Items, 1)
	})

	t.Run("failed item insert rolls the order back", func(t *testing.T) {
		missing := "no-such-product"
		order := newOrder("CHR-20260201-0002")
		err := repo.CreateWithItems(ctx, order, []*model.OrderItem{{
			ProductID:   &missing,
			ProductName: "ghost",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(1),
		}})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&model.Order{}).Where("order_code = ?", "CHR-20260201-0002").Count(&count).Error)
		assert.Zero(t, count)
	})
}
