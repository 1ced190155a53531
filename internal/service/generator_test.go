package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
	"github.com/abdulrafay1716/shopflow-automation/internal/repository"
	"github.com/abdulrafay1716/shopflow-automation/internal/testutil"
)

type fakeNotifier struct {
	mu       sync.Mutex
	enqueued []*model.Order
	synced   []*model.Order
	syncErr  error
}

func (n *fakeNotifier) Enqueue(order *model.Order) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enqueued = append(n.enqueued, order)
	return true
}

func (n *fakeNotifier) SyncNow(_ context.Context, order *model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.synced = append(n.synced, order)
	return n.syncErr
}

func (n *fakeNotifier) Run(context.Context) {}

var generatorNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type generatorFixture struct {
	db       *gorm.DB
	notifier *fakeNotifier
	clock    *clock.MockClock
}

func newGeneratorFixture(t *testing.T) *generatorFixture {
	return &generatorFixture{
		db:       testutil.NewDB(t),
		notifier: &fakeNotifier{},
		clock:    clock.NewMockClock(generatorNow),
	}
}

func (f *generatorFixture) generator(codes OrderCodeProvider) OrderGenerator {
	if codes == nil {
		codes = NewSequenceCodeProvider(repository.NewOrderCodeRepository(f.db), "CHR")
	}
	return NewOrderGenerator(
		repository.NewProductRepository(f.db),
		repository.NewOrderRepository(f.db),
		repository.NewSettingsRepository(f.db),
		codes,
		f.notifier,
		NewRand(5),
		f.clock,
		GeneratorOptions{OrderPrefix: "CHR"},
		zerolog.Nop(),
	)
}

func (f *generatorFixture) insertOrder(t *testing.T, code string) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.Order{
		OrderCode:     code,
		CustomerName:  "Existing Customer",
		PhoneNumber:   "0300-0000000",
		Address:       "House 1, Street 1, Saddar, Karachi",
		TotalAmount:   decimal.NewFromInt(100),
		OrderType:     model.OrderTypeManual,
		PaymentMethod: model.PaymentMethodCOD,
	}).Error)
}

func TestOrderGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("automation disabled", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, false, 11, 23, "Asia/Karachi")
		testutil.SeedProduct(t, f.db, "Cotton Kurta", 2200, 0)

		_, err := f.generator(nil).Generate(ctx)
		assert.ErrorIs(t, err, ErrAutomationDisabled)
	})

	t.Run("empty catalog", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, true, 11, 23, "Asia/Karachi")

		_, err := f.generator(nil).Generate(ctx)
		assert.ErrorIs(t, err, ErrNoProductsAvailable)
	})

	t.Run("nothing fits the budget", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, true, 11, 23, "Asia/Karachi")
		testutil.SeedProduct(t, f.db, "Bridal Lehnga", 50000, 0)

		_, err := f.generator(nil).Generate(ctx)
		assert.ErrorIs(t, err, ErrNoFittingProducts)

		var count int64
		require.NoError(t, f.db.Model(&model.Order{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("stores an auto order with its items", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, true, 11, 23, "Asia/Karachi")
		testutil.SeedProduct(t, f.db, "Cotton Kurta", 2200, 0)
		testutil.SeedProduct(t, f.db, "Chiffon Dupatta", 1200, 10)
		testutil.SeedProduct(t, f.db, "Khussa Pair", 1800, 15)

		summary, err := f.generator(nil).Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "CHR-20260504-0001", summary.OrderCode)
		assert.NotEmpty(t, summary.CustomerName)

		stored, err := repository.NewOrderRepository(f.db).FindByID(ctx, summary.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderTypeAuto, stored.OrderType)
		assert.Equal(t, model.PaymentMethodCOD, stored.PaymentMethod)
		assert.Regexp(t, phonePattern, stored.PhoneNumber)
		require.Len(t, stored.Items, summary.ItemsCount)

		sum := decimal.Zero
		for _, item := range stored.Items {
			require.NotNil(t, item.ProductID)
			sum = sum.Add(item.LineTotal())
		}
		assert.True(t, stored.TotalAmount.Equal(sum), "total %s != items %s", stored.TotalAmount, sum)
		assert.True(t, summary.TotalAmount.Equal(sum))

		require.Len(t, f.notifier.enqueued, 1)
		assert.Equal(t, summary.OrderCode, f.notifier.enqueued[0].OrderCode)
		assert.Len(t, f.notifier.enqueued[0].Items, summary.ItemsCount)
	})

	t.Run("codes keep counting within a day", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, true, 11, 23, "Asia/Karachi")
		testutil.SeedProduct(t, f.db, "Cotton Kurta", 2200, 0)

		g := f.generator(nil)
		first, err := g.Generate(ctx)
		require.NoError(t, err)
		second, err := g.Generate(ctx)
		require.NoError(t, err)

		assert.Equal(t, "CHR-20260504-0001", first.OrderCode)
		assert.Equal(t, "CHR-20260504-0002", second.OrderCode)
	})

	t.Run("provider failure uses the fallback code", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, true, 11, 23, "Asia/Karachi")
		testutil.SeedProduct(t, f.db, "Cotton Kurta", 2200, 0)

		summary, err := f.generator(failingCodeProvider{}).Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, FallbackOrderCode("CHR", generatorNow), summary.OrderCode)
	})

	t.Run("code collision retries once with the fallback", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, true, 11, 23, "Asia/Karachi")
		testutil.SeedProduct(t, f.db, "Cotton Kurta", 2200, 0)
		f.insertOrder(t, "CHR-20260504-0001")

		summary, err := f.generator(fixedCodeProvider{code: "CHR-20260504-0001"}).Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, FallbackOrderCode("CHR", generatorNow), summary.OrderCode)

		var count int64
		require.NoError(t, f.db.Model(&model.Order{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("second collision is a persistence error", func(t *testing.T) {
		f := newGeneratorFixture(t)
		testutil.SeedSettings(t, f.db, true, 11, 23, "Asia/Karachi")
		testutil.SeedProduct(t, f.db, "Cotton Kurta", 2200, 0)
		f.insertOrder(t, "CHR-20260504-0001")
		f.insertOrder(t, FallbackOrderCode("CHR", generatorNow))

		_, err := f.generator(fixedCodeProvider{code: "CHR-20260504-0001"}).Generate(ctx)
		assert.ErrorIs(t, err, ErrPersistence)

		// nothing half-written
		var items int64
		require.NoError(t, f.db.Model(&model.OrderItem{}).Count(&items).Error)
		assert.Zero(t, items)
		assert.Empty(t, f.notifier.enqueued)
	})
}
