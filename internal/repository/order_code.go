package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

type OrderCodeRepository interface {
	// NextSequence atomically increments and returns the counter for day (YYYYMMDD).
	NextSequence(ctx context.Context, day string) (int, error)
}

type orderCodeRepoImpl struct {
	db *gorm.DB
}

func NewOrderCodeRepository(db *gorm.DB) OrderCodeRepository {
	return &orderCodeRepoImpl{
		db: db,
	}
}

func (r *orderCodeRepoImpl) NextSequence(ctx context.Context, day string) (int, error) {
	var seq model.OrderCodeSequence
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_value": gorm.Expr("order_code_sequences.last_value + 1"),
				"updated_at": time.Now(),
			}),
		}).Create(&model.OrderCodeSequence{
			Day:       day,
			LastValue: 1,
		}).Error
		if err != nil {
			return err
		}

		return tx.Where("day = ?", day).First(&seq).Error
	})
	if err != nil {
		return 0, err
	}

	return seq.LastValue, nil
}
