package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

const settingsRowID = 1

type SettingsRepository interface {
	// EnsureDefaults creates the singleton row if it is missing.
	EnsureDefaults(ctx context.Context) error
	// Get returns a snapshot; callers may keep it without further locking.
	Get(ctx context.Context) (model.SiteSettings, error)
	Update(ctx context.Context, updates map[string]interface{}) (model.SiteSettings, error)
}

type settingsRepoImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepoImpl{
		db: db,
	}
}

// DefaultSettings mirrors the store's launch configuration: automation off,
// 11:00 to 23:00 Pakistan time.
func DefaultSettings() model.SiteSettings {
	return model.SiteSettings{
		ID:                  settingsRowID,
		TickerText:          "Cash on delivery available nationwide",
		TickerEnabled:       true,
		AutomationEnabled:   false,
		AutomationStartHour: 11,
		AutomationEndHour:   23,
		AutomationTimezone:  "Asia/Karachi",
	}
}

func (r *settingsRepoImpl) EnsureDefaults(ctx context.Context) error {
	defaults := DefaultSettings()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&defaults).Error
}

func (r *settingsRepoImpl) Get(ctx context.Context) (model.SiteSettings, error) {
	var settings model.SiteSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", settingsRowID).
		First(&settings).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return model.SiteSettings{}, err
	}

	return settings, nil
}

func (r *settingsRepoImpl) Update(ctx context.Context, updates map[string]interface{}) (model.SiteSettings, error) {
	var settings model.SiteSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		defaults := DefaultSettings()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
			return err
		}

		columns := make(map[string]interface{}, len(updates)+1)
		for k, v := range updates {
			columns[k] = v
		}
		columns["updated_at"] = time.Now()
		if err := tx.Model(&model.SiteSettings{}).
			Where("id = ?", settingsRowID).
			Updates(columns).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", settingsRowID).First(&settings).Error
	})

	return settings, err
}
