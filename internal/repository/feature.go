package repository

import (
	"context"
	"errors"

	"flagfeed/internal/model"

	"gorm.io/gorm"
)

// FeatureInterface defines read access to the feature flag master data.
type FeatureInterface interface {
	GetByFlagID(ctx context.Context, flagID string) (*model.FeatureFlag, error)
	GetAll(ctx context.Context) ([]*model.FeatureFlag, error)
	PingContext(ctx context.Context) error
}

// FeatureFlagRepository implementation of FeatureInterface for MySQL
type FeatureFlagRepository struct {
	db *gorm.DB
}

func NewFeatureFlagRepository(db *gorm.DB) *FeatureFlagRepository {
	return &FeatureFlagRepository{db: db}
}

// GetByFlagID retrieves one flag by its stable identifier.
func (r *FeatureFlagRepository) GetByFlagID(ctx context.Context, flagID string) (*model.FeatureFlag, error) {
	var flag model.FeatureFlag
	if err := r.db.WithContext(ctx).Where("flag_id = ?", flagID).First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flag, nil
}

func (r *FeatureFlagRepository) GetAll(ctx context.Context) ([]*model.FeatureFlag, error) {
	var flags []*model.FeatureFlag
	err := r.db.WithContext(ctx).Order("flag_id").Find(&flags).Error
	return flags, err
}

func (r *FeatureFlagRepository) PingContext(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
