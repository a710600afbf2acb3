package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	withholdingdomain "github.com/smallbiznis/withholding/internal/withholding/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) withholdingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListActiveSettings(ctx context.Context, orgID snowflake.ID) ([]withholdingdomain.Setting, error) {
	var settings []withholdingdomain.Setting
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND is_active = ?", orgID, true).
		Order("id ASC").
		Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repository) Exists(ctx context.Context, orderID, definitionID, settingID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&withholdingdomain.Withholding{}).
		Where("source_order_id = ? AND definition_id = ? AND setting_id = ? AND processed = ? AND is_simulation = ? AND status IN ?",
			orderID,
			definitionID,
			settingID,
			true,
			true,
			[]withholdingdomain.Status{withholdingdomain.StatusCompleted, withholdingdomain.StatusClosed},
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, record *withholdingdomain.Withholding) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *repository) ListByOrder(ctx context.Context, orderID snowflake.ID) ([]withholdingdomain.Withholding, error) {
	var records []withholdingdomain.Withholding
	err := r.db.WithContext(ctx).
		Where("source_order_id = ?", orderID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
