package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/withholding/internal/tax/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindForOrg(ctx context.Context, orgID snowflake.ID, whType taxdomain.WithholdingType) (*taxdomain.WithholdingTax, error) {
	var def taxdomain.WithholdingTax
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND type = ?", orgID, whType).
		Order("id ASC").
		First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}
