package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	partnerdomain "github.com/smallbiznis/withholding/internal/partner/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) partnerdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*partnerdomain.BusinessPartner, error) {
	var bp partnerdomain.BusinessPartner
	err := r.db.WithContext(ctx).First(&bp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bp, nil
}

func (r *repository) FindOrgInfo(ctx context.Context, orgID snowflake.ID) (*partnerdomain.OrgInfo, error) {
	var info partnerdomain.OrgInfo
	err := r.db.WithContext(ctx).First(&info, "org_id = ?", orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}
