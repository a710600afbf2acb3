package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	ratelistdomain "github.com/smallbiznis/withholding/internal/ratelist/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ratelistdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindList(ctx context.Context, id snowflake.ID) (*ratelistdomain.RateList, error) {
	var list ratelistdomain.RateList
	err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (r *repository) FindVersion(ctx context.Context, id snowflake.ID) (*ratelistdomain.RateListVersion, error) {
	var version ratelistdomain.RateListVersion
	err := r.db.WithContext(ctx).First(&version, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &version, nil
}

func (r *repository) FindVersionAt(ctx context.Context, listID snowflake.ID, asOf time.Time) (*ratelistdomain.RateListVersion, error) {
	var version ratelistdomain.RateListVersion
	err := r.db.WithContext(ctx).
		Where("rate_list_id = ? AND valid_from <= ?", listID, asOf).
		Order("valid_from DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &version, nil
}
