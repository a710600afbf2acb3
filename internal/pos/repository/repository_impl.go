package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	posdomain "github.com/smallbiznis/withholding/internal/pos/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) posdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindPaymentMethod(ctx context.Context, id snowflake.ID) (*posdomain.PaymentMethod, error) {
	var method posdomain.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *repository) FindDefaultAllocation(ctx context.Context, posID, withholdingTypeID snowflake.ID) (*posdomain.PaymentMethodAllocation, error) {
	var allocation posdomain.PaymentMethodAllocation
	err := r.db.WithContext(ctx).Raw(
		`SELECT a.id, a.pos_id, a.payment_method_id, a.name, a.is_payment_reference, a.is_active
		 FROM payment_method_allocations a
		 WHERE a.pos_id = ?
		 AND a.is_payment_reference = ?
		 AND a.is_active = ?
		 AND EXISTS (
			SELECT 1 FROM payment_methods pm
			WHERE pm.id = a.payment_method_id
			AND pm.tender_type = ?
			AND pm.withholding_type_id = ?
		 )
		 ORDER BY a.id ASC
		 LIMIT 1`,
		posID,
		true,
		true,
		posdomain.TenderTypeCreditMemo,
		withholdingTypeID,
	).Scan(&allocation).Error
	if err != nil {
		return nil, err
	}
	if allocation.ID == 0 {
		return nil, nil
	}
	return &allocation, nil
}
