package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	paymentreferencedomain "github.com/smallbiznis/withholding/internal/paymentreference/domain"
	posdomain "github.com/smallbiznis/withholding/internal/pos/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
}

type Manager struct {
	log   *zap.Logger
	genID *snowflake.Node
}

func NewManager(p Params) paymentreferencedomain.Manager {
	return &Manager{
		log:   p.Log.Named("paymentreference.manager"),
		genID: p.GenID,
	}
}

// Sync upserts the reference keyed by (order, credit-memo tender, payment
// method) when the computed amount is positive, and deletes it otherwise.
// Only unprocessed references are reused on upsert.
func (m *Manager) Sync(ctx context.Context, tx *gorm.DB, in paymentreferencedomain.SyncInput) error {
	if in.Order == nil {
		return paymentreferencedomain.ErrMissingOrder
	}
	if !in.Amount.IsPositive() {
		return m.Delete(ctx, tx, in.Order.ID)
	}
	if in.Order.POSID == nil {
		return paymentreferencedomain.ErrMissingPOS
	}

	var existing paymentreferencedomain.PaymentReference
	err := tx.WithContext(ctx).
		Where("order_id = ? AND tender_type = ? AND payment_method_id = ? AND processed = ?",
			in.Order.ID, posdomain.TenderTypeCreditMemo, in.PaymentMethodID, false).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	reference := existing
	if reference.ID == 0 {
		reference.ID = m.genID.Generate()
	}
	reference.OrgID = in.Order.OrgID
	reference.OrderID = in.Order.ID
	reference.POSID = *in.Order.POSID
	reference.PartnerID = in.Order.PartnerID
	reference.ConversionTypeID = in.Order.ConversionTypeID
	reference.CurrencyID = in.Order.CurrencyID
	reference.SalesRepID = in.Order.SalesRepID
	reference.PaymentMethodID = in.PaymentMethodID
	reference.TenderType = posdomain.TenderTypeCreditMemo
	reference.Amount = in.Amount
	reference.AmountSource = in.Amount
	reference.Base = in.Base
	reference.Rate = in.Rate
	reference.IsReceipt = true
	reference.IsKeepReferenceAfterProcess = false
	reference.IsAutoCreatedReference = true
	reference.Processed = false
	reference.Description = in.Description
	reference.PayDate = in.Order.DateOrdered

	if err := tx.WithContext(ctx).Save(&reference).Error; err != nil {
		return err
	}

	m.log.Debug("synced payment reference",
		zap.String("order_id", in.Order.ID.String()),
		zap.String("amount", in.Amount.String()),
	)
	return nil
}

// Delete removes the order's credit-memo references regardless of their
// processed flag.
func (m *Manager) Delete(ctx context.Context, tx *gorm.DB, orderID snowflake.ID) error {
	return tx.WithContext(ctx).
		Where("order_id = ? AND tender_type = ?",
			orderID, posdomain.TenderTypeCreditMemo).
		Delete(&paymentreferencedomain.PaymentReference{}).Error
}
