package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	"gorm.io/gorm"
)

// SyncInput carries the computed withholding totals for one order.
type SyncInput struct {
	Order           *documentdomain.Order
	PaymentMethodID snowflake.ID
	Amount          decimal.Decimal
	Base            decimal.Decimal
	Rate            decimal.Decimal
	Description     string
}

// Manager keeps the derived payment reference in step with the computed
// withholding: a positive amount upserts the keyed reference, anything else
// deletes it. Delete takes only the order because the validation pipeline
// cleans stale references before it has resolved a payment method. Both
// operations run on the caller's transaction so the reference commits (or
// rolls back) together with the withholding records.
type Manager interface {
	Sync(ctx context.Context, tx *gorm.DB, in SyncInput) error
	Delete(ctx context.Context, tx *gorm.DB, orderID snowflake.ID) error
}
