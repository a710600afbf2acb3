package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Resolver answers "what rate applies as of this date". A zero amount means
// no version is in effect; callers treat zero as "no withholding". Pinned
// version reads go through the Repository instead because callers there need
// to tell a missing version apart from a zero amount.
type Resolver interface {
	AmountAt(ctx context.Context, listID snowflake.ID, asOf time.Time) (decimal.Decimal, error)
}
