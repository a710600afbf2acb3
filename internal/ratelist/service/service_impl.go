package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	ratelistdomain "github.com/smallbiznis/withholding/internal/ratelist/domain"
)

type resolver struct {
	repo ratelistdomain.Repository
}

func NewResolver(repo ratelistdomain.Repository) ratelistdomain.Resolver {
	return &resolver{repo: repo}
}

// AmountAt returns the rate of the version in effect at asOf, or zero when
// the list has no slice covering that date.
func (r *resolver) AmountAt(ctx context.Context, listID snowflake.ID, asOf time.Time) (decimal.Decimal, error) {
	version, err := r.repo.FindVersionAt(ctx, listID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if version == nil {
		return decimal.Zero, nil
	}
	return version.Amount, nil
}
