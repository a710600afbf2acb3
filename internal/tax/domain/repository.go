package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// FindForOrg returns the regime definition configured for the
	// organization, or nil when the regime is not set up.
	FindForOrg(ctx context.Context, orgID snowflake.ID, whType WithholdingType) (*WithholdingTax, error)
}
