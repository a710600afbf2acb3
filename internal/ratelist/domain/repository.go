package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	FindList(ctx context.Context, id snowflake.ID) (*RateList, error)
	FindVersion(ctx context.Context, id snowflake.ID) (*RateListVersion, error)
	FindVersionAt(ctx context.Context, listID snowflake.ID, asOf time.Time) (*RateListVersion, error)
}
