package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*BusinessPartner, error)
	FindOrgInfo(ctx context.Context, orgID snowflake.ID) (*OrgInfo, error)
}
