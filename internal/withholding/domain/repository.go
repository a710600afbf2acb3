package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListActiveSettings(ctx context.Context, orgID snowflake.ID) ([]Setting, error)

	// Exists reports whether a qualifying record already blocks
	// re-generation: processed, simulated, completed or closed, for the
	// same (document, definition, setting) triple.
	Exists(ctx context.Context, orderID, definitionID, settingID snowflake.ID) (bool, error)

	// Save persists a generated record on the caller's transaction.
	Save(ctx context.Context, tx *gorm.DB, record *Withholding) error

	ListByOrder(ctx context.Context, orderID snowflake.ID) ([]Withholding, error)
}
