package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Evaluator is one regime's validate-then-compute strategy. Validate
// reports applicability and fills diagnostics; Compute runs only on a
// valid evaluation and persists through the supplied transaction.
// Returned errors are infrastructure failures and abort the enclosing
// transaction; unmet preconditions are diagnostics, not errors.
type Evaluator interface {
	Validate(ctx context.Context, tx *gorm.DB, ev *Evaluation) (bool, error)
	Compute(ctx context.Context, tx *gorm.DB, ev *Evaluation) error
}

// Outcome is the result of evaluating one setting against one document.
type Outcome struct {
	SettingID   snowflake.ID   `json:"setting_id"`
	Applicable  bool           `json:"applicable"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
	CreatedIDs  []snowflake.ID `json:"created_ids,omitempty"`
}

type Service interface {
	// EvaluateDocument runs every active matching setting against the
	// saved document inside a single transaction.
	EvaluateDocument(ctx context.Context, event DocumentEvent) ([]Outcome, error)

	// ListByOrder returns the generated records for an order.
	ListByOrder(ctx context.Context, orderID snowflake.ID) ([]Withholding, error)
}
