package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	FindPaymentMethod(ctx context.Context, id snowflake.ID) (*PaymentMethod, error)

	// FindDefaultAllocation resolves the POS terminal's payment-reference
	// allocation whose method uses the credit-memo tender and is bound to
	// the given withholding type.
	FindDefaultAllocation(ctx context.Context, posID, withholdingTypeID snowflake.ID) (*PaymentMethodAllocation, error)
}
