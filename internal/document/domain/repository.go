package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the read-only accessor over host ledger documents.
type Repository interface {
	FindOrder(ctx context.Context, id snowflake.ID) (*Order, error)
	FindOrderLine(ctx context.Context, id snowflake.ID) (*OrderLine, error)
	FindDocumentType(ctx context.Context, id snowflake.ID) (*DocumentType, error)
	FindCurrency(ctx context.Context, id snowflake.ID) (*Currency, error)
	FindTax(ctx context.Context, id snowflake.ID) (*Tax, error)
	ListOrderTaxes(ctx context.Context, orderID snowflake.ID) ([]OrderTax, error)
}
