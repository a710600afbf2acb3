package domain

import "github.com/bwmarrin/snowflake"

// WithholdingType identifies a withholding regime. The codes are stored
// in settings rows; do not rename them once deployed.
type WithholdingType string

const (
	// Municipal activity tax on completed orders.
	WithholdingTypeMunicipal WithholdingType = "municipal"
	// Value-added-tax withholding on point-of-sale orders.
	WithholdingTypeIVA WithholdingType = "iva"
)

// WithholdingTax is the per-org, per-regime withholding definition.
type WithholdingTax struct {
	ID    snowflake.ID    `gorm:"primaryKey"`
	OrgID snowflake.ID    `gorm:"column:org_id;not null;index"`
	Type  WithholdingType `gorm:"type:text;not null"`
	Name  string          `gorm:"type:text;not null"`

	IsClientExcluded bool `gorm:"column:is_client_excluded;not null"`

	// DefaultRateListID is the fallback rate list when the business partner
	// has no specific rate configured.
	DefaultRateListID *snowflake.ID `gorm:"column:default_rate_list_id"`

	// TributeUnitListID points at the rate list carrying the
	// government-indexed tribute unit value over time.
	TributeUnitListID *snowflake.ID `gorm:"column:tribute_unit_list_id"`
}

func (WithholdingTax) TableName() string { return "withholding_taxes" }
