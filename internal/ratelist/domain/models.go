package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RateList is a named reference table of time-sliced rate values. It backs
// municipal activity rates, the IVA withholding rate, and tribute unit
// values alike.
type RateList struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`
	Name  string       `gorm:"type:text;not null"`
}

func (RateList) TableName() string { return "rate_lists" }

// RateListVersion is one time slice of a rate list. A version is in effect
// from ValidFrom until a newer version's ValidFrom.
type RateListVersion struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	RateListID snowflake.ID    `gorm:"column:rate_list_id;not null;index"`
	ValidFrom  time.Time       `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

func (RateListVersion) TableName() string { return "rate_list_versions" }
