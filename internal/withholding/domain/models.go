package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/withholding/internal/tax/domain"
)

// Status of a generated withholding record in the host ledger.
type Status string

const (
	StatusDrafted   Status = "DR"
	StatusCompleted Status = "CO"
	StatusClosed    Status = "CL"
	StatusVoided    Status = "VO"
)

// EventTrigger names the host save event a setting reacts to.
type EventTrigger string

const (
	TriggerAfterNew    EventTrigger = "after_new"
	TriggerAfterChange EventTrigger = "after_change"
)

// Setting binds a withholding regime to an organization and to the host
// save event that drives it. One evaluation runs per matching setting.
type Setting struct {
	ID                snowflake.ID             `gorm:"primaryKey"`
	OrgID             snowflake.ID             `gorm:"column:org_id;not null;index"`
	WithholdingTypeID snowflake.ID             `gorm:"column:withholding_type_id;not null"`
	Regime            taxdomain.WithholdingType `gorm:"column:regime;type:text;not null"`
	EventTrigger      EventTrigger             `gorm:"column:event_trigger;type:text"`
	IsActive          bool                     `gorm:"column:is_active;not null"`
}

func (Setting) TableName() string { return "withholding_settings" }

// Withholding is the generated record: one per evaluation for the
// municipal regime, one per qualifying tax line for the POS regime.
type Withholding struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	SettingID     snowflake.ID `gorm:"column:setting_id;not null;index"`
	DefinitionID  snowflake.ID `gorm:"column:definition_id;not null;index"`
	SourceOrderID snowflake.ID `gorm:"column:source_order_id;not null;index"`

	Rate              decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	BaseAmount        decimal.Decimal `gorm:"column:base_amount;type:decimal(20,4);not null"`
	WithholdingAmount decimal.Decimal `gorm:"column:withholding_amount;type:decimal(20,4);not null"`

	Description  string `gorm:"type:text"`
	IsManual     bool   `gorm:"column:is_manual;not null"`
	IsSimulation bool   `gorm:"column:is_simulation;not null"`
	Processed    bool   `gorm:"not null"`
	Status       Status `gorm:"type:text;not null"`

	TaxID        *snowflake.ID `gorm:"column:tax_id"`
	ThirdPartyID *snowflake.ID `gorm:"column:third_party_id"`

	CreatedAt time.Time `gorm:"not null"`
}

func (Withholding) TableName() string { return "withholdings" }
