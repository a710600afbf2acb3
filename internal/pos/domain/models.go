package domain

import "github.com/bwmarrin/snowflake"

// TenderType mirrors the host payment tender codes.
type TenderType string

const (
	TenderTypeCreditMemo    TenderType = "M"
	TenderTypeCash          TenderType = "X"
	TenderTypeDirectDeposit TenderType = "A"
)

type PointOfSale struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`
	Name  string       `gorm:"type:text;not null"`
}

func (PointOfSale) TableName() string { return "pos_terminals" }

type PaymentMethod struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null"`
	Description string       `gorm:"type:text"`
	TenderType  TenderType   `gorm:"column:tender_type;type:text;not null"`

	// WithholdingTypeID binds the method to a withholding setting type; only
	// methods bound to the evaluating setting qualify as reference targets.
	WithholdingTypeID *snowflake.ID `gorm:"column:withholding_type_id"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

// PaymentMethodAllocation assigns a payment method to a POS terminal.
type PaymentMethodAllocation struct {
	ID                 snowflake.ID `gorm:"primaryKey"`
	POSID              snowflake.ID `gorm:"column:pos_id;not null;index"`
	PaymentMethodID    snowflake.ID `gorm:"column:payment_method_id;not null"`
	Name               string       `gorm:"type:text"`
	IsPaymentReference bool         `gorm:"column:is_payment_reference;not null"`
	IsActive           bool         `gorm:"column:is_active;not null"`
}

func (PaymentMethodAllocation) TableName() string { return "payment_method_allocations" }
