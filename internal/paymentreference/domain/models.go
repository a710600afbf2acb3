package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	posdomain "github.com/smallbiznis/withholding/internal/pos/domain"
)

// PaymentReference is the derived POS record tracking a pending credit
// adjustment caused by withholding. Exactly one unprocessed reference may
// exist per (order, credit-memo tender, payment method).
type PaymentReference struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	OrderID          snowflake.ID  `gorm:"column:order_id;not null;index"`
	POSID            snowflake.ID  `gorm:"column:pos_id;not null"`
	PartnerID        snowflake.ID  `gorm:"column:partner_id;not null"`
	ConversionTypeID snowflake.ID  `gorm:"column:conversion_type_id"`
	CurrencyID       snowflake.ID  `gorm:"column:currency_id;not null"`
	SalesRepID       *snowflake.ID `gorm:"column:sales_rep_id"`
	PaymentMethodID  snowflake.ID  `gorm:"column:payment_method_id;not null"`

	TenderType   posdomain.TenderType `gorm:"column:tender_type;type:text;not null"`
	Amount       decimal.Decimal      `gorm:"type:decimal(20,4);not null"`
	AmountSource decimal.Decimal      `gorm:"column:amount_source;type:decimal(20,4);not null"`
	Base         decimal.Decimal      `gorm:"type:decimal(20,4);not null"`
	Rate         decimal.Decimal      `gorm:"type:decimal(20,4);not null"`

	IsReceipt                   bool `gorm:"column:is_receipt;not null"`
	IsKeepReferenceAfterProcess bool `gorm:"column:is_keep_reference_after_process;not null"`
	IsAutoCreatedReference      bool `gorm:"column:is_auto_created_reference;not null"`
	Processed                   bool `gorm:"not null"`

	Description string    `gorm:"type:text"`
	PayDate     time.Time `gorm:"not null"`
}

func (PaymentReference) TableName() string { return "payment_references" }
