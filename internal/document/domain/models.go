package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DocStatus mirrors the host ledger document status codes.
type DocStatus string

const (
	DocStatusDrafted   DocStatus = "DR"
	DocStatusInProcess DocStatus = "IP"
	DocStatusCompleted DocStatus = "CO"
	DocStatusClosed    DocStatus = "CL"
	DocStatusVoided    DocStatus = "VO"
)

// Kind identifies which host record a save event refers to.
type Kind string

const (
	KindOrder     Kind = "order"
	KindOrderLine Kind = "order_line"
)

// Order is a read-only snapshot of a sales or purchase order owned by the
// host ledger. The engine never mutates it.
type Order struct {
	ID                      snowflake.ID    `gorm:"primaryKey"`
	OrgID                   snowflake.ID    `gorm:"column:org_id;not null;index"`
	PartnerID               snowflake.ID    `gorm:"column:partner_id;not null;index"`
	DocumentTypeID          snowflake.ID    `gorm:"column:document_type_id;not null"`
	DocumentNo              string          `gorm:"type:text;not null"`
	Status                  DocStatus       `gorm:"type:text;not null"`
	CurrencyID              snowflake.ID    `gorm:"column:currency_id;not null"`
	ConversionTypeID        snowflake.ID    `gorm:"column:conversion_type_id"`
	DateOrdered             time.Time       `gorm:"not null"`
	DateAccounting          time.Time       `gorm:"not null"`
	TotalLines              decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	IsSalesTransaction      bool            `gorm:"column:is_sales_transaction;not null"`
	IsWithholdingTaxExempt  bool            `gorm:"column:is_withholding_tax_exempt;not null"`
	Processed               bool            `gorm:"not null"`
	POSID                   *snowflake.ID   `gorm:"column:pos_id;index"`
	SalesRepID              *snowflake.ID   `gorm:"column:sales_rep_id"`
	WithholdingThirdPartyID *snowflake.ID   `gorm:"column:withholding_third_party_id"`
}

func (Order) TableName() string { return "orders" }

// OrderLine is a single order line; evaluated by the POS regime on save.
type OrderLine struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	OrderID       snowflake.ID    `gorm:"column:order_id;not null;index"`
	LineNetAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TaxID         snowflake.ID    `gorm:"column:tax_id;not null"`
}

func (OrderLine) TableName() string { return "order_lines" }

// OrderTax is the per-tax summary row of an order.
type OrderTax struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	OrderID   snowflake.ID    `gorm:"column:order_id;not null;index"`
	TaxID     snowflake.ID    `gorm:"column:tax_id;not null"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

func (OrderTax) TableName() string { return "order_taxes" }

// Tax is the host tax rate record referenced by order tax lines.
type Tax struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	Name                 string       `gorm:"type:text;not null"`
	IsWithholdingApplied bool         `gorm:"column:is_withholding_applied;not null"`
}

func (Tax) TableName() string { return "taxes" }

type DocumentType struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`
}

func (DocumentType) TableName() string { return "document_types" }

type Currency struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	ISOCode      string       `gorm:"column:iso_code;type:text;not null"`
	StdPrecision int32        `gorm:"column:std_precision;not null"`
}

func (Currency) TableName() string { return "currencies" }

// ChangeSet carries the per-field "changed" flags the host ledger reports
// with a save event. Only the fields relevant to withholding are tracked.
type ChangeSet struct {
	LineNetAmount   bool `json:"line_net_amount"`
	Tax             bool `json:"tax"`
	DocumentType    bool `json:"document_type"`
	BusinessPartner bool `json:"business_partner"`
}
