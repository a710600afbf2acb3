package domain

import "github.com/bwmarrin/snowflake"

// BusinessPartner is a read-only snapshot of the host business partner.
// The adapter layer maps the host's generic attribute keys onto these
// typed fields; the engine only sees the result.
type BusinessPartner struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`

	IsTaxpayer             bool `gorm:"column:is_taxpayer;not null"`
	IsMunicipalTaxExempt   bool `gorm:"column:is_municipal_tax_exempt;not null"`
	IsWithholdingTaxExempt bool `gorm:"column:is_withholding_tax_exempt;not null"`

	// BusinessActivityID points at the rate list describing the partner's
	// municipal activity; MunicipalRateID pins a specific rate version.
	BusinessActivityID *snowflake.ID `gorm:"column:business_activity_id"`
	MunicipalRateID    *snowflake.ID `gorm:"column:municipal_rate_id"`

	// WithholdingRateID overrides the regime definition's default rate list.
	WithholdingRateID *snowflake.ID `gorm:"column:withholding_rate_id"`
}

func (BusinessPartner) TableName() string { return "business_partners" }

// OrgInfo carries the organization settings the engine needs: the partner
// that stands in for the organization itself on sales transactions.
type OrgInfo struct {
	OrgID                snowflake.ID  `gorm:"column:org_id;primaryKey"`
	WithholdingPartnerID *snowflake.ID `gorm:"column:withholding_partner_id"`
}

func (OrgInfo) TableName() string { return "org_infos" }
