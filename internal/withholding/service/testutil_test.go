package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/withholding/internal/clock"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	documentrepo "github.com/smallbiznis/withholding/internal/document/repository"
	partnerdomain "github.com/smallbiznis/withholding/internal/partner/domain"
	partnerrepo "github.com/smallbiznis/withholding/internal/partner/repository"
	referencedomain "github.com/smallbiznis/withholding/internal/paymentreference/domain"
	referenceservice "github.com/smallbiznis/withholding/internal/paymentreference/service"
	posdomain "github.com/smallbiznis/withholding/internal/pos/domain"
	posrepo "github.com/smallbiznis/withholding/internal/pos/repository"
	ratelistdomain "github.com/smallbiznis/withholding/internal/ratelist/domain"
	ratelistrepo "github.com/smallbiznis/withholding/internal/ratelist/repository"
	ratelistservice "github.com/smallbiznis/withholding/internal/ratelist/service"
	taxdomain "github.com/smallbiznis/withholding/internal/tax/domain"
	taxrepo "github.com/smallbiznis/withholding/internal/tax/repository"
	withholdingdomain "github.com/smallbiznis/withholding/internal/withholding/domain"
	withholdingrepo "github.com/smallbiznis/withholding/internal/withholding/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type engineFixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	clk     *clock.FakeClock
	records withholdingdomain.Repository
	svc     withholdingdomain.Service
}

func setupEngineTest(t *testing.T) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&documentdomain.Order{},
		&documentdomain.OrderLine{},
		&documentdomain.OrderTax{},
		&documentdomain.Tax{},
		&documentdomain.DocumentType{},
		&documentdomain.Currency{},
		&partnerdomain.BusinessPartner{},
		&partnerdomain.OrgInfo{},
		&ratelistdomain.RateList{},
		&ratelistdomain.RateListVersion{},
		&taxdomain.WithholdingTax{},
		&posdomain.PointOfSale{},
		&posdomain.PaymentMethod{},
		&posdomain.PaymentMethodAllocation{},
		&referencedomain.PaymentReference{},
		&withholdingdomain.Setting{},
		&withholdingdomain.Withholding{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	documents := documentrepo.NewRepository(db)
	partners := partnerrepo.NewRepository(db)
	taxes := taxrepo.NewRepository(db)
	rateLists := ratelistrepo.NewRepository(db)
	resolver := ratelistservice.NewResolver(rateLists)
	posRepo := posrepo.NewRepository(db)
	records := withholdingrepo.NewRepository(db)
	refs := referenceservice.NewManager(referenceservice.Params{Log: log, GenID: node})

	municipal := NewMunicipalEvaluator(documents, partners, taxes, rateLists, records, node, clk, log)
	posVAT := NewPOSVATEvaluator(documents, partners, taxes, resolver, posRepo, records, refs, node, clk, log)
	svc := NewService(db, documents, records, municipal, posVAT, log)

	return &engineFixture{
		db:      db,
		node:    node,
		clk:     clk,
		records: records,
		svc:     svc,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// municipalWorld is a fully configured municipal scenario: an active
// setting, a completed purchase order, a partner with an activity and a
// pinned rate version.
type municipalWorld struct {
	orgID        snowflake.ID
	settingID    snowflake.ID
	definitionID snowflake.ID
	orderID      snowflake.ID
	partnerID    snowflake.ID
	activityID   snowflake.ID
	rateID       snowflake.ID
}

type municipalOpts struct {
	totalLines    decimal.Decimal
	rate          decimal.Decimal
	orderStatus   documentdomain.DocStatus
	partnerExempt bool
	salesOrder    bool
}

func seedMunicipalWorld(t *testing.T, f *engineFixture, opts municipalOpts) municipalWorld {
	t.Helper()

	if opts.orderStatus == "" {
		opts.orderStatus = documentdomain.DocStatusCompleted
	}
	if opts.totalLines.IsZero() {
		opts.totalLines = dec("1000")
	}

	w := municipalWorld{
		orgID:        f.node.Generate(),
		settingID:    f.node.Generate(),
		definitionID: f.node.Generate(),
		orderID:      f.node.Generate(),
		partnerID:    f.node.Generate(),
		activityID:   f.node.Generate(),
		rateID:       f.node.Generate(),
	}

	currencyID := f.node.Generate()
	docTypeID := f.node.Generate()
	typeID := f.node.Generate()

	require.NoError(t, f.db.Create(&documentdomain.Currency{
		ID: currencyID, ISOCode: "VES", StdPrecision: 2,
	}).Error)
	require.NoError(t, f.db.Create(&documentdomain.DocumentType{
		ID: docTypeID, Name: "POS Order",
	}).Error)
	require.NoError(t, f.db.Create(&ratelistdomain.RateList{
		ID: w.activityID, OrgID: w.orgID, Name: "Comercio al por menor",
	}).Error)
	require.NoError(t, f.db.Create(&ratelistdomain.RateListVersion{
		ID:         w.rateID,
		RateListID: w.activityID,
		ValidFrom:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:     opts.rate,
	}).Error)
	require.NoError(t, f.db.Create(&taxdomain.WithholdingTax{
		ID: w.definitionID, OrgID: w.orgID, Type: taxdomain.WithholdingTypeMunicipal, Name: "Retencion Municipal",
	}).Error)
	require.NoError(t, f.db.Create(&partnerdomain.BusinessPartner{
		ID:                   w.partnerID,
		Name:                 "Proveedor C.A.",
		IsMunicipalTaxExempt: opts.partnerExempt,
		BusinessActivityID:   &w.activityID,
		MunicipalRateID:      &w.rateID,
	}).Error)
	require.NoError(t, f.db.Create(&withholdingdomain.Setting{
		ID:                w.settingID,
		OrgID:             w.orgID,
		WithholdingTypeID: typeID,
		Regime:            taxdomain.WithholdingTypeMunicipal,
		EventTrigger:      withholdingdomain.TriggerAfterChange,
		IsActive:          true,
	}).Error)
	require.NoError(t, f.db.Create(&documentdomain.Order{
		ID:                 w.orderID,
		OrgID:              w.orgID,
		PartnerID:          w.partnerID,
		DocumentTypeID:     docTypeID,
		DocumentNo:         "PO-1001",
		Status:             opts.orderStatus,
		CurrencyID:         currencyID,
		DateOrdered:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateAccounting:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalLines:         opts.totalLines,
		IsSalesTransaction: opts.salesOrder,
	}).Error)

	return w
}

// posWorld is a fully configured POS VAT scenario: an active setting, a
// draft POS order with withholding-applied tax lines, a taxpayer partner
// and a terminal allocation for the credit-memo method.
type posWorld struct {
	orgID         snowflake.ID
	settingID     snowflake.ID
	definitionID  snowflake.ID
	typeID        snowflake.ID
	orderID       snowflake.ID
	partnerID     snowflake.ID
	posID         snowflake.ID
	methodID      snowflake.ID
	defaultListID snowflake.ID
	partnerListID snowflake.ID
	lineIDs       []snowflake.ID
	orderLineID   snowflake.ID
}

type posOpts struct {
	taxAmounts    []string
	defaultRate   string
	partnerRate   string // empty: partner has no override
	notTaxpayer   bool
	partnerExempt bool
	orderExempt   bool
	salesOrder    bool
	noTerminal    bool
	tributeUnit   string                         // empty: defaults to "1000"
	eventTrigger  withholdingdomain.EventTrigger // empty: defaults to after_new
}

func seedPOSWorld(t *testing.T, f *engineFixture, opts posOpts) posWorld {
	t.Helper()

	if opts.tributeUnit == "" {
		opts.tributeUnit = "1000"
	}
	if opts.eventTrigger == "" {
		opts.eventTrigger = withholdingdomain.TriggerAfterNew
	}

	w := posWorld{
		orgID:         f.node.Generate(),
		settingID:     f.node.Generate(),
		definitionID:  f.node.Generate(),
		typeID:        f.node.Generate(),
		orderID:       f.node.Generate(),
		partnerID:     f.node.Generate(),
		posID:         f.node.Generate(),
		methodID:      f.node.Generate(),
		defaultListID: f.node.Generate(),
		partnerListID: f.node.Generate(),
	}

	currencyID := f.node.Generate()
	docTypeID := f.node.Generate()
	tributeListID := f.node.Generate()
	validFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.db.Create(&documentdomain.Currency{
		ID: currencyID, ISOCode: "VES", StdPrecision: 2,
	}).Error)
	require.NoError(t, f.db.Create(&documentdomain.DocumentType{
		ID: docTypeID, Name: "POS Order",
	}).Error)

	require.NoError(t, f.db.Create(&ratelistdomain.RateList{
		ID: w.defaultListID, OrgID: w.orgID, Name: "IVA Withholding Default",
	}).Error)
	require.NoError(t, f.db.Create(&ratelistdomain.RateListVersion{
		ID: f.node.Generate(), RateListID: w.defaultListID, ValidFrom: validFrom, Amount: dec(opts.defaultRate),
	}).Error)

	var partnerListRef *snowflake.ID
	if opts.partnerRate != "" {
		require.NoError(t, f.db.Create(&ratelistdomain.RateList{
			ID: w.partnerListID, OrgID: w.orgID, Name: "IVA Withholding Special",
		}).Error)
		require.NoError(t, f.db.Create(&ratelistdomain.RateListVersion{
			ID: f.node.Generate(), RateListID: w.partnerListID, ValidFrom: validFrom, Amount: dec(opts.partnerRate),
		}).Error)
		partnerListRef = &w.partnerListID
	}

	require.NoError(t, f.db.Create(&ratelistdomain.RateList{
		ID: tributeListID, OrgID: w.orgID, Name: "Unidad Tributaria",
	}).Error)
	require.NoError(t, f.db.Create(&ratelistdomain.RateListVersion{
		ID: f.node.Generate(), RateListID: tributeListID, ValidFrom: validFrom, Amount: dec(opts.tributeUnit),
	}).Error)

	require.NoError(t, f.db.Create(&taxdomain.WithholdingTax{
		ID:                w.definitionID,
		OrgID:             w.orgID,
		Type:              taxdomain.WithholdingTypeIVA,
		Name:              "Retencion IVA",
		DefaultRateListID: &w.defaultListID,
		TributeUnitListID: &tributeListID,
	}).Error)

	require.NoError(t, f.db.Create(&partnerdomain.BusinessPartner{
		ID:                     w.partnerID,
		Name:                   "Cliente C.A.",
		IsTaxpayer:             !opts.notTaxpayer,
		IsWithholdingTaxExempt: opts.partnerExempt,
		WithholdingRateID:      partnerListRef,
	}).Error)

	require.NoError(t, f.db.Create(&posdomain.PointOfSale{
		ID: w.posID, OrgID: w.orgID, Name: "Caja 1",
	}).Error)
	require.NoError(t, f.db.Create(&posdomain.PaymentMethod{
		ID:                w.methodID,
		Name:              "Retencion IVA",
		Description:       "Comprobante retencion IVA",
		TenderType:        posdomain.TenderTypeCreditMemo,
		WithholdingTypeID: &w.typeID,
	}).Error)
	if !opts.noTerminal {
		require.NoError(t, f.db.Create(&posdomain.PaymentMethodAllocation{
			ID:                 f.node.Generate(),
			POSID:              w.posID,
			PaymentMethodID:    w.methodID,
			Name:               "Retencion IVA",
			IsPaymentReference: true,
			IsActive:           true,
		}).Error)
	}

	require.NoError(t, f.db.Create(&withholdingdomain.Setting{
		ID:                w.settingID,
		OrgID:             w.orgID,
		WithholdingTypeID: w.typeID,
		Regime:            taxdomain.WithholdingTypeIVA,
		EventTrigger:      opts.eventTrigger,
		IsActive:          true,
	}).Error)

	require.NoError(t, f.db.Create(&documentdomain.Order{
		ID:                     w.orderID,
		OrgID:                  w.orgID,
		PartnerID:              w.partnerID,
		DocumentTypeID:         docTypeID,
		DocumentNo:             "POS-2001",
		Status:                 documentdomain.DocStatusDrafted,
		CurrencyID:             currencyID,
		DateOrdered:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateAccounting:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalLines:             dec("500"),
		IsSalesTransaction:     opts.salesOrder,
		IsWithholdingTaxExempt: opts.orderExempt,
		POSID:                  &w.posID,
	}).Error)

	firstTaxID := snowflake.ID(0)
	for _, amount := range opts.taxAmounts {
		taxID := f.node.Generate()
		if firstTaxID == 0 {
			firstTaxID = taxID
		}
		require.NoError(t, f.db.Create(&documentdomain.Tax{
			ID: taxID, Name: "IVA 16%", IsWithholdingApplied: true,
		}).Error)
		lineID := f.node.Generate()
		require.NoError(t, f.db.Create(&documentdomain.OrderTax{
			ID: lineID, OrderID: w.orderID, TaxID: taxID, TaxAmount: dec(amount),
		}).Error)
		w.lineIDs = append(w.lineIDs, lineID)
	}

	w.orderLineID = f.node.Generate()
	require.NoError(t, f.db.Create(&documentdomain.OrderLine{
		ID:            w.orderLineID,
		OrderID:       w.orderID,
		LineNetAmount: dec("500"),
		TaxID:         firstTaxID,
	}).Error)

	return w
}

func listWithholdings(t *testing.T, f *engineFixture, orderID snowflake.ID) []withholdingdomain.Withholding {
	t.Helper()
	var records []withholdingdomain.Withholding
	require.NoError(t, f.db.Where("source_order_id = ?", orderID).Order("id ASC").Find(&records).Error)
	return records
}

func listReferences(t *testing.T, f *engineFixture, orderID snowflake.ID) []referencedomain.PaymentReference {
	t.Helper()
	var refs []referencedomain.PaymentReference
	require.NoError(t, f.db.Where("order_id = ?", orderID).Find(&refs).Error)
	return refs
}
