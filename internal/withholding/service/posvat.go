package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/withholding/internal/clock"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	partnerdomain "github.com/smallbiznis/withholding/internal/partner/domain"
	referencedomain "github.com/smallbiznis/withholding/internal/paymentreference/domain"
	posdomain "github.com/smallbiznis/withholding/internal/pos/domain"
	ratelistdomain "github.com/smallbiznis/withholding/internal/ratelist/domain"
	taxdomain "github.com/smallbiznis/withholding/internal/tax/domain"
	withholdingdomain "github.com/smallbiznis/withholding/internal/withholding/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// POSVATEvaluator implements the point-of-sale VAT withholding regime:
// per-tax-line records on order and order-line saves, plus a derived
// payment reference kept convergent with the computed total.
type POSVATEvaluator struct {
	documents documentdomain.Repository
	partners  partnerdomain.Repository
	taxes     taxdomain.Repository
	rates     ratelistdomain.Resolver
	pos       posdomain.Repository
	records   withholdingdomain.Repository
	refs      referencedomain.Manager

	genID *snowflake.Node
	clk   clock.Clock
	log   *zap.Logger
}

func NewPOSVATEvaluator(
	documents documentdomain.Repository,
	partners partnerdomain.Repository,
	taxes taxdomain.Repository,
	rates ratelistdomain.Resolver,
	pos posdomain.Repository,
	records withholdingdomain.Repository,
	refs referencedomain.Manager,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) *POSVATEvaluator {
	return &POSVATEvaluator{
		documents: documents,
		partners:  partners,
		taxes:     taxes,
		rates:     rates,
		pos:       pos,
		records:   records,
		refs:      refs,
		genID:     genID,
		clk:       clk,
		log:       log.Named("withholding.pos_vat"),
	}
}

// Validate gates the POS regime. The early exits are silent (the save
// simply does not concern this regime); a non-taxpayer, an exemption flag
// or an unresolvable rate additionally deletes any reference left from an
// earlier save, so the derived state converges instead of going stale. The
// remaining configuration checks accumulate diagnostics and keep running,
// giving the caller the full list of problems in one pass.
func (e *POSVATEvaluator) Validate(ctx context.Context, tx *gorm.DB, ev *withholdingdomain.Evaluation) (bool, error) {
	order, ok, err := e.resolveOrder(ctx, ev)
	if err != nil || !ok {
		return false, err
	}
	ev.Order = order
	ev.SourceOrderID = order.ID
	ev.OrgID = order.OrgID

	if order.POSID == nil {
		return false, nil
	}
	if order.Processed {
		return false, nil
	}

	orderPartner, err := e.partners.FindByID(ctx, order.PartnerID)
	if err != nil {
		return false, err
	}
	if orderPartner == nil {
		ev.AddDiagnostic("business partner not found")
		return false, nil
	}
	// The taxpayer gate reads the order's own partner, before any sales
	// override swaps in the organization.
	if !orderPartner.IsTaxpayer {
		return false, e.deleteReference(ctx, tx, ev)
	}

	partner, isManual, err := salesOverride(ctx, e.partners, order, orderPartner)
	if err != nil {
		return false, err
	}
	ev.Partner = partner
	ev.IsManual = isManual
	if partner == nil {
		ev.AddDiagnostic("business partner not found")
		return false, nil
	}

	valid := true

	definition, err := e.taxes.FindForOrg(ctx, order.OrgID, taxdomain.WithholdingTypeIVA)
	if err != nil {
		return false, err
	}
	if definition == nil {
		ev.AddDiagnostic("withholding tax definition not found")
		valid = false
	} else {
		ev.Definition = definition
		if definition.IsClientExcluded {
			ev.AddDiagnostic("client excluded from withholding: " + definition.Name)
			valid = false
		}
	}

	if order.IsWithholdingTaxExempt || partner.IsWithholdingTaxExempt {
		return false, e.deleteReference(ctx, tx, ev)
	}

	if definition != nil {
		rate, err := e.resolveRate(ctx, partner, definition, order)
		if err != nil {
			return false, err
		}
		if rate.IsZero() {
			return false, e.deleteReference(ctx, tx, ev)
		}
		ev.Rate = rate

		if definition.TributeUnitListID == nil {
			ev.AddDiagnostic("tribute unit value not found")
			valid = false
		} else {
			tributeUnit, err := e.rates.AmountAt(ctx, *definition.TributeUnitListID, order.DateAccounting)
			if err != nil {
				return false, err
			}
			if tributeUnit.IsZero() {
				ev.AddDiagnostic("tribute unit value not found")
				valid = false
			}
		}
	}

	docType, err := e.documents.FindDocumentType(ctx, order.DocumentTypeID)
	if err != nil {
		return false, err
	}
	if docType == nil {
		ev.AddDiagnostic("document type not found")
		valid = false
	}

	currency, err := e.documents.FindCurrency(ctx, order.CurrencyID)
	if err != nil {
		return false, err
	}
	if currency != nil {
		ev.Precision = currency.StdPrecision
	}

	taxLines, err := e.qualifyingTaxLines(ctx, order.ID)
	if err != nil {
		return false, err
	}
	ev.TaxLines = taxLines

	allocation, err := e.pos.FindDefaultAllocation(ctx, *order.POSID, ev.Setting.WithholdingTypeID)
	if err != nil {
		return false, err
	}
	if allocation == nil {
		ev.AddDiagnostic("withholding payment method not allocated to terminal")
		valid = false
	} else {
		ev.Allocation = allocation
	}

	return valid, nil
}

// Compute writes one record per qualifying tax line, unrounded, then
// brings the payment reference in step with the accumulated total. No
// qualifying lines means a zero total and therefore a reference delete.
func (e *POSVATEvaluator) Compute(ctx context.Context, tx *gorm.DB, ev *withholdingdomain.Evaluation) error {
	label := ev.Allocation.Name
	if label == "" {
		method, err := e.pos.FindPaymentMethod(ctx, ev.Allocation.PaymentMethodID)
		if err != nil {
			return err
		}
		if method != nil {
			if method.Description != "" {
				label = method.Description
			} else {
				label = method.Name
			}
		}
	}
	ev.AddDescription(fmt.Sprintf("%s of %s", label, ev.Order.DocumentNo))

	for i := range ev.TaxLines {
		line := ev.TaxLines[i]
		tax, err := e.documents.FindTax(ctx, line.TaxID)
		if err != nil {
			return err
		}

		withheld := line.TaxAmount.Mul(ev.Rate)
		ev.AddBaseAmount(line.TaxAmount)
		ev.AddWithholdingAmount(withheld)

		taxID := line.TaxID
		record := &withholdingdomain.Withholding{
			ID:                e.genID.Generate(),
			OrgID:             ev.OrgID,
			SettingID:         ev.Setting.ID,
			DefinitionID:      ev.Definition.ID,
			SourceOrderID:     ev.SourceOrderID,
			Rate:              ev.Rate,
			BaseAmount:        line.TaxAmount,
			WithholdingAmount: withheld,
			Description:       ev.Description(),
			IsManual:          ev.IsManual,
			IsSimulation:      true,
			Status:            withholdingdomain.StatusDrafted,
			TaxID:             &taxID,
			ThirdPartyID:      ev.Order.WithholdingThirdPartyID,
			CreatedAt:         e.clk.Now(),
		}
		if tax != nil {
			record.Description = record.Description + " - " + tax.Name
		}
		if err := e.records.Save(ctx, tx, record); err != nil {
			return err
		}
		ev.CreatedIDs = append(ev.CreatedIDs, record.ID)
	}

	if err := e.refs.Sync(ctx, tx, referencedomain.SyncInput{
		Order:           ev.Order,
		PaymentMethodID: ev.Allocation.PaymentMethodID,
		Amount:          ev.WithholdingAmount(),
		Base:            ev.BaseAmount(),
		Rate:            ev.Rate,
		Description:     ev.Description(),
	}); err != nil {
		return err
	}

	e.log.Debug("evaluated pos withholding",
		zap.String("order_id", ev.SourceOrderID.String()),
		zap.Int("records", len(ev.CreatedIDs)),
		zap.String("amount", ev.WithholdingAmount().String()),
	)
	return nil
}

// resolveOrder loads the order behind the event and applies the trigger
// and changed-field gates. Order-line events walk up to the parent order;
// order events only matter when the document type or partner changed.
func (e *POSVATEvaluator) resolveOrder(ctx context.Context, ev *withholdingdomain.Evaluation) (*documentdomain.Order, bool, error) {
	// A setting without a configured trigger never fires.
	if ev.Setting.EventTrigger == "" {
		return nil, false, nil
	}
	if ev.Setting.EventTrigger != ev.Event.Trigger {
		return nil, false, nil
	}

	switch ev.Event.Kind {
	case documentdomain.KindOrder:
		if ev.Event.Trigger == withholdingdomain.TriggerAfterChange &&
			!ev.Event.Changed.DocumentType && !ev.Event.Changed.BusinessPartner {
			return nil, false, nil
		}
		order, err := e.documents.FindOrder(ctx, ev.Event.RecordID)
		if err != nil || order == nil {
			return nil, false, err
		}
		return order, true, nil

	case documentdomain.KindOrderLine:
		if ev.Event.Trigger == withholdingdomain.TriggerAfterChange &&
			!ev.Event.Changed.LineNetAmount && !ev.Event.Changed.Tax {
			return nil, false, nil
		}
		line, err := e.documents.FindOrderLine(ctx, ev.Event.RecordID)
		if err != nil || line == nil {
			return nil, false, err
		}
		order, err := e.documents.FindOrder(ctx, line.OrderID)
		if err != nil || order == nil {
			return nil, false, err
		}
		return order, true, nil

	default:
		return nil, false, nil
	}
}

// resolveRate applies the precedence: the partner's own rate list wins
// over the definition default. Either list is read as of the order date.
func (e *POSVATEvaluator) resolveRate(ctx context.Context, partner *partnerdomain.BusinessPartner, definition *taxdomain.WithholdingTax, order *documentdomain.Order) (decimal.Decimal, error) {
	if partner.WithholdingRateID != nil {
		return e.rates.AmountAt(ctx, *partner.WithholdingRateID, order.DateOrdered)
	}
	if definition.DefaultRateListID != nil {
		return e.rates.AmountAt(ctx, *definition.DefaultRateListID, order.DateOrdered)
	}
	return decimal.Zero, nil
}

func (e *POSVATEvaluator) qualifyingTaxLines(ctx context.Context, orderID snowflake.ID) ([]documentdomain.OrderTax, error) {
	lines, err := e.documents.ListOrderTaxes(ctx, orderID)
	if err != nil {
		return nil, err
	}
	qualifying := make([]documentdomain.OrderTax, 0, len(lines))
	for _, line := range lines {
		if !line.TaxAmount.IsPositive() {
			continue
		}
		tax, err := e.documents.FindTax(ctx, line.TaxID)
		if err != nil {
			return nil, err
		}
		if tax == nil || !tax.IsWithholdingApplied {
			continue
		}
		qualifying = append(qualifying, line)
	}
	return qualifying, nil
}

func (e *POSVATEvaluator) deleteReference(ctx context.Context, tx *gorm.DB, ev *withholdingdomain.Evaluation) error {
	return e.refs.Delete(ctx, tx, ev.SourceOrderID)
}
