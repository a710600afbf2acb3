package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/withholding/internal/clock"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	partnerdomain "github.com/smallbiznis/withholding/internal/partner/domain"
	ratelistdomain "github.com/smallbiznis/withholding/internal/ratelist/domain"
	taxdomain "github.com/smallbiznis/withholding/internal/tax/domain"
	withholdingdomain "github.com/smallbiznis/withholding/internal/withholding/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MunicipalEvaluator implements the municipal activity-tax regime: one
// simulated record per completed order, rate taken from the partner's
// pinned rate version, amount rounded to the currency precision.
type MunicipalEvaluator struct {
	documents documentdomain.Repository
	partners  partnerdomain.Repository
	taxes     taxdomain.Repository
	rateLists ratelistdomain.Repository
	records   withholdingdomain.Repository

	genID *snowflake.Node
	clk   clock.Clock
	log   *zap.Logger
}

func NewMunicipalEvaluator(
	documents documentdomain.Repository,
	partners partnerdomain.Repository,
	taxes taxdomain.Repository,
	rateLists ratelistdomain.Repository,
	records withholdingdomain.Repository,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) *MunicipalEvaluator {
	return &MunicipalEvaluator{
		documents: documents,
		partners:  partners,
		taxes:     taxes,
		rateLists: rateLists,
		records:   records,
		genID:     genID,
		clk:       clk,
		log:       log.Named("withholding.municipal"),
	}
}

// Validate runs the ordered municipal checks. A wrong document kind exits
// immediately; every other unmet precondition appends a diagnostic and
// flips the verdict while remaining checks still run, so the caller gets
// the full list of problems in one pass.
func (e *MunicipalEvaluator) Validate(ctx context.Context, _ *gorm.DB, ev *withholdingdomain.Evaluation) (bool, error) {
	// A setting without a configured trigger never fires.
	if ev.Setting.EventTrigger == "" {
		return false, nil
	}
	if ev.Setting.EventTrigger != ev.Event.Trigger {
		return false, nil
	}

	if ev.Event.Kind != documentdomain.KindOrder {
		ev.AddDiagnostic("document is not an order")
		return false, nil
	}

	order, err := e.documents.FindOrder(ctx, ev.Event.RecordID)
	if err != nil {
		return false, err
	}
	if order == nil {
		ev.AddDiagnostic("order not found")
		return false, nil
	}

	valid := true
	ev.Order = order
	ev.SourceOrderID = order.ID
	ev.OrgID = order.OrgID

	orderPartner, err := e.partners.FindByID(ctx, order.PartnerID)
	if err != nil {
		return false, err
	}
	if orderPartner == nil {
		ev.AddDiagnostic("business partner not found")
		return false, nil
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

	currency, err := e.documents.FindCurrency(ctx, order.CurrencyID)
	if err != nil {
		return false, err
	}
	if currency != nil {
		ev.Precision = currency.StdPrecision
	}

	definition, err := e.taxes.FindForOrg(ctx, order.OrgID, taxdomain.WithholdingTypeMunicipal)
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

	if order.Status != documentdomain.DocStatusCompleted {
		ev.AddDiagnostic("invalid order document status")
		valid = false
	}

	docType, err := e.documents.FindDocumentType(ctx, order.DocumentTypeID)
	if err != nil {
		return false, err
	}
	if docType == nil {
		ev.AddDiagnostic("document type not found")
		valid = false
	}

	if partner.IsMunicipalTaxExempt {
		ev.AddDiagnostic("business partner exempt from municipal withholding")
		valid = false
	}

	if partner.BusinessActivityID == nil {
		ev.AddDiagnostic("business activity not found")
		valid = false
	} else {
		activity, err := e.rateLists.FindList(ctx, *partner.BusinessActivityID)
		if err != nil {
			return false, err
		}
		if activity == nil {
			ev.AddDiagnostic("business activity not found")
			valid = false
		}
		ev.Activity = activity
	}

	if partner.MunicipalRateID == nil {
		ev.AddDiagnostic("municipal withholding rate not found")
		valid = false
	} else {
		version, err := e.rateLists.FindVersion(ctx, *partner.MunicipalRateID)
		if err != nil {
			return false, err
		}
		if version == nil {
			ev.AddDiagnostic("municipal withholding rate not found")
			valid = false
		} else {
			ev.Rate = version.Amount
		}
	}

	if ev.Definition != nil {
		exists, err := e.records.Exists(ctx, order.ID, ev.Definition.ID, ev.Setting.ID)
		if err != nil {
			return false, err
		}
		// Already generated: suppress silently, matching the host engine.
		if exists {
			valid = false
		}
	}

	return valid, nil
}

// Compute persists a single simulated record. The withheld amount is
// base × rate rounded half-up to the order currency's standard precision.
func (e *MunicipalEvaluator) Compute(ctx context.Context, tx *gorm.DB, ev *withholdingdomain.Evaluation) error {
	if ev.Activity == nil || ev.Rate.IsZero() {
		return nil
	}

	base := ev.Order.TotalLines
	ev.AddBaseAmount(base)
	ev.AddWithholdingAmount(base.Mul(ev.Rate).Round(ev.Precision))
	ev.AddDescription(ev.Activity.Name)

	record := &withholdingdomain.Withholding{
		ID:                e.genID.Generate(),
		OrgID:             ev.OrgID,
		SettingID:         ev.Setting.ID,
		DefinitionID:      ev.Definition.ID,
		SourceOrderID:     ev.SourceOrderID,
		Rate:              ev.Rate,
		BaseAmount:        ev.BaseAmount(),
		WithholdingAmount: ev.WithholdingAmount(),
		Description:       ev.Description(),
		IsManual:          ev.IsManual,
		IsSimulation:      true,
		Status:            withholdingdomain.StatusDrafted,
		ThirdPartyID:      ev.Order.WithholdingThirdPartyID,
		CreatedAt:         e.clk.Now(),
	}
	if err := e.records.Save(ctx, tx, record); err != nil {
		return err
	}
	ev.CreatedIDs = append(ev.CreatedIDs, record.ID)

	e.log.Debug("generated municipal withholding",
		zap.String("order_id", ev.SourceOrderID.String()),
		zap.String("amount", record.WithholdingAmount.String()),
	)
	return nil
}

// salesOverride applies the sales-transaction substitution: the organization
// withholds on its own behalf, so its configured withholding partner replaces
// the order's partner and the generated record is flagged manual. Without a
// configured override the order's partner stands.
func salesOverride(ctx context.Context, partners partnerdomain.Repository, order *documentdomain.Order, partner *partnerdomain.BusinessPartner) (*partnerdomain.BusinessPartner, bool, error) {
	if !order.IsSalesTransaction {
		return partner, false, nil
	}

	info, err := partners.FindOrgInfo(ctx, order.OrgID)
	if err != nil {
		return nil, true, err
	}
	if info == nil || info.WithholdingPartnerID == nil {
		return partner, true, nil
	}
	override, err := partners.FindByID(ctx, *info.WithholdingPartnerID)
	return override, true, err
}
