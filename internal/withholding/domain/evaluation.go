package domain

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	partnerdomain "github.com/smallbiznis/withholding/internal/partner/domain"
	posdomain "github.com/smallbiznis/withholding/internal/pos/domain"
	ratelistdomain "github.com/smallbiznis/withholding/internal/ratelist/domain"
	taxdomain "github.com/smallbiznis/withholding/internal/tax/domain"
)

// DocumentEvent is one host save notification: which record was written,
// under which trigger, and which relevant fields changed.
type DocumentEvent struct {
	Kind     documentdomain.Kind
	RecordID snowflake.ID
	Trigger  EventTrigger
	Changed  documentdomain.ChangeSet
}

// Evaluation is the per-invocation context shared by Validate and Compute.
// It is created for a single (document event, setting) pair and discarded
// after the run, so no state survives across documents.
type Evaluation struct {
	Event   DocumentEvent
	Setting Setting

	// Populated during validation; later steps and external callers read
	// these even when validation ultimately fails.
	SourceOrderID snowflake.ID
	OrgID         snowflake.ID

	Order      *documentdomain.Order
	Partner    *partnerdomain.BusinessPartner
	Definition *taxdomain.WithholdingTax
	IsManual   bool

	Precision int32
	Rate      decimal.Decimal

	// Retained by the municipal pipeline: the partner's activity rate list
	// whose name labels the generated record.
	Activity *ratelistdomain.RateList

	// Retained by the POS pipeline for computation.
	TaxLines   []documentdomain.OrderTax
	Allocation *posdomain.PaymentMethodAllocation

	baseAmount        decimal.Decimal
	withholdingAmount decimal.Decimal
	descriptions      []string
	diagnostics       []string

	// CreatedIDs lists the withholding records persisted by Compute.
	CreatedIDs []snowflake.ID
}

func NewEvaluation(event DocumentEvent, setting Setting) *Evaluation {
	return &Evaluation{
		Event:             event,
		Setting:           setting,
		Rate:              decimal.Zero,
		baseAmount:        decimal.Zero,
		withholdingAmount: decimal.Zero,
	}
}

// AddDiagnostic records a non-fatal precondition failure as plain text.
func (e *Evaluation) AddDiagnostic(msg string) {
	e.diagnostics = append(e.diagnostics, msg)
}

func (e *Evaluation) Diagnostics() []string {
	return e.diagnostics
}

func (e *Evaluation) AddBaseAmount(amount decimal.Decimal) {
	e.baseAmount = e.baseAmount.Add(amount)
}

func (e *Evaluation) BaseAmount() decimal.Decimal {
	return e.baseAmount
}

func (e *Evaluation) AddWithholdingAmount(amount decimal.Decimal) {
	e.withholdingAmount = e.withholdingAmount.Add(amount)
}

func (e *Evaluation) WithholdingAmount() decimal.Decimal {
	return e.withholdingAmount
}

func (e *Evaluation) AddDescription(text string) {
	if text == "" {
		return
	}
	e.descriptions = append(e.descriptions, text)
}

func (e *Evaluation) Description() string {
	return strings.Join(e.descriptions, " - ")
}
