package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	taxdomain "github.com/smallbiznis/withholding/internal/tax/domain"
	withholdingdomain "github.com/smallbiznis/withholding/internal/withholding/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	documents  documentdomain.Repository
	records    withholdingdomain.Repository
	evaluators map[taxdomain.WithholdingType]withholdingdomain.Evaluator
	log        *zap.Logger
}

func NewService(
	db *gorm.DB,
	documents documentdomain.Repository,
	records withholdingdomain.Repository,
	municipal *MunicipalEvaluator,
	posVAT *POSVATEvaluator,
	log *zap.Logger,
) withholdingdomain.Service {
	return &service{
		db:        db,
		documents: documents,
		records:   records,
		evaluators: map[taxdomain.WithholdingType]withholdingdomain.Evaluator{
			taxdomain.WithholdingTypeMunicipal: municipal,
			taxdomain.WithholdingTypeIVA:       posVAT,
		},
		log: log.Named("withholding.service"),
	}
}

// EvaluateDocument fans one save event out to every active setting of the
// owning organization. All settings run inside one transaction: an
// infrastructure error on any of them rolls the whole event back, so the
// host never observes a half-evaluated save.
func (s *service) EvaluateDocument(ctx context.Context, event withholdingdomain.DocumentEvent) ([]withholdingdomain.Outcome, error) {
	orgID, err := s.resolveOrg(ctx, event)
	if err != nil {
		return nil, err
	}

	settings, err := s.records.ListActiveSettings(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, nil
	}

	outcomes := make([]withholdingdomain.Outcome, 0, len(settings))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, setting := range settings {
			evaluator, ok := s.evaluators[setting.Regime]
			if !ok {
				s.log.Warn("skipping setting with unknown regime",
					zap.String("setting_id", setting.ID.String()),
					zap.String("regime", string(setting.Regime)),
				)
				continue
			}

			ev := withholdingdomain.NewEvaluation(event, setting)
			valid, err := evaluator.Validate(ctx, tx, ev)
			if err != nil {
				return err
			}
			if valid {
				if err := evaluator.Compute(ctx, tx, ev); err != nil {
					return err
				}
			}
			outcomes = append(outcomes, withholdingdomain.Outcome{
				SettingID:   setting.ID,
				Applicable:  valid,
				Diagnostics: ev.Diagnostics(),
				CreatedIDs:  ev.CreatedIDs,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID snowflake.ID) ([]withholdingdomain.Withholding, error) {
	return s.records.ListByOrder(ctx, orderID)
}

// resolveOrg walks the event to its owning order to find the organization
// whose settings apply.
func (s *service) resolveOrg(ctx context.Context, event withholdingdomain.DocumentEvent) (snowflake.ID, error) {
	switch event.Kind {
	case documentdomain.KindOrder:
		order, err := s.documents.FindOrder(ctx, event.RecordID)
		if err != nil {
			return 0, err
		}
		if order == nil {
			return 0, withholdingdomain.ErrDocumentNotFound
		}
		return order.OrgID, nil

	case documentdomain.KindOrderLine:
		line, err := s.documents.FindOrderLine(ctx, event.RecordID)
		if err != nil {
			return 0, err
		}
		if line == nil {
			return 0, withholdingdomain.ErrDocumentNotFound
		}
		order, err := s.documents.FindOrder(ctx, line.OrderID)
		if err != nil {
			return 0, err
		}
		if order == nil {
			return 0, withholdingdomain.ErrDocumentNotFound
		}
		return order.OrgID, nil

	default:
		return 0, withholdingdomain.ErrUnknownDocumentKind
	}
}
