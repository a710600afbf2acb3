package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) documentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindOrder(ctx context.Context, id snowflake.ID) (*documentdomain.Order, error) {
	var order documentdomain.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderLine(ctx context.Context, id snowflake.ID) (*documentdomain.OrderLine, error) {
	var line documentdomain.OrderLine
	err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindDocumentType(ctx context.Context, id snowflake.ID) (*documentdomain.DocumentType, error) {
	var docType documentdomain.DocumentType
	err := r.db.WithContext(ctx).First(&docType, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &docType, nil
}

func (r *repository) FindCurrency(ctx context.Context, id snowflake.ID) (*documentdomain.Currency, error) {
	var currency documentdomain.Currency
	err := r.db.WithContext(ctx).First(&currency, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &currency, nil
}

func (r *repository) FindTax(ctx context.Context, id snowflake.ID) (*documentdomain.Tax, error) {
	var tax documentdomain.Tax
	err := r.db.WithContext(ctx).First(&tax, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tax, nil
}

func (r *repository) ListOrderTaxes(ctx context.Context, orderID snowflake.ID) ([]documentdomain.OrderTax, error) {
	var taxes []documentdomain.OrderTax
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&taxes).Error
	if err != nil {
		return nil, err
	}
	return taxes, nil
}
