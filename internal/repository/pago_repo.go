package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

// PagoRepository acceso a datos de pagos
type PagoRepository interface {
	Crear(ctx context.Context, pago *model.Pago) error
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Pago, error)
}

type pagoRepo struct {
	db *gorm.DB
}

func NewPagoRepo(db *gorm.DB) PagoRepository {
	return &pagoRepo{db: db}
}

func (r *pagoRepo) Crear(ctx context.Context, pago *model.Pago) error {
	return r.db.WithContext(ctx).Create(pago).Error
}

func (r *pagoRepo) GetByTransactionID(ctx context.Context, transactionID string) (*model.Pago, error) {
	var pago model.Pago
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&pago).Error
	if err != nil {
		return nil, err
	}
	return &pago, nil
}
