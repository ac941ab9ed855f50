package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmagtibay/tindera-backend/pkg/db/models"
)

// Repository persists stock levels and their audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpdateStock(ctx context.Context, productID uuid.UUID, quantity int, isActive bool) error
	CreateAdjustment(ctx context.Context, adjustment *models.StockAdjustment) error
	ListAdjustmentsByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockAdjustment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UpdateStock(ctx context.Context, productID uuid.UUID, quantity int, isActive bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock_quantity": quantity,
			"is_active":      isActive,
		}).Error
}

func (r *repository) CreateAdjustment(ctx context.Context, adjustment *models.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

func (r *repository) ListAdjustmentsByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockAdjustment, error) {
	var adjustments []models.StockAdjustment
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}
