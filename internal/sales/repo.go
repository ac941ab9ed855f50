package sales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmagtibay/tindera-backend/pkg/db/models"
)

// Repository persists committed transactions and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	CreateItems(ctx context.Context, items []models.TransactionItem) error
	// LatestNumberForPrefix returns the highest transaction number starting
	// with prefix, or "" when none exists yet.
	LatestNumberForPrefix(ctx context.Context, prefix string) (string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a sales repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) LatestNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("transaction_number LIKE ?", prefix+"%").
		Order("transaction_number DESC").
		Limit(1).
		Pluck("transaction_number", &number).Error
	if err != nil {
		return "", err
	}
	return number, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}
