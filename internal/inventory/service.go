package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmagtibay/tindera-backend/internal/catalog"
	"github.com/rmagtibay/tindera-backend/pkg/db/models"
	pkgerrors "github.com/rmagtibay/tindera-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the single authorized writer of product stock. Every stock
// change goes through here and leaves exactly one audit row behind.
type Service interface {
	AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockAdjustment, error)
	// DecrementForSale runs inside the caller's transaction. The product row
	// is re-read under an exclusive lock so concurrent checkouts on the same
	// product serialize.
	DecrementForSale(ctx context.Context, tx *gorm.DB, input SaleDecrementInput) (*models.StockAdjustment, error)
	History(ctx context.Context, productID uuid.UUID) ([]models.StockAdjustment, error)
}

// AdjustStockInput captures one manual stock correction.
type AdjustStockInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Delta     int
	Reason    string
}

// SaleDecrementInput captures one checkout-driven stock reduction.
type SaleDecrementInput struct {
	ProductID         uuid.UUID
	UserID            uuid.UUID
	Quantity          int
	TransactionNumber string
}

type service struct {
	tx      txRunner
	repo    Repository
	catalog catalog.Repository
}

// NewService wires the inventory ledger with its persistence stack.
func NewService(tx txRunner, repo Repository, catalogRepo catalog.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{tx: tx, repo: repo, catalog: catalogRepo}, nil
}

func (s *service) AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockAdjustment, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	var adjustment *models.StockAdjustment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		adjustment, txErr = s.apply(ctx, tx, input.ProductID, input.UserID, input.Delta, input.Reason, true)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

func (s *service) DecrementForSale(ctx context.Context, tx *gorm.DB, input SaleDecrementInput) (*models.StockAdjustment, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "sale decrement requires an enclosing transaction")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	reason := fmt.Sprintf("sale %s", input.TransactionNumber)
	return s.apply(ctx, tx, input.ProductID, input.UserID, -input.Quantity, reason, false)
}

func (s *service) History(ctx context.Context, productID uuid.UUID) ([]models.StockAdjustment, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.ListAdjustmentsByProduct(ctx, productID)
}

// apply is the one code path that mutates stock: lock the row, check the
// floor, write the audit row and the new quantity together. manual selects
// the error wording used when the floor check fails.
func (s *service) apply(ctx context.Context, tx *gorm.DB, productID, userID uuid.UUID, delta int, reason string, manual bool) (*models.StockAdjustment, error) {
	product, err := s.catalog.WithTx(tx).FindByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	newQuantity := product.StockQuantity + delta
	if newQuantity < 0 {
		if manual {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock cannot go negative").
				WithDetails(map[string]any{"stock_quantity": product.StockQuantity, "delta": delta})
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for product").
			WithDetails(map[string]any{"product_id": productID, "stock_quantity": product.StockQuantity, "requested": -delta})
	}

	adjustment := &models.StockAdjustment{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Quantity:  delta,
		Reason:    reason,
	}

	repo := s.repo.WithTx(tx)
	if err := repo.CreateAdjustment(ctx, adjustment); err != nil {
		return nil, err
	}

	isActive := product.IsActive
	if newQuantity == 0 {
		isActive = false
	}
	if err := repo.UpdateStock(ctx, productID, newQuantity, isActive); err != nil {
		return nil, err
	}

	return adjustment, nil
}
