package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmagtibay/tindera-backend/internal/cart"
	"github.com/rmagtibay/tindera-backend/internal/inventory"
	"github.com/rmagtibay/tindera-backend/internal/settings"
	"github.com/rmagtibay/tindera-backend/pkg/db"
	"github.com/rmagtibay/tindera-backend/pkg/db/models"
	"github.com/rmagtibay/tindera-backend/pkg/enums"
	pkgerrors "github.com/rmagtibay/tindera-backend/pkg/errors"
	"github.com/rmagtibay/tindera-backend/pkg/logger"
	"github.com/rmagtibay/tindera-backend/pkg/metrics"
	"github.com/rmagtibay/tindera-backend/pkg/money"
)

const transactionNumberConstraint = "transactions_transaction_number_key"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CheckoutInput drives a session checkout end to end.
type CheckoutInput struct {
	SessionID       string
	UserID          uuid.UUID
	PaymentMethod   enums.PaymentMethod
	Discount        decimal.Decimal
	ReferenceNumber *string
}

// ProcessInput commits a cart snapshot as one transaction.
type ProcessInput struct {
	Cart            *cart.Cart
	UserID          uuid.UUID
	PaymentMethod   enums.PaymentMethod
	TaxRate         decimal.Decimal
	Discount        decimal.Decimal
	ReferenceNumber *string
}

// Service is the transaction commit pipeline: it turns a staged cart into a
// persisted, numbered transaction while decrementing stock, all in one
// database transaction.
type Service interface {
	// Checkout loads the session's cart, commits it and clears the session.
	Checkout(ctx context.Context, input CheckoutInput) (*models.Transaction, error)
	ProcessTransaction(ctx context.Context, input ProcessInput) (*models.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

type service struct {
	tx        txRunner
	repo      Repository
	carts     cart.Service
	settings  settings.Service
	inventory inventory.Service
	metrics   *metrics.CheckoutMetrics
	logger    *logger.Logger

	maxAttempts int

	// now is swapped in tests to pin the day prefix.
	now func() time.Time
}

// NewService wires the commit pipeline with its collaborators. maxAttempts
// bounds retries after a transaction-number collision; values below 1 fall
// back to a single attempt.
func NewService(
	tx txRunner,
	repo Repository,
	carts cart.Service,
	settingsSvc settings.Service,
	inventorySvc inventory.Service,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	maxAttempts int,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &service{
		tx:          tx,
		repo:        repo,
		carts:       carts,
		settings:    settingsSvc,
		inventory:   inventorySvc,
		metrics:     checkoutMetrics,
		logger:      logg,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}, nil
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Transaction, error) {
	if input.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	staged, err := s.carts.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	rate, err := s.settings.TaxRate(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := s.ProcessTransaction(ctx, ProcessInput{
		Cart:            staged,
		UserID:          input.UserID,
		PaymentMethod:   input.PaymentMethod,
		TaxRate:         rate,
		Discount:        input.Discount,
		ReferenceNumber: input.ReferenceNumber,
	})
	if err != nil {
		return nil, err
	}

	// The sale is already committed; a failed session clear only means the
	// register starts its next sale with a stale cart, so log and move on.
	if err := s.carts.Clear(ctx, input.SessionID); err != nil && s.logger != nil {
		s.logger.Error(ctx, "failed to clear cart after checkout", err)
	}

	return txn, nil
}

func (s *service) ProcessTransaction(ctx context.Context, input ProcessInput) (*models.Transaction, error) {
	start := time.Now()

	txn, err := s.process(ctx, input)

	method := input.PaymentMethod.String()
	s.metrics.ObserveDuration(method, time.Since(start))
	if err != nil {
		s.metrics.IncAborted(method, abortReason(err))
		return nil, err
	}
	s.metrics.IncCommitted(method)
	return txn, nil
}

func (s *service) process(ctx context.Context, input ProcessInput) (*models.Transaction, error) {
	if input.Cart == nil || input.Cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.TaxRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must not be negative")
	}

	subtotal := input.Cart.Subtotal()
	tax := money.TaxAmount(subtotal, input.TaxRate)
	discount := money.Round(input.Discount)
	total := money.Round(subtotal.Add(tax).Sub(discount))

	if total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds the amount due").
			WithDetails(map[string]any{"subtotal": subtotal, "tax": tax, "discount": discount})
	}

	var committed *models.Transaction
	for attempt := 1; ; attempt++ {
		txn, err := s.commit(ctx, input, subtotal, tax, discount, total)
		if err == nil {
			committed = txn
			break
		}
		if db.IsUniqueViolation(err, transactionNumberConstraint) && attempt < s.maxAttempts {
			if s.logger != nil {
				s.logger.Warn(ctx, fmt.Sprintf("transaction number collision, retrying (attempt %d)", attempt))
			}
			continue
		}
		return nil, err
	}

	return committed, nil
}

// commit runs one full attempt: number allocation, header, items and stock
// decrements all inside a single database transaction.
func (s *service) commit(
	ctx context.Context,
	input ProcessInput,
	subtotal, tax, discount, total decimal.Decimal,
) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := nextTransactionNumber(ctx, repo, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate transaction number")
		}

		record := &models.Transaction{
			ID:                uuid.New(),
			TransactionNumber: number,
			UserID:            input.UserID,
			Subtotal:          subtotal,
			Tax:               tax,
			Discount:          discount,
			Total:             total,
			PaymentMethod:     input.PaymentMethod,
			ReferenceNumber:   input.ReferenceNumber,
		}
		if err := repo.CreateTransaction(ctx, record); err != nil {
			return err
		}

		items := make([]models.TransactionItem, 0, len(input.Cart.Lines))
		for _, line := range input.Cart.Lines {
			items = append(items, models.TransactionItem{
				ID:            uuid.New(),
				TransactionID: record.ID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				Subtotal:      line.Subtotal,
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}

		for _, line := range input.Cart.Lines {
			if _, err := s.inventory.DecrementForSale(ctx, tx, inventory.SaleDecrementInput{
				ProductID:         line.ProductID,
				UserID:            input.UserID,
				Quantity:          line.Quantity,
				TransactionNumber: number,
			}); err != nil {
				return err
			}
		}

		record.Items = items
		txn = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func abortReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "storage"
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeNotFound:
		return "not_found"
	default:
		return "storage"
	}
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return txn, nil
}
