package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmagtibay/tindera-backend/internal/catalog"
	"github.com/rmagtibay/tindera-backend/internal/settings"
	"github.com/rmagtibay/tindera-backend/pkg/db/models"
	pkgerrors "github.com/rmagtibay/tindera-backend/pkg/errors"
)

// Totals is the priced view of a cart at the current tax rate.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Service manages the per-session cart staged ahead of checkout.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*Cart, error)
	// UpdateQuantity replaces a line's quantity. A quantity of zero or less
	// removes the line.
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
	Totals(ctx context.Context, sessionID string) (*Cart, *Totals, error)
}

type service struct {
	store    SessionStore
	catalog  catalog.Repository
	settings settings.Service
}

// NewService wires the cart accumulator with its session store and catalog.
func NewService(store SessionStore, catalogRepo catalog.Repository, settingsSvc settings.Service) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &service{store: store, catalog: catalogRepo, settings: settingsSvc}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.store.Load(ctx, sessionID)
}

func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// The staged quantity is checked against current stock so an obviously
	// unfillable cart is rejected early. Checkout re-checks under a row lock.
	wanted := cart.Quantity(productID) + quantity
	if wanted > product.StockQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for product").
			WithDetails(map[string]any{
				"product_id":      productID,
				"stock_quantity":  product.StockQuantity,
				"requested_total": wanted,
			})
	}

	// Existing lines keep their original price snapshot.
	unitPrice := product.Price
	if i := cart.Find(productID); i >= 0 {
		unitPrice = cart.Lines[i].UnitPrice
	}
	cart.setLine(productID, product.Name, unitPrice, wanted)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := cart.Find(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not in cart")
	}

	if quantity <= 0 {
		cart.removeLine(productID)
		if err := s.store.Save(ctx, sessionID, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for product").
			WithDetails(map[string]any{
				"product_id":      productID,
				"stock_quantity":  product.StockQuantity,
				"requested_total": quantity,
			})
	}

	line := cart.Lines[idx]
	cart.setLine(productID, line.Name, line.UnitPrice, quantity)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.removeLine(productID)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.store.Clear(ctx, sessionID)
}

func (s *service) Totals(ctx context.Context, sessionID string) (*Cart, *Totals, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	rate, err := s.settings.TaxRate(ctx)
	if err != nil {
		return nil, nil, err
	}

	subtotal := cart.Subtotal()
	tax := cart.Tax(rate)
	return cart, &Totals{
		Subtotal:  subtotal,
		TaxRate:   rate,
		Tax:       tax,
		Total:     cart.Total(rate),
		ItemCount: cart.ItemCount(),
	}, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return product, nil
}
