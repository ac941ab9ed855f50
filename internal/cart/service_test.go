package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmagtibay/tindera-backend/internal/catalog"
	"github.com/rmagtibay/tindera-backend/pkg/db/models"
	pkgerrors "github.com/rmagtibay/tindera-backend/pkg/errors"
)

type memoryStore struct {
	carts map[string]*Cart
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: map[string]*Cart{}}
}

func (m *memoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if cart, ok := m.carts[sessionID]; ok {
		return cart, nil
	}
	return NewCart(), nil
}

func (m *memoryStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	m.carts[sessionID] = cart
	return nil
}

func (m *memoryStore) Clear(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (f *stubCatalog) WithTx(tx *gorm.DB) catalog.Repository {
	return f
}

func (f *stubCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *stubCatalog) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return f.FindByID(ctx, id)
}

func (f *stubCatalog) ListActive(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeSettings struct {
	rate decimal.Decimal
}

func (f *fakeSettings) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	return f.rate, nil
}

func TestAddItem(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Instant Coffee", Price: decimal.RequireFromString("19.99"), StockQuantity: 50, IsActive: true},
	})

	cart, err := svc.AddItem(context.Background(), "reg-1", productID, 3)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.Quantity != 3 {
		t.Fatalf("unexpected quantity %d", line.Quantity)
	}
	if !line.Subtotal.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("unexpected subtotal %s", line.Subtotal)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "reg-1", productID, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected single merged line of 5, got %+v", cart.Lines)
	}
}

func TestAddItemKeepsPriceSnapshot(t *testing.T) {
	productID := uuid.New()
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
	}}
	svc, err := NewService(newMemoryStore(), catalog, &fakeSettings{rate: decimal.NewFromInt(12)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}

	// Price changes after the first add must not reprice the staged line.
	catalog.products[productID].Price = decimal.RequireFromString("12.50")

	cart, err := svc.AddItem(ctx, "reg-1", productID, 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if !cart.Lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("price snapshot lost: %s", cart.Lines[0].UnitPrice)
	}
	if !cart.Lines[0].Subtotal.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("unexpected subtotal %s", cart.Lines[0].Subtotal)
	}
}

func TestAddItemValidation(t *testing.T) {
	productID := uuid.New()
	inactiveID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID:  {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 2, IsActive: true},
		inactiveID: {ID: inactiveID, Name: "Retired", Price: decimal.RequireFromString("5.00"), StockQuantity: 5, IsActive: false},
	})
	ctx := context.Background()

	tests := []struct {
		name      string
		productID uuid.UUID
		quantity  int
		wantCode  pkgerrors.Code
	}{
		{name: "zero quantity", productID: productID, quantity: 0, wantCode: pkgerrors.CodeValidation},
		{name: "negative quantity", productID: productID, quantity: -1, wantCode: pkgerrors.CodeValidation},
		{name: "unknown product", productID: uuid.New(), quantity: 1, wantCode: pkgerrors.CodeNotFound},
		{name: "inactive product", productID: inactiveID, quantity: 1, wantCode: pkgerrors.CodeValidation},
		{name: "exceeds stock", productID: productID, quantity: 3, wantCode: pkgerrors.CodeConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, "reg-1", tc.productID, tc.quantity)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.wantCode {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestAddItemRejectsCumulativeOverstock(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 5, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 4); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := svc.AddItem(ctx, "reg-1", productID, 2)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on 4+2 over stock 5, got %v", err)
	}

	cart, err := svc.Get(ctx, "reg-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cart.Lines[0].Quantity != 4 {
		t.Fatalf("rejected add must not change the cart, got quantity %d", cart.Lines[0].Quantity)
	}
}

func TestUpdateQuantity(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.UpdateQuantity(ctx, "reg-1", productID, 7)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if cart.Lines[0].Quantity != 7 {
		t.Fatalf("unexpected quantity %d", cart.Lines[0].Quantity)
	}
	if !cart.Lines[0].Subtotal.Equal(decimal.RequireFromString("70.00")) {
		t.Fatalf("unexpected subtotal %s", cart.Lines[0].Subtotal)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.UpdateQuantity(ctx, "reg-1", productID, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", cart.Lines)
	}
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	svc := newTestService(t, map[uuid.UUID]*models.Product{})

	_, err := svc.UpdateQuantity(context.Background(), "reg-1", uuid.New(), 2)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantityExceedingStock(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 3, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := svc.UpdateQuantity(ctx, "reg-1", productID, 4)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	productID := uuid.New()
	otherID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
		otherID:   {ID: otherID, Name: "Shampoo", Price: decimal.RequireFromString("25.00"), StockQuantity: 10, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, "reg-1", otherID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.RemoveItem(ctx, "reg-1", productID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != otherID {
		t.Fatalf("unexpected lines %+v", cart.Lines)
	}

	// Removing an absent product is a no-op.
	if _, err := svc.RemoveItem(ctx, "reg-1", uuid.New()); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestClear(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, "reg-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	cart, err := svc.Get(ctx, "reg-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestTotals(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Instant Coffee", Price: decimal.RequireFromString("19.99"), StockQuantity: 50, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, totals, err := svc.Totals(ctx, "reg-1")
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if !totals.Subtotal.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("unexpected subtotal %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(decimal.RequireFromString("7.20")) {
		t.Fatalf("unexpected tax %s", totals.Tax)
	}
	if !totals.Total.Equal(decimal.RequireFromString("67.17")) {
		t.Fatalf("unexpected total %s", totals.Total)
	}
	if totals.ItemCount != 3 {
		t.Fatalf("unexpected item count %d", totals.ItemCount)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Soap", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
	})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "reg-1", productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	other, err := svc.Get(ctx, "reg-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !other.IsEmpty() {
		t.Fatalf("session reg-2 should start empty")
	}
}

func newTestService(t *testing.T, products map[uuid.UUID]*models.Product) Service {
	t.Helper()
	svc, err := NewService(newMemoryStore(), &stubCatalog{products: products}, &fakeSettings{rate: decimal.NewFromInt(12)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}
