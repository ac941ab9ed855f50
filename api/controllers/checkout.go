package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmagtibay/tindera-backend/api/responses"
	"github.com/rmagtibay/tindera-backend/api/validators"
	salessvc "github.com/rmagtibay/tindera-backend/internal/sales"
	"github.com/rmagtibay/tindera-backend/pkg/db/models"
	"github.com/rmagtibay/tindera-backend/pkg/enums"
	pkgerrors "github.com/rmagtibay/tindera-backend/pkg/errors"
	"github.com/rmagtibay/tindera-backend/pkg/logger"
)

// Checkout commits the session's cart as one transaction.
func Checkout(svc salessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		discount := decimal.Zero
		if payload.Discount != nil {
			discount = *payload.Discount
		}

		txn, err := svc.Checkout(r.Context(), salessvc.CheckoutInput{
			SessionID:       sessionID,
			UserID:          userID,
			PaymentMethod:   method,
			Discount:        discount,
			ReferenceNumber: payload.ReferenceNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newTransactionResponse(txn))
	}
}

// TransactionGet returns a committed transaction with its items.
func TransactionGet(svc salessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "transactionID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction id"))
			return
		}

		txn, err := svc.FindByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTransactionResponse(txn))
	}
}

type checkoutRequest struct {
	PaymentMethod   string           `json:"payment_method" validate:"required"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
}

type transactionItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type transactionResponse struct {
	ID                uuid.UUID                 `json:"id"`
	TransactionNumber string                    `json:"transaction_number"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	Tax               decimal.Decimal           `json:"tax"`
	Discount          decimal.Decimal           `json:"discount"`
	Total             decimal.Decimal           `json:"total"`
	PaymentMethod     string                    `json:"payment_method"`
	ReferenceNumber   *string                   `json:"reference_number,omitempty"`
	Items             []transactionItemResponse `json:"items"`
	CreatedAt         time.Time                 `json:"created_at"`
}

func newTransactionResponse(txn *models.Transaction) transactionResponse {
	items := make([]transactionItemResponse, 0, len(txn.Items))
	for _, item := range txn.Items {
		items = append(items, transactionItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return transactionResponse{
		ID:                txn.ID,
		TransactionNumber: txn.TransactionNumber,
		Subtotal:          txn.Subtotal,
		Tax:               txn.Tax,
		Discount:          txn.Discount,
		Total:             txn.Total,
		PaymentMethod:     txn.PaymentMethod.String(),
		ReferenceNumber:   txn.ReferenceNumber,
		Items:             items,
		CreatedAt:         txn.CreatedAt,
	}
}
