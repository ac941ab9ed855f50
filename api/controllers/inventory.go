package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rmagtibay/tindera-backend/api/responses"
	"github.com/rmagtibay/tindera-backend/api/validators"
	inventorysvc "github.com/rmagtibay/tindera-backend/internal/inventory"
	"github.com/rmagtibay/tindera-backend/pkg/db/models"
	"github.com/rmagtibay/tindera-backend/pkg/logger"
)

// InventoryAdjust applies one manual stock correction.
func InventoryAdjust(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adjustment, err := svc.AdjustStock(r.Context(), inventorysvc.AdjustStockInput{
			ProductID: payload.ProductID,
			UserID:    userID,
			Delta:     payload.Delta,
			Reason:    payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newAdjustmentResponse(adjustment))
	}
}

// InventoryHistory lists a product's stock adjustments, newest first.
func InventoryHistory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]adjustmentResponse, 0, len(history))
		for i := range history {
			out = append(out, newAdjustmentResponse(&history[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type adjustStockRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Delta     int       `json:"delta" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

type adjustmentResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func newAdjustmentResponse(adjustment *models.StockAdjustment) adjustmentResponse {
	return adjustmentResponse{
		ID:        adjustment.ID,
		ProductID: adjustment.ProductID,
		UserID:    adjustment.UserID,
		Quantity:  adjustment.Quantity,
		Reason:    adjustment.Reason,
		CreatedAt: adjustment.CreatedAt,
	}
}
