package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmagtibay/tindera-backend/api/responses"
	"github.com/rmagtibay/tindera-backend/internal/catalog"
	"github.com/rmagtibay/tindera-backend/pkg/db/models"
	"github.com/rmagtibay/tindera-backend/pkg/logger"
)

// ProductsList returns the sellable catalog.
func ProductsList(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := repo.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for i := range products {
			out = append(out, newProductResponse(&products[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type productResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
	}
}
