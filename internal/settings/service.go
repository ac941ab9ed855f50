package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/rmagtibay/tindera-backend/pkg/errors"
)

const taxRateKey = "tax_rate"

// Service exposes the settings values this service consumes.
type Service interface {
	// TaxRate returns the configured sales tax percentage.
	TaxRate(ctx context.Context) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService wires a settings reader with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	setting, err := s.repo.FindByKey(ctx, taxRateKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeDependency, "tax rate is not configured")
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tax rate")
	}

	rate, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse tax rate")
	}
	if rate.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeDependency, "tax rate must not be negative")
	}
	return rate, nil
}
