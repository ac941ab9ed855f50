package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, want: false},
		{
			name: "pg unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "transactions_transaction_number_key"},
			want: true,
		},
		{
			name:       "pg unique violation wrong constraint",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"},
			constraint: "transactions_transaction_number_key",
			want:       false,
		},
		{
			name:       "pg unique violation matching constraint",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "transactions_transaction_number_key"},
			constraint: "transactions_transaction_number_key",
			want:       true,
		},
		{
			name: "pg non-unique error",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "sqlite unique violation text",
			err:  errors.New("UNIQUE constraint failed: transactions.transaction_number"),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
