package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmagtibay/tindera-backend/pkg/enums"
)

// Transaction is a committed sale. Immutable once created; refunds and voids
// are out of scope for this service.
type Transaction struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionNumber string              `gorm:"column:transaction_number;not null;uniqueIndex:transactions_transaction_number_key"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Subtotal          decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax               decimal.Decimal     `gorm:"column:tax;type:numeric(10,2);not null"`
	Discount          decimal.Decimal     `gorm:"column:discount;type:numeric(10,2);not null"`
	Total             decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;not null"`
	ReferenceNumber   *string             `gorm:"column:reference_number"`
	Items             []TransactionItem   `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}
