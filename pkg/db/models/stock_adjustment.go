package models

import (
	"time"

	"github.com/google/uuid"
)

// StockAdjustment is the immutable audit row written once per stock change.
// Rows are insert-only; the history is the sole explanation of how a product's
// stock reached its current value.
type StockAdjustment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Reason    string    `gorm:"column:reason;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
