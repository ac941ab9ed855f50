package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal identity shape referenced by ledger and sales rows.
// Account administration lives outside this service.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username  string    `gorm:"column:username;not null;uniqueIndex"`
	FullName  string    `gorm:"column:full_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
