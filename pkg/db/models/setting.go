package models

import "time"

// Setting is a key/value configuration row. This service only reads the
// tax_rate key; settings administration happens elsewhere.
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
