package models

import "time"

// MenuItem is the catalog entry a cart line can reference. Price is in
// minor currency units (paise), never fractional.
type MenuItem struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Price     int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
