package models

import "time"

// BillSequence is the per-year counter backing bill number allocation.
// LastSeq only ever grows; numbers are never reclaimed, even for voided
// sales.
type BillSequence struct {
	ID        uint   `gorm:"primaryKey"`
	Prefix    string `gorm:"size:10;not null;uniqueIndex:idx_bill_sequences_prefix_year"`
	Year      int    `gorm:"not null;uniqueIndex:idx_bill_sequences_prefix_year"`
	LastSeq   int    `gorm:"not null"`
	UpdatedAt time.Time
}
