package models

import "time"

type AuditAction string

const (
	AuditActionVoidSale       AuditAction = "void_sale"
	AuditActionOverrideResume AuditAction = "override_resume"
	AuditActionDiscardHold    AuditAction = "discard_hold"
)

// AuditLog records privileged operations with before/after snapshots.
type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   uint
	UserName string `gorm:"size:100"` // denormalized

	EntityType string `gorm:"size:50;index"` // "sale" / "cart"
	EntityID   uint   `gorm:"index"`

	Action      AuditAction `gorm:"size:30"`
	Description string      `gorm:"size:255"`

	// Previous and new state (JSON)
	BeforeData string `gorm:"type:jsonb"`
	AfterData  string `gorm:"type:jsonb"`
}
