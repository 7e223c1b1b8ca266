package models

import "time"

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentUPI    PaymentMethod = "UPI"
	PaymentGPay   PaymentMethod = "GPAY"
	PaymentOnline PaymentMethod = "ONLINE"
	PaymentMixed  PaymentMethod = "MIXED"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentGPay, PaymentOnline, PaymentMixed:
		return true
	}
	return false
}

// RequiresTxnRef reports whether an external transaction reference is
// mandatory for this payment method.
func (m PaymentMethod) RequiresTxnRef() bool {
	switch m {
	case PaymentUPI, PaymentOnline, PaymentMixed:
		return true
	}
	return false
}

type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusVoid      SaleStatus = "VOID"
)

// Sale is the durable result of a settled cart. Immutable after creation
// except Status, which an admin may flip to VOID; amounts and the bill
// number are never touched afterwards.
type Sale struct {
	ID            uint          `gorm:"primaryKey"`
	BillNo        string        `gorm:"size:50;uniqueIndex;not null"`
	CartID        uint          `gorm:"uniqueIndex;not null"`
	Subtotal      int64         `gorm:"not null"`
	Discount      int64         `gorm:"not null"`
	Total         int64         `gorm:"not null"` // subtotal - discount, never negative
	PaymentMethod PaymentMethod `gorm:"size:10;not null"`
	TxnRef        string        `gorm:"size:100"`
	CustomerName  string        `gorm:"size:100;not null"`
	CustomerPhone string        `gorm:"size:10;not null"`
	StaffID       uint          `gorm:"index;not null"`
	Staff         User
	BusinessDate  string     `gorm:"size:10;index;not null"` // YYYY-MM-DD, 15:00 cutover
	Status        SaleStatus `gorm:"size:10;not null;index"`
	Items         []SaleItem `gorm:"foreignKey:SaleID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem is the line snapshot captured at settlement. It copies name and
// price by value so later catalog edits never change a printed bill.
type SaleItem struct {
	ID        uint   `gorm:"primaryKey"`
	SaleID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:100;not null"`
	Quantity  int    `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`
	Subtotal  int64  `gorm:"not null"`
}
