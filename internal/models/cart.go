package models

import "time"

type CartStatus string

const (
	CartStatusActive  CartStatus = "ACTIVE"
	CartStatusHold    CartStatus = "HOLD"
	CartStatusExpired CartStatus = "EXPIRED"
	CartStatusPaid    CartStatus = "PAID"
)

type CartLineKind string

const (
	CartLineCatalog CartLineKind = "catalog"
	CartLineCustom  CartLineKind = "custom"
)

// Cart is an in-progress order. Version guards every status transition:
// writers update with WHERE id = ? AND version = ? and treat zero affected
// rows as a lost race.
type Cart struct {
	ID            uint       `gorm:"primaryKey"`
	Status        CartStatus `gorm:"size:10;not null;index"`
	Version       int        `gorm:"not null;default:0"`
	StaffID       *uint      `gorm:"index"`
	Staff         *User
	CustomerName  string `gorm:"size:100"`
	CustomerPhone string `gorm:"size:20"`
	Lines         []CartLine `gorm:"foreignKey:CartID"`
	CreatedAt     time.Time  // also decides hold expiry via the business-day rule
	UpdatedAt     time.Time
}

// CartLine is either a catalog reference or a self-contained custom line,
// discriminated by Kind. Catalog lines never carry a custom name/price and
// custom lines never reference the menu; the accessors below are the only
// place that distinction is resolved.
type CartLine struct {
	ID          uint         `gorm:"primaryKey"`
	CartID      uint         `gorm:"index;not null"`
	Kind        CartLineKind `gorm:"size:10;not null"`
	MenuItemID  *uint
	MenuItem    *MenuItem
	CustomName  string `gorm:"size:100"`
	CustomPrice int64
	Quantity    int `gorm:"not null"` // never persisted as 0; a line hitting 0 is deleted
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName resolves the line's name. Catalog lines require MenuItem to be
// preloaded.
func (l CartLine) DisplayName() string {
	if l.Kind == CartLineCustom {
		return l.CustomName
	}
	if l.MenuItem != nil {
		return l.MenuItem.Name
	}
	return ""
}

// UnitPrice resolves the line's unit price in minor units. Catalog lines read
// the live catalog price; the checkout snapshot freezes it.
func (l CartLine) UnitPrice() int64 {
	if l.Kind == CartLineCustom {
		return l.CustomPrice
	}
	if l.MenuItem != nil {
		return l.MenuItem.Price
	}
	return 0
}
