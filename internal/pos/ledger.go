package pos

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/businessday"
	"pos-backend/internal/models"

	"gorm.io/gorm"
)

// LineTarget identifies what a cashier is adding to a cart: a catalog item
// or a one-off custom line carrying its own name and price. The two forms
// are a closed set; nothing else implements the interface.
type LineTarget interface {
	lineTarget()
}

type CatalogTarget struct {
	MenuItemID uint
}

type CustomTarget struct {
	Name  string
	Price int64 // minor units
}

func (CatalogTarget) lineTarget() {}
func (CustomTarget) lineTarget()  {}

// CreateCart opens a new ACTIVE cart for the given cashier.
func CreateCart(db *gorm.DB, staffID *uint) (*models.Cart, error) {
	cart := models.Cart{
		Status:  models.CartStatusActive,
		StaffID: staffID,
	}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart loads a cart with its lines (catalog references resolved).
func GetCart(db *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("Lines.MenuItem").
		First(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
		}
		return nil, err
	}
	return &cart, nil
}

// AddLine adds qty of the target to an ACTIVE cart. A catalog target that
// matches an existing catalog line increments it; a custom target is always
// appended as a new line, never merged. qty of 0 means the caller's
// increment-by-one convention.
func AddLine(db *gorm.DB, cartID uint, target LineTarget, qty int) error {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return fmt.Errorf("%w: quantity delta must be positive", ErrValidation)
	}
	return withRetry(func() error { return addLineOnce(db, cartID, target, qty) })
}

func addLineOnce(db *gorm.DB, cartID uint, target LineTarget, qty int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cart, err := requireCart(tx, cartID)
		if err != nil {
			return err
		}
		if cart.Status != models.CartStatusActive {
			return fmt.Errorf("%w: cart %d is %s, lines can only change while ACTIVE", ErrInvalidState, cartID, cart.Status)
		}

		switch tg := target.(type) {
		case CatalogTarget:
			var item models.MenuItem
			if err := tx.First(&item, tg.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: menu item %d", ErrNotFound, tg.MenuItemID)
				}
				return err
			}

			var line models.CartLine
			err := tx.Where("cart_id = ? AND kind = ? AND menu_item_id = ?",
				cartID, models.CartLineCatalog, tg.MenuItemID).First(&line).Error
			switch {
			case err == nil:
				line.Quantity += qty
				if err := tx.Save(&line).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				itemID := tg.MenuItemID
				line = models.CartLine{
					CartID:     cartID,
					Kind:       models.CartLineCatalog,
					MenuItemID: &itemID,
					Quantity:   qty,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			default:
				return err
			}

		case CustomTarget:
			name := strings.TrimSpace(tg.Name)
			if name == "" {
				return fmt.Errorf("%w: custom line needs a name", ErrValidation)
			}
			if tg.Price < 0 {
				return fmt.Errorf("%w: custom line price must not be negative", ErrValidation)
			}
			line := models.CartLine{
				CartID:      cartID,
				Kind:        models.CartLineCustom,
				CustomName:  name,
				CustomPrice: tg.Price,
				Quantity:    qty,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: unknown line target", ErrValidation)
		}

		return casTouch(tx, cart)
	})
}

// RemoveLine decrements a line by qty, deleting it when it reaches zero.
// Removing a line that does not exist is a no-op.
func RemoveLine(db *gorm.DB, cartID, lineID uint, qty int) error {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return fmt.Errorf("%w: quantity delta must be positive", ErrValidation)
	}
	return withRetry(func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			cart, err := requireCart(tx, cartID)
			if err != nil {
				return err
			}
			if cart.Status != models.CartStatusActive {
				return fmt.Errorf("%w: cart %d is %s, lines can only change while ACTIVE", ErrInvalidState, cartID, cart.Status)
			}

			var line models.CartLine
			err = tx.Where("id = ? AND cart_id = ?", lineID, cartID).First(&line).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			line.Quantity -= qty
			if line.Quantity <= 0 {
				if err := tx.Delete(&line).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Save(&line).Error; err != nil {
					return err
				}
			}
			return casTouch(tx, cart)
		})
	})
}

// Hold suspends an ACTIVE cart, optionally stamping who it is for.
func Hold(db *gorm.DB, cartID uint, customerName, customerPhone string) error {
	return withRetry(func() error {
		cart, err := requireCart(db, cartID)
		if err != nil {
			return err
		}
		if cart.Status != models.CartStatusActive {
			return fmt.Errorf("%w: only an ACTIVE cart can be held (cart %d is %s)", ErrInvalidState, cartID, cart.Status)
		}

		updates := map[string]any{"status": models.CartStatusHold}
		if name := strings.TrimSpace(customerName); name != "" {
			updates["customer_name"] = name
		}
		if phone := strings.TrimSpace(customerPhone); phone != "" {
			updates["customer_phone"] = phone
		}
		return casUpdate(db, cart, updates)
	})
}

// ListHeld returns the HOLD carts belonging to now's business day. Held
// carts from an earlier business day are expired in passing: there is no
// background sweeper, EXPIRED is always derived at the read path.
func ListHeld(db *gorm.DB, now time.Time) ([]models.Cart, error) {
	var held []models.Cart
	err := db.
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("Lines.MenuItem").
		Where("status = ?", models.CartStatusHold).
		Order("created_at asc").
		Find(&held).Error
	if err != nil {
		return nil, err
	}

	current := make([]models.Cart, 0, len(held))
	for i := range held {
		cart := held[i]
		if businessday.SameDay(cart.CreatedAt, now) {
			current = append(current, cart)
			continue
		}
		// Losing the expiry race to another reader is fine, the cart ends up
		// EXPIRED either way.
		if err := expire(db, &cart); err != nil && !errors.Is(err, ErrConflict) {
			return nil, err
		}
	}
	return current, nil
}

// Resume re-activates a held cart if the business day has not rolled over.
// A rolled-over cart is expired on the spot and the call fails.
func Resume(db *gorm.DB, cartID uint, now time.Time) error {
	return withRetry(func() error {
		cart, err := requireCart(db, cartID)
		if err != nil {
			return err
		}
		switch cart.Status {
		case models.CartStatusHold:
			// fall through to the expiry check
		case models.CartStatusExpired:
			return fmt.Errorf("%w: cart %d", ErrExpired, cartID)
		default:
			return fmt.Errorf("%w: cart %d is %s, only HOLD carts resume", ErrInvalidState, cartID, cart.Status)
		}

		if !businessday.SameDay(cart.CreatedAt, now) {
			if err := expire(db, cart); err != nil && !errors.Is(err, ErrConflict) {
				return err
			}
			return fmt.Errorf("%w: cart %d was held on business day %s", ErrExpired, cartID, businessday.Label(cart.CreatedAt))
		}
		return casUpdate(db, cart, map[string]any{"status": models.CartStatusActive})
	})
}

// AdminOverrideResume is the privileged EXPIRED -> ACTIVE edge. The cart is
// reactivated in place; expiry never touched the lines, so contents and
// quantities come back exactly as held.
func AdminOverrideResume(db *gorm.DB, cartID uint) error {
	return withRetry(func() error {
		cart, err := requireCart(db, cartID)
		if err != nil {
			return err
		}
		if cart.Status != models.CartStatusExpired {
			return fmt.Errorf("%w: override resume applies to EXPIRED carts only (cart %d is %s)", ErrInvalidState, cartID, cart.Status)
		}
		return casUpdate(db, cart, map[string]any{"status": models.CartStatusActive})
	})
}

// Discard purges a HOLD cart and its lines. Privileged.
func Discard(db *gorm.DB, cartID uint) error {
	return withRetry(func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			cart, err := requireCart(tx, cartID)
			if err != nil {
				return err
			}
			if cart.Status != models.CartStatusHold {
				return fmt.Errorf("%w: only HOLD carts can be discarded (cart %d is %s)", ErrInvalidState, cartID, cart.Status)
			}

			res := tx.Where("id = ? AND version = ?", cart.ID, cart.Version).Delete(&models.Cart{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: cart %d changed underneath us", ErrConflict, cartID)
			}
			return tx.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error
		})
	})
}

func requireCart(tx *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
		}
		return nil, err
	}
	return &cart, nil
}

func expire(db *gorm.DB, cart *models.Cart) error {
	return casUpdate(db, cart, map[string]any{"status": models.CartStatusExpired})
}

// casUpdate applies updates guarded by the cart's version: the write only
// lands if no other writer advanced the version since our read.
func casUpdate(tx *gorm.DB, cart *models.Cart, updates map[string]any) error {
	updates["version"] = cart.Version + 1
	res := tx.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: cart %d changed underneath us", ErrConflict, cart.ID)
	}
	cart.Version++
	if s, ok := updates["status"].(models.CartStatus); ok {
		cart.Status = s
	}
	return nil
}

// casTouch bumps the version without changing status, so a line mutation
// still invalidates any concurrent transition working from a stale read.
func casTouch(tx *gorm.DB, cart *models.Cart) error {
	return casUpdate(tx, cart, map[string]any{})
}

// withRetry reruns the operation once after a version conflict; the rerun
// starts from a fresh read. A second conflict surfaces to the caller.
func withRetry(op func() error) error {
	err := op()
	if errors.Is(err, ErrConflict) {
		err = op()
	}
	return err
}
