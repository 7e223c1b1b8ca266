package pos

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pos-backend/internal/businessday"
	"pos-backend/internal/models"

	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// CheckoutInput carries everything the cashier supplies at settlement.
type CheckoutInput struct {
	CartID        uint
	PaymentMethod models.PaymentMethod
	CustomerName  string
	CustomerPhone string
	TxnRef        string
	Discount      int64 // requested; clamped by ApplyDiscount
	StaffID       uint
}

func (in *CheckoutInput) validate() error {
	if !in.PaymentMethod.Valid() {
		return fmt.Errorf("%w: payment method must be one of CASH, UPI, GPAY, ONLINE, MIXED", ErrValidation)
	}
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if !phonePattern.MatchString(in.CustomerPhone) {
		return fmt.Errorf("%w: customer phone must be exactly 10 digits", ErrValidation)
	}
	in.TxnRef = strings.TrimSpace(in.TxnRef)
	if in.PaymentMethod.RequiresTxnRef() && in.TxnRef == "" {
		return fmt.Errorf("%w: transaction reference is required for %s payments", ErrValidation, in.PaymentMethod)
	}
	if in.StaffID == 0 {
		return fmt.Errorf("%w: staff id is required", ErrValidation)
	}
	return nil
}

// Checkout settles an ACTIVE cart into a COMPLETED sale as one atomic unit:
// price the lines, clamp the discount, allocate the bill number, snapshot
// the lines and mark the cart PAID. Any failure rolls the whole unit back,
// leaving the cart ACTIVE and the bill number unconsumed.
//
// The cart is claimed (ACTIVE -> PAID) with a version CAS before anything is
// written, so of two concurrent checkouts on the same cart exactly one
// commits; the loser observes the cart already settled.
func Checkout(db *gorm.DB, billPrefix string, in CheckoutInput, now time.Time) (*models.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var staff models.User
		if err := tx.First(&staff, in.StaffID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: staff %d", ErrNotFound, in.StaffID)
			}
			return err
		}
		if !staff.Active {
			return fmt.Errorf("%w: staff %s is deactivated", ErrValidation, staff.Username)
		}

		var cart models.Cart
		err := tx.
			Preload("Lines", func(q *gorm.DB) *gorm.DB { return q.Order("id asc") }).
			Preload("Lines.MenuItem").
			First(&cart, in.CartID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cart %d", ErrNotFound, in.CartID)
			}
			return err
		}
		if cart.Status != models.CartStatusActive {
			return fmt.Errorf("%w: cart %d is %s, only ACTIVE carts can be settled", ErrInvalidState, cart.ID, cart.Status)
		}
		if len(cart.Lines) == 0 {
			return fmt.Errorf("%w: cart %d", ErrEmptyCart, cart.ID)
		}

		// Claim the cart before writing anything. Losing this CAS means a
		// concurrent settlement already won.
		claimErr := casUpdate(tx, &cart, map[string]any{
			"status":         models.CartStatusPaid,
			"customer_name":  in.CustomerName,
			"customer_phone": in.CustomerPhone,
		})
		if claimErr != nil {
			if errors.Is(claimErr, ErrConflict) {
				var cur models.Cart
				if err := tx.First(&cur, cart.ID).Error; err == nil && cur.Status == models.CartStatusPaid {
					return fmt.Errorf("%w: cart %d is already settled", ErrInvalidState, cart.ID)
				}
			}
			return claimErr
		}

		var subtotal int64
		items := make([]models.SaleItem, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			unit := line.UnitPrice()
			lineSubtotal := unit * int64(line.Quantity)
			subtotal += lineSubtotal
			items = append(items, models.SaleItem{
				Name:      line.DisplayName(),
				Quantity:  line.Quantity,
				UnitPrice: unit,
				Subtotal:  lineSubtotal,
			})
		}

		discount, err := ApplyDiscount(subtotal, in.Discount)
		if err != nil {
			return err
		}

		billNo, err := NextBillNumber(tx, billPrefix, now)
		if err != nil {
			return err
		}

		sale = models.Sale{
			BillNo:        billNo,
			CartID:        cart.ID,
			Subtotal:      subtotal,
			Discount:      discount,
			Total:         subtotal - discount,
			PaymentMethod: in.PaymentMethod,
			TxnRef:        in.TxnRef,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			StaffID:       staff.ID,
			BusinessDate:  businessday.Label(now),
			Status:        models.SaleStatusCompleted,
			Items:         items,
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// VoidSale flips a COMPLETED sale to VOID. Amounts and the bill number stay
// exactly as issued; a voided bill keeps its number forever. Privileged.
func VoidSale(db *gorm.DB, saleID uint) (*models.Sale, error) {
	var sale models.Sale
	if err := db.Preload("Items").First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sale %d", ErrNotFound, saleID)
		}
		return nil, err
	}
	if sale.Status != models.SaleStatusCompleted {
		return nil, fmt.Errorf("%w: sale %d is %s", ErrInvalidState, saleID, sale.Status)
	}

	res := db.Model(&models.Sale{}).
		Where("id = ? AND status = ?", saleID, models.SaleStatusCompleted).
		Update("status", models.SaleStatusVoid)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: sale %d changed underneath us", ErrConflict, saleID)
	}

	sale.Status = models.SaleStatusVoid
	return &sale, nil
}

// GetSale loads a sale with its snapshot items.
func GetSale(db *gorm.DB, saleID uint) (*models.Sale, error) {
	var sale models.Sale
	if err := db.Preload("Items").Preload("Staff").First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sale %d", ErrNotFound, saleID)
		}
		return nil, err
	}
	return &sale, nil
}
