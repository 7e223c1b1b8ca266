package pos

import (
	"testing"
	"time"

	"pos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput(cartID, staffID uint) CheckoutInput {
	return CheckoutInput{
		CartID:        cartID,
		PaymentMethod: models.PaymentCash,
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		StaffID:       staffID,
	}
}

func TestCheckoutFullTicketScenario(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Full Ticket", 580)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 2))

	now := time.Date(2024, 3, 5, 18, 30, 0, 0, time.Local)
	in := validInput(cart.ID, staff.ID)
	in.Discount = 100

	sale, err := Checkout(db, "TLA", in, now)
	require.NoError(t, err)

	assert.Equal(t, "TLA-2024-0001", sale.BillNo, "first sale of the year")
	assert.Equal(t, int64(1160), sale.Subtotal)
	assert.Equal(t, int64(100), sale.Discount)
	assert.Equal(t, int64(1060), sale.Total)
	assert.Equal(t, models.PaymentCash, sale.PaymentMethod)
	assert.Equal(t, "2024-03-05", sale.BusinessDate)
	assert.Equal(t, models.SaleStatusCompleted, sale.Status)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Full Ticket", sale.Items[0].Name)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.Equal(t, int64(580), sale.Items[0].UnitPrice)
	assert.Equal(t, int64(1160), sale.Items[0].Subtotal)

	got, err := GetCart(db, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CartStatusPaid, got.Status)
	assert.Equal(t, "Asha", got.CustomerName)
}

func TestCheckoutEarlyMorningBelongsToPreviousBusinessDay(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Half Ticket", 300)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	now := time.Date(2024, 3, 6, 2, 0, 0, 0, time.Local)
	sale, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", sale.BusinessDate)
}

func TestCheckoutValidation(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Half Ticket", 300)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	cases := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"unknown payment method", func(in *CheckoutInput) { in.PaymentMethod = "CHEQUE" }},
		{"blank customer name", func(in *CheckoutInput) { in.CustomerName = "   " }},
		{"short phone", func(in *CheckoutInput) { in.CustomerPhone = "12345" }},
		{"non-numeric phone", func(in *CheckoutInput) { in.CustomerPhone = "98765xyz10" }},
		{"missing staff", func(in *CheckoutInput) { in.StaffID = 0 }},
		{"negative discount", func(in *CheckoutInput) { in.Discount = -5 }},
		{"UPI without txn ref", func(in *CheckoutInput) { in.PaymentMethod = models.PaymentUPI }},
		{"ONLINE without txn ref", func(in *CheckoutInput) { in.PaymentMethod = models.PaymentOnline }},
		{"MIXED without txn ref", func(in *CheckoutInput) { in.PaymentMethod = models.PaymentMixed }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(cart.ID, staff.ID)
			tc.mutate(&in)
			_, err := Checkout(db, "TLA", in, time.Now())
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	// Every rejected attempt left the cart untouched.
	got, err := GetCart(db, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CartStatusActive, got.Status)

	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)
}

func TestCheckoutGPayNeedsNoTxnRef(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Half Ticket", 300)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	in := validInput(cart.ID, staff.ID)
	in.PaymentMethod = models.PaymentGPay

	sale, err := Checkout(db, "TLA", in, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentGPay, sale.PaymentMethod)
	assert.Empty(t, sale.TxnRef)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	cart := newActiveCart(t, db, staff.ID)

	_, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.ErrorIs(t, err, ErrEmptyCart)

	got, gerr := GetCart(db, cart.ID)
	require.NoError(t, gerr)
	assert.Equal(t, models.CartStatusActive, got.Status)
}

func TestCheckoutUnknownCart(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")

	_, err := Checkout(db, "TLA", validInput(999, staff.ID), time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutInactiveStaff(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	require.NoError(t, db.Model(&staff).Update("active", false).Error)

	item := seedMenuItem(t, db, "Half Ticket", 300)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	_, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutRejectsHeldCart(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Half Ticket", 300)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))
	require.NoError(t, Hold(db, cart.ID, "", ""))

	_, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSecondCheckoutObservesPaidCart(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Half Ticket", 300)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	_, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.NoError(t, err)

	_, err = Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.ErrorIs(t, err, ErrInvalidState)

	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Where("cart_id = ?", cart.ID).Count(&saleCount).Error)
	assert.Equal(t, int64(1), saleCount, "exactly one settlement per cart")
}

func TestCheckoutSnapshotSurvivesCatalogEdit(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Full Ticket", 580)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	sale, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.NoError(t, err)

	require.NoError(t, db.Model(&item).Update("price", 9999).Error)

	got, err := GetSale(db, sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(580), got.Items[0].UnitPrice, "snapshot is a value copy, not a live join")
	assert.Equal(t, int64(580), got.Subtotal)
}

func TestCheckoutMixedCatalogAndCustomLines(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Full Ticket", 580)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))
	require.NoError(t, AddLine(db, cart.ID, CustomTarget{Name: "Parking", Price: 50}, 2))

	sale, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(680), sale.Subtotal)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "Parking", sale.Items[1].Name)
	assert.Equal(t, int64(50), sale.Items[1].UnitPrice)
	assert.Equal(t, int64(100), sale.Items[1].Subtotal)
}

func TestCheckoutDiscountClampedToSubtotal(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Three Ticket", 150)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	in := validInput(cart.ID, staff.ID)
	in.Discount = 10_000

	sale, err := Checkout(db, "TLA", in, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(150), sale.Discount)
	assert.Equal(t, int64(0), sale.Total)
}

func TestCheckoutBillNumbersAdvancePerSale(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Half Ticket", 300)
	now := time.Date(2024, 3, 5, 18, 0, 0, 0, time.Local)

	for i, want := range []string{"TLA-2024-0001", "TLA-2024-0002", "TLA-2024-0003"} {
		cart := newActiveCart(t, db, staff.ID)
		require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))
		sale, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, want, sale.BillNo)
	}
}

func TestVoidSale(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "cashier1")
	item := seedMenuItem(t, db, "Half Ticket", 300)
	cart := newActiveCart(t, db, staff.ID)
	require.NoError(t, AddLine(db, cart.ID, CatalogTarget{MenuItemID: item.ID}, 1))

	sale, err := Checkout(db, "TLA", validInput(cart.ID, staff.ID), time.Now())
	require.NoError(t, err)

	voided, err := VoidSale(db, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusVoid, voided.Status)
	assert.Equal(t, sale.BillNo, voided.BillNo, "void never reclaims the bill number")
	assert.Equal(t, sale.Total, voided.Total, "void never alters amounts")

	_, err = VoidSale(db, sale.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestVoidUnknownSale(t *testing.T) {
	db := newTestDB(t)

	_, err := VoidSale(db, 404)
	require.ErrorIs(t, err, ErrNotFound)
}
