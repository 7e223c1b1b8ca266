package reports

import (
	"testing"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"
	"pos-backend/internal/pos"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// settle drives a real settlement so the aggregates read exactly what the
// checkout path writes.
func settle(t *testing.T, db *gorm.DB, staff models.User, item models.MenuItem, qty int, discount int64, method models.PaymentMethod, now time.Time) *models.Sale {
	t.Helper()
	cart, err := pos.CreateCart(db, &staff.ID)
	require.NoError(t, err)
	require.NoError(t, pos.AddLine(db, cart.ID, pos.CatalogTarget{MenuItemID: item.ID}, qty))

	in := pos.CheckoutInput{
		CartID:        cart.ID,
		PaymentMethod: method,
		CustomerName:  "Walk-in",
		CustomerPhone: "9876543210",
		Discount:      discount,
		StaffID:       staff.ID,
	}
	if method.RequiresTxnRef() {
		in.TxnRef = "TXN-TEST"
	}
	sale, err := pos.Checkout(db, "TLA", in, now)
	require.NoError(t, err)
	return sale
}

type fixture struct {
	db     *gorm.DB
	asha   models.User
	bala   models.User
	ticket models.MenuItem
}

// seedTwoDays settles five sales across the 2024-03-05 and 2024-03-06
// business days and voids one of them:
//
//	03-05: asha CASH 580-50=530, asha UPI 1160, bala GPAY 580, bala CASH 580 (voided)
//	03-06: asha CASH 580
func seedTwoDays(t *testing.T) fixture {
	t.Helper()
	db := newTestDB(t)

	fx := fixture{
		db:   db,
		asha: models.User{Username: "asha", PasswordHash: "x", Role: models.RoleCashier, Active: true},
		bala: models.User{Username: "bala", PasswordHash: "x", Role: models.RoleCashier, Active: true},
	}
	require.NoError(t, db.Create(&fx.asha).Error)
	require.NoError(t, db.Create(&fx.bala).Error)
	fx.ticket = models.MenuItem{Name: "Full Ticket", Price: 580}
	require.NoError(t, db.Create(&fx.ticket).Error)

	day1 := time.Date(2024, 3, 5, 16, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 6, 16, 0, 0, 0, time.Local)

	settle(t, db, fx.asha, fx.ticket, 1, 50, models.PaymentCash, day1)
	settle(t, db, fx.asha, fx.ticket, 2, 0, models.PaymentUPI, day1.Add(time.Minute))
	settle(t, db, fx.bala, fx.ticket, 1, 0, models.PaymentGPay, day1.Add(2*time.Minute))
	voided := settle(t, db, fx.bala, fx.ticket, 1, 0, models.PaymentCash, day1.Add(3*time.Minute))
	settle(t, db, fx.asha, fx.ticket, 1, 0, models.PaymentCash, day2)

	_, err := pos.VoidSale(db, voided.ID)
	require.NoError(t, err)
	return fx
}

func TestDailyCountsOnlyCompletedSales(t *testing.T) {
	fx := seedTwoDays(t)

	got, err := Daily(fx.db, "2024-03-05", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Count, "the voided sale is excluded")
	assert.Equal(t, int64(530+1160+580), got.TotalAmount)
	assert.Equal(t, int64(50), got.TotalDiscount)
}

func TestDailyStaffFilter(t *testing.T) {
	fx := seedTwoDays(t)

	got, err := Daily(fx.db, "2024-03-05", &fx.asha.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Count)
	assert.Equal(t, int64(530+1160), got.TotalAmount)

	got, err = Daily(fx.db, "2024-03-05", &fx.bala.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Count, "the voided sale drops out of bala's figures")
	assert.Equal(t, int64(580), got.TotalAmount)
}

func TestDailyEmptyDateIsZeroNotError(t *testing.T) {
	fx := seedTwoDays(t)

	got, err := Daily(fx.db, "2024-04-01", nil)
	require.NoError(t, err)
	assert.Equal(t, DailyTotal{}, got)
}

func TestMonthlySpansBusinessDays(t *testing.T) {
	fx := seedTwoDays(t)

	got, err := Monthly(fx.db, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Count)
	assert.Equal(t, int64(530+1160+580+580), got.TotalAmount)

	got, err = Monthly(fx.db, 2024, time.April)
	require.NoError(t, err)
	assert.Equal(t, MonthlyTotal{}, got)
}

func TestPaymentBreakdown(t *testing.T) {
	fx := seedTwoDays(t)

	got, err := PaymentBreakdown(fx.db, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, map[models.PaymentMethod]int64{
		models.PaymentCash: 530,
		models.PaymentUPI:  1160,
		models.PaymentGPay: 580,
	}, got, "the voided CASH sale must not inflate the CASH bucket")
}

func TestStaffBreakdown(t *testing.T) {
	fx := seedTwoDays(t)

	got, err := StaffBreakdown(fx.db, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{
		fx.asha.ID: 530 + 1160,
		fx.bala.ID: 580,
	}, got)
}

func TestRecordsInBillOrderWithStaffNames(t *testing.T) {
	fx := seedTwoDays(t)

	recs, err := Records(fx.db, "2024-03-05")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "TLA-2024-0001", recs[0].BillNo)
	assert.Equal(t, "asha", recs[0].StaffName)
	assert.Equal(t, int64(580), recs[0].Subtotal)
	assert.Equal(t, int64(50), recs[0].Discount)
	assert.Equal(t, int64(530), recs[0].Total)

	assert.Equal(t, "TLA-2024-0002", recs[1].BillNo)
	assert.Equal(t, "TLA-2024-0003", recs[2].BillNo)
	assert.Equal(t, "bala", recs[2].StaffName)
}

func TestRecordsEmptyDate(t *testing.T) {
	fx := seedTwoDays(t)

	recs, err := Records(fx.db, "2024-04-01")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDailySheetLayout(t *testing.T) {
	recs := []SaleRecord{
		{
			BillNo:        "TLA-2024-0001",
			StaffName:     "asha",
			CustomerName:  "Walk-in",
			CustomerPhone: "9876543210",
			PaymentMethod: models.PaymentCash,
			Subtotal:      580,
			Discount:      50,
			Total:         530,
			CreatedAt:     time.Date(2024, 3, 5, 16, 0, 0, 0, time.Local),
		},
		{
			BillNo:        "TLA-2024-0002",
			StaffName:     "asha",
			CustomerName:  "Walk-in",
			CustomerPhone: "9876543210",
			PaymentMethod: models.PaymentUPI,
			Subtotal:      1160,
			Discount:      0,
			Total:         1160,
			CreatedAt:     time.Date(2024, 3, 5, 16, 1, 0, 0, time.Local),
		},
	}

	f, err := DailySheet(recs, "2024-03-05")
	require.NoError(t, err)
	sheet := f.GetSheetName(0)

	head, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Bill No", head)

	bill, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "TLA-2024-0001", bill)

	footerLabel, err := f.GetCellValue(sheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL 2024-03-05", footerLabel)

	footerTotal, err := f.GetCellValue(sheet, "H4")
	require.NoError(t, err)
	assert.Equal(t, "1690", footerTotal)
}
