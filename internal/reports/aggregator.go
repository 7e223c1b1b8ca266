package reports

import (
	"time"

	"pos-backend/internal/models"

	"gorm.io/gorm"
)

// Read-side rollups over settled sales. Every query here is restricted to
// COMPLETED sales, runs as a single statement (or inside the caller's
// read transaction for multi-query reports) and never mutates state.
// Periods with no sales come back zero-valued, not as errors.

type DailyTotal struct {
	Count         int64 `json:"count"`
	TotalAmount   int64 `json:"total_amount"`
	TotalDiscount int64 `json:"total_discount"`
}

// Daily returns the rollup for one business date, optionally restricted to
// a single cashier.
func Daily(db *gorm.DB, businessDate string, staffID *uint) (DailyTotal, error) {
	var t DailyTotal
	q := db.Model(&models.Sale{}).
		Where("status = ? AND business_date = ?", models.SaleStatusCompleted, businessDate)
	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}
	err := q.
		Select("COUNT(*) as count, COALESCE(SUM(total), 0) as total_amount, COALESCE(SUM(discount), 0) as total_discount").
		Scan(&t).Error
	return t, err
}

type MonthlyTotal struct {
	Count       int64 `json:"count"`
	TotalAmount int64 `json:"total_amount"`
}

// Monthly totals sales whose business date falls inside the calendar month.
func Monthly(db *gorm.DB, year int, month time.Month) (MonthlyTotal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from := start.Format("2006-01-02")
	to := start.AddDate(0, 1, 0).Format("2006-01-02")

	var t MonthlyTotal
	err := db.Model(&models.Sale{}).
		Where("status = ? AND business_date >= ? AND business_date < ?", models.SaleStatusCompleted, from, to).
		Select("COUNT(*) as count, COALESCE(SUM(total), 0) as total_amount").
		Scan(&t).Error
	return t, err
}

// PaymentBreakdown maps each payment method used on the business date to its
// total amount.
func PaymentBreakdown(db *gorm.DB, businessDate string) (map[models.PaymentMethod]int64, error) {
	type row struct {
		PaymentMethod string `gorm:"column:payment_method"`
		Amount        int64  `gorm:"column:amount"`
	}
	var rows []row
	err := db.Model(&models.Sale{}).
		Select("payment_method, SUM(total) as amount").
		Where("status = ? AND business_date = ?", models.SaleStatusCompleted, businessDate).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[models.PaymentMethod]int64, len(rows))
	for _, r := range rows {
		out[models.PaymentMethod(r.PaymentMethod)] = r.Amount
	}
	return out, nil
}

// StaffBreakdown maps each cashier who settled sales on the business date to
// their total amount.
func StaffBreakdown(db *gorm.DB, businessDate string) (map[uint]int64, error) {
	type row struct {
		StaffID uint  `gorm:"column:staff_id"`
		Amount  int64 `gorm:"column:amount"`
	}
	var rows []row
	err := db.Model(&models.Sale{}).
		Select("staff_id, SUM(total) as amount").
		Where("status = ? AND business_date = ?", models.SaleStatusCompleted, businessDate).
		Group("staff_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.StaffID] = r.Amount
	}
	return out, nil
}

// SaleRecord is the plain row handed to external renderers.
type SaleRecord struct {
	BillNo        string               `json:"bill_no"`
	StaffName     string               `json:"staff_name"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Subtotal      int64                `json:"subtotal"`
	Discount      int64                `json:"discount"`
	Total         int64                `json:"total"`
	CreatedAt     time.Time            `json:"timestamp"`
}

// Records lists the COMPLETED sales of one business date in bill order.
func Records(db *gorm.DB, businessDate string) ([]SaleRecord, error) {
	recs := make([]SaleRecord, 0)
	err := db.Model(&models.Sale{}).
		Select("sales.bill_no, users.username as staff_name, sales.customer_name, sales.customer_phone, sales.payment_method, sales.subtotal, sales.discount, sales.total, sales.created_at").
		Joins("JOIN users ON users.id = sales.staff_id").
		Where("sales.status = ? AND sales.business_date = ?", models.SaleStatusCompleted, businessDate).
		Order("sales.bill_no asc").
		Scan(&recs).Error
	return recs, err
}
