package reports

import (
	"fmt"
	"time"

	"pos-backend/internal/businessday"
	"pos-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// parseBusinessDate reads the ?date= query, defaulting to the business day
// of the current instant (recomputed per request, never cached).
func parseBusinessDate(c *fiber.Ctx) (string, error) {
	s := c.Query("date")
	if s == "" {
		return businessday.Label(time.Now()), nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return s, nil
}

// GET /api/reports/daily?date=2024-03-05&staff_id=2
func DailyTotalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := parseBusinessDate(c)
		if err != nil {
			return err
		}

		var staffID *uint
		if s := c.QueryInt("staff_id", 0); s > 0 {
			id := uint(s)
			staffID = &id
		}

		total, err := Daily(database.DB, date, staffID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute daily total")
		}

		return c.JSON(fiber.Map{
			"business_date":  date,
			"count":          total.Count,
			"total_amount":   total.TotalAmount,
			"total_discount": total.TotalDiscount,
		})
	}
}

// GET /api/reports/monthly?year=2024&month=3
func MonthlyTotalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year", 0)
		month := c.QueryInt("month", 0)
		if year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year is invalid")
		}
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month is invalid")
		}

		total, err := Monthly(database.DB, year, time.Month(month))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute monthly total")
		}

		return c.JSON(fiber.Map{
			"year":         year,
			"month":        month,
			"count":        total.Count,
			"total_amount": total.TotalAmount,
		})
	}
}

// GET /api/reports/daily/payments?date=2024-03-05
func PaymentBreakdownHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := parseBusinessDate(c)
		if err != nil {
			return err
		}

		breakdown, err := PaymentBreakdown(database.DB, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute payment breakdown")
		}

		return c.JSON(fiber.Map{
			"business_date": date,
			"by_method":     breakdown,
		})
	}
}

// GET /api/reports/daily/staff?date=2024-03-05
func StaffBreakdownHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := parseBusinessDate(c)
		if err != nil {
			return err
		}

		breakdown, err := StaffBreakdown(database.DB, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute staff breakdown")
		}

		return c.JSON(fiber.Map{
			"business_date": date,
			"by_staff":      breakdown,
		})
	}
}

// GET /api/reports/daily/sales?date=2024-03-05
func SaleRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := parseBusinessDate(c)
		if err != nil {
			return err
		}

		recs, err := Records(database.DB, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		return c.JSON(recs)
	}
}

// GET /api/reports/daily/export?date=2024-03-05
// The sheet is built from one read transaction so an in-flight checkout can
// never appear half-counted between rows and footer.
func DailyExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := parseBusinessDate(c)
		if err != nil {
			return err
		}

		var recs []SaleRecord
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			recs, txErr = Records(tx, date)
			return txErr
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		f, err := DailySheet(recs, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build spreadsheet")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write spreadsheet")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="sales-%s.xlsx"`, date))
		return c.Send(buf.Bytes())
	}
}
