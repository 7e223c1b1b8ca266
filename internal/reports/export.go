package reports

import (
	"github.com/xuri/excelize/v2"
)

var sheetHeaders = []string{
	"Bill No", "Staff", "Customer", "Phone", "Payment",
	"Subtotal", "Discount", "Total", "Time",
}

// DailySheet renders one business day's sale records into a spreadsheet.
// This is the external-renderer side of reporting; the aggregates themselves
// come from aggregator.go untouched.
func DailySheet(records []SaleRecord, businessDate string) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := setRow(f, sheet, 1, toAny(sheetHeaders)); err != nil {
		return nil, err
	}
	for i, rec := range records {
		values := []any{
			rec.BillNo,
			rec.StaffName,
			rec.CustomerName,
			rec.CustomerPhone,
			string(rec.PaymentMethod),
			rec.Subtotal,
			rec.Discount,
			rec.Total,
			rec.CreatedAt.Format("15:04:05"),
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return nil, err
		}
	}

	// Footer with the day's totals, matching what Daily() would report.
	var amount, discount int64
	for _, rec := range records {
		amount += rec.Total
		discount += rec.Discount
	}
	footer := []any{"TOTAL " + businessDate, "", "", "", "", "", discount, amount, ""}
	if err := setRow(f, sheet, len(records)+2, footer); err != nil {
		return nil, err
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
