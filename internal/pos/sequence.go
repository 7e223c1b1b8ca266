package pos

import (
	"errors"
	"fmt"
	"time"

	"pos-backend/internal/models"

	"gorm.io/gorm"
)

// NextBillNumber allocates the next bill number for now's calendar year,
// formatted PREFIX-YYYY-NNNN with a 4-digit sequence restarting at 0001
// each year.
//
// It must run inside the caller's settlement transaction so the allocation
// commits or rolls back together with the Sale row. The counter row is
// advanced with a compare-and-swap on last_seq, never a read followed by a
// blind write, so two settlements cannot both claim the same number. The
// unique index on sales.bill_no is the final backstop.
func NextBillNumber(tx *gorm.DB, prefix string, now time.Time) (string, error) {
	year := now.Year()

	for attempt := 0; attempt < 2; attempt++ {
		var seq models.BillSequence
		err := tx.Where("prefix = ? AND year = ?", prefix, year).First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = models.BillSequence{Prefix: prefix, Year: year, LastSeq: 1}
			if createErr := tx.Create(&seq).Error; createErr != nil {
				// Lost the race to create this year's row; reread and CAS.
				continue
			}
			return formatBillNo(prefix, year, 1), nil
		}
		if err != nil {
			return "", err
		}

		res := tx.Model(&models.BillSequence{}).
			Where("id = ? AND last_seq = ?", seq.ID, seq.LastSeq).
			Update("last_seq", seq.LastSeq+1)
		if res.Error != nil {
			return "", res.Error
		}
		if res.RowsAffected == 1 {
			return formatBillNo(prefix, year, seq.LastSeq+1), nil
		}
	}

	return "", fmt.Errorf("%w: bill number allocation for %s-%d", ErrConflict, prefix, year)
}

func formatBillNo(prefix string, year, n int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, n)
}
