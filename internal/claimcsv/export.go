package claimcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/internal/model"
)

var ExportHeader = []string{
	"SKU",
	"FNSKU",
	"Reason",
	"Quantity",
	"Adjusted Date",
	"Deadline",
	"Days Remaining",
	"Status",
	"Estimated Value",
}

// Export writes claims as CSV. Fields containing commas, quotes or newlines
// are quoted by encoding/csv.
func Export(w io.Writer, claims []model.Claim) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range claims {
		c := &claims[i]
		days := strconv.Itoa(c.DaysRemaining)
		if c.IsExpired {
			days = "Expired"
		}
		status := string(c.Status)
		if status == "" {
			status = string(model.ClaimStatusPending)
		}

		record := []string{
			c.SKU,
			c.FNSKU,
			c.Reason,
			strconv.Itoa(c.Quantity),
			c.AdjustmentDate.String(),
			c.DeadlineDate.String(),
			days,
			status,
			strconv.FormatFloat(c.ValueOrZero(), 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing claim %d: %w", c.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportFilename(today civil.Date) string {
	return fmt.Sprintf("claimcountdown-export-%s.csv", today.String())
}
