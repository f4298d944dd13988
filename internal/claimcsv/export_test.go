package claimcsv_test

import (
	"bytes"
	"encoding/csv"
	"strings"

	"cloud.google.com/go/civil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"claimcountdown.app/server/internal/claimcsv"
	"claimcountdown.app/server/internal/model"
)

var _ = Describe("Export", func() {
	value := 12.5

	claims := []model.Claim{
		{
			ID:             1,
			SKU:            "SKU-1",
			FNSKU:          "X001",
			Reason:         "Damaged, crushed",
			Quantity:       2,
			Value:          &value,
			AdjustmentDate: civil.Date{Year: 2024, Month: 1, Day: 15},
			DeadlineDate:   civil.Date{Year: 2024, Month: 3, Day: 15},
			DaysRemaining:  10,
			Status:         model.ClaimStatusSubmitted,
		},
		{
			ID:             2,
			SKU:            `Say "hi"`,
			Reason:         "Lost",
			AdjustmentDate: civil.Date{Year: 2023, Month: 1, Day: 1},
			DeadlineDate:   civil.Date{Year: 2023, Month: 3, Day: 2},
			DaysRemaining:  -5,
			IsExpired:      true,
			Status:         model.ClaimStatusPending,
		},
	}

	It("writes a header and one row per claim", func() {
		var buf bytes.Buffer
		Expect(claimcsv.Export(&buf, claims)).To(Succeed())

		records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(3))
		Expect(records[0]).To(Equal(claimcsv.ExportHeader))
		Expect(records[1]).To(Equal([]string{
			"SKU-1", "X001", "Damaged, crushed", "2", "2024-01-15", "2024-03-15", "10", "submitted", "12.50",
		}))
		Expect(records[2]).To(Equal([]string{
			`Say "hi"`, "", "Lost", "0", "2023-01-01", "2023-03-02", "Expired", "pending", "0.00",
		}))
	})

	It("quotes fields containing commas and quotes", func() {
		var buf bytes.Buffer
		Expect(claimcsv.Export(&buf, claims)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"Damaged, crushed"`))
		Expect(buf.String()).To(ContainSubstring(`"Say ""hi"""`))
	})

	It("writes only the header for no claims", func() {
		var buf bytes.Buffer
		Expect(claimcsv.Export(&buf, nil)).To(Succeed())
		Expect(buf.String()).To(Equal(strings.Join(claimcsv.ExportHeader, ",") + "\n"))
	})

	It("names the export after the day", func() {
		Expect(claimcsv.ExportFilename(civil.Date{Year: 2024, Month: 6, Day: 1})).
			To(Equal("claimcountdown-export-2024-06-01.csv"))
	})
})
