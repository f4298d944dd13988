package digest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"claimcountdown.app/server/internal/digest"
	"claimcountdown.app/server/internal/model"
)

func value(v float64) *float64 {
	return &v
}

var _ = Describe("Builder", func() {
	var (
		builder *digest.Builder
		claims  []model.Claim
	)

	BeforeEach(func() {
		builder = digest.NewBuilder("https://app.example.com/")
		claims = []model.Claim{
			{SKU: "SKU-1", ProductName: "Widget", Reason: "Damaged", Quantity: 2, Value: value(10.50), DaysRemaining: 1},
			{SKU: "SKU-2", Reason: "Lost <inbound>", Quantity: 1, DaysRemaining: 6},
			{SKU: "SKU-3", Reason: "Misplaced", Quantity: 4, Value: value(5.25), DaysRemaining: 7},
		}
	})

	Describe("Subject", func() {
		It("counts claims and sums value with missing values as zero", func() {
			Expect(digest.Subject(claims)).To(Equal("3 FBA Claims Expiring Soon - $15.75 at Risk"))
		})

		It("uses the singular for one claim", func() {
			Expect(digest.Subject(claims[:1])).To(Equal("1 FBA Claim Expiring Soon - $10.50 at Risk"))
		})
	})

	Describe("AtRisk", func() {
		It("renders the claim table and links", func() {
			content, err := builder.AtRisk(model.AlertFrequencyWeekly, claims)
			Expect(err).NotTo(HaveOccurred())

			Expect(content.Subject).To(Equal("3 FBA Claims Expiring Soon - $15.75 at Risk"))
			Expect(content.HTML).To(ContainSubstring("Weekly Claims Digest"))
			Expect(content.HTML).To(ContainSubstring("$15.75"))
			Expect(content.HTML).To(ContainSubstring("Widget"))
			Expect(content.HTML).To(ContainSubstring("N/A"))
			Expect(content.HTML).To(ContainSubstring("1 day<"))
			Expect(content.HTML).To(ContainSubstring("7 days"))
			Expect(content.HTML).To(ContainSubstring("#dc2626"))
			Expect(content.HTML).To(ContainSubstring(`href="https://app.example.com/dashboard"`))
			Expect(content.HTML).To(ContainSubstring(`href="https://app.example.com/settings"`))
		})

		It("escapes claim text in HTML", func() {
			content, err := builder.AtRisk(model.AlertFrequencyWeekly, claims)
			Expect(err).NotTo(HaveOccurred())
			Expect(content.HTML).To(ContainSubstring("Lost &lt;inbound&gt;"))
			Expect(content.HTML).NotTo(ContainSubstring("<inbound>"))
		})

		It("labels daily digests", func() {
			content, err := builder.AtRisk(model.AlertFrequencyDaily, claims)
			Expect(err).NotTo(HaveOccurred())
			Expect(content.HTML).To(ContainSubstring("Daily Claims Digest"))
		})

		It("renders a plain text body", func() {
			content, err := builder.AtRisk(model.AlertFrequencyWeekly, claims)
			Expect(err).NotTo(HaveOccurred())
			Expect(content.Text).To(ContainSubstring("CLAIMS EXPIRING SOON"))
			Expect(content.Text).To(ContainSubstring("TOTAL VALUE AT RISK: $15.75"))
			Expect(content.Text).To(ContainSubstring("- SKU: SKU-2 | Lost <inbound> | Qty: 1 | Value: $0.00 | Days Left: 6"))
		})
	})

	Describe("Test", func() {
		It("previews at most three claims", func() {
			more := append(claims, model.Claim{SKU: "SKU-4", Reason: "Lost", DaysRemaining: 9})
			content, err := builder.Test(more)
			Expect(err).NotTo(HaveOccurred())
			Expect(content.Subject).To(Equal(digest.TestSubject))
			Expect(content.HTML).To(ContainSubstring("SKU-3"))
			Expect(content.HTML).NotTo(ContainSubstring("SKU-4"))
		})

		It("renders the empty state with no claims", func() {
			content, err := builder.Test(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(content.Subject).To(Equal("Test Email - ClaimCountdown"))
			Expect(content.HTML).To(ContainSubstring("You don&#39;t have any claims yet. Upload a CSV to start tracking!"))
			Expect(content.Text).To(ContainSubstring(digest.EmptyMessage))
			Expect(content.Text).NotTo(ContainSubstring("TOTAL VALUE AT RISK"))
		})
	})
})
