package model

import (
	"cmp"
	"math"
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/internal/deadline"
)

// AtRiskWindowDays is the look-ahead used for "expiring soon" stats and digests.
const AtRiskWindowDays = 7

type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusSubmitted ClaimStatus = "submitted"
	ClaimStatusApproved  ClaimStatus = "approved"
	ClaimStatusRejected  ClaimStatus = "rejected"
)

// IsValid reports whether s is one of the four workflow states. Any state may
// move to any other.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusSubmitted, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
	UrgencyExpired  Urgency = "expired"
)

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow, UrgencyExpired:
		return true
	}
	return false
}

// ClaimCandidate is a validated CSV row that has not been persisted yet.
type ClaimCandidate struct {
	SKU                 string
	FNSKU               string
	ASIN                string
	ProductName         string
	FulfillmentCenterID string
	DetailedDisposition string
	Reason              string
	Quantity            int
	Currency            string
	Value               float64
	AdjustmentDate      civil.Date
	DeadlineDate        civil.Date
}

type Claim struct {
	ID                  int64       `json:"id"`
	OrganizationID      int64       `json:"organization_id"`
	UploadedBy          int64       `json:"uploaded_by"`
	SKU                 string      `json:"sku"`
	FNSKU               string      `json:"fnsku"`
	ASIN                string      `json:"asin"`
	ProductName         string      `json:"product_name"`
	FulfillmentCenterID string      `json:"fulfillment_center_id"`
	DetailedDisposition string      `json:"detailed_disposition"`
	Reason              string      `json:"reason"`
	Quantity            int         `json:"quantity"`
	Currency            string      `json:"currency"`
	Value               *float64    `json:"value"`
	AdjustmentDate      civil.Date  `json:"adjustment_date"`
	DeadlineDate        civil.Date  `json:"deadline_date"`
	DaysRemaining       int         `json:"days_remaining"`
	IsExpired           bool        `json:"is_expired"`
	Status              ClaimStatus `json:"status"`
	CreatedAt           time.Time   `json:"created_at"`
}

// Derive recomputes DaysRemaining and IsExpired for the given day.
func (c *Claim) Derive(today civil.Date) {
	c.DaysRemaining = deadline.DaysRemaining(c.DeadlineDate, today)
	c.IsExpired = deadline.IsExpired(c.DeadlineDate, today)
}

func (c *Claim) ValueOrZero() float64 {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}

func (c *Claim) Urgency() Urgency {
	switch {
	case c.IsExpired:
		return UrgencyExpired
	case c.DaysRemaining <= 3:
		return UrgencyCritical
	case c.DaysRemaining <= AtRiskWindowDays:
		return UrgencyHigh
	case c.DaysRemaining <= 14:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// IsAtRisk reports whether the claim belongs in a reimbursement-risk digest.
func (c *Claim) IsAtRisk() bool {
	return !c.IsExpired &&
		c.DaysRemaining >= 0 &&
		c.DaysRemaining <= AtRiskWindowDays &&
		c.Status != ClaimStatusApproved
}

// SortByUrgency orders claims non-expired first, soonest deadline first.
func SortByUrgency(claims []Claim) {
	slices.SortStableFunc(claims, func(a, b Claim) int {
		if a.IsExpired != b.IsExpired {
			if a.IsExpired {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.DaysRemaining, b.DaysRemaining)
	})
}

func FilterByUrgency(claims []Claim, u Urgency) []Claim {
	out := make([]Claim, 0, len(claims))
	for _, c := range claims {
		if c.Urgency() == u {
			out = append(out, c)
		}
	}
	return out
}

func FilterByStatus(claims []Claim, s ClaimStatus) []Claim {
	out := make([]Claim, 0, len(claims))
	for _, c := range claims {
		if c.Status == s {
			out = append(out, c)
		}
	}
	return out
}

type ClaimStats struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	Expired      int     `json:"expired"`
	ExpiringSoon int     `json:"expiring_soon"`
	TotalValue   float64 `json:"total_value"`
}

// Summarize aggregates derived claims. Missing values count as zero.
func Summarize(claims []Claim) ClaimStats {
	var stats ClaimStats
	for i := range claims {
		c := &claims[i]
		stats.Total++
		if c.IsExpired {
			stats.Expired++
		} else {
			stats.Active++
			if c.DaysRemaining <= AtRiskWindowDays {
				stats.ExpiringSoon++
			}
		}
		stats.TotalValue += c.ValueOrZero()
	}
	stats.TotalValue = RoundCents(stats.TotalValue)
	return stats
}

// TotalValue sums claim values, treating missing values as zero.
func TotalValue(claims []Claim) float64 {
	var total float64
	for i := range claims {
		total += claims[i].ValueOrZero()
	}
	return RoundCents(total)
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
