package claimcsv

import (
	"strings"

	"claimcountdown.app/server/internal/model"
)

// reimbursableKeywords are matched as case-insensitive substrings of the reason,
// so "Warehouse Damaged - Fire" qualifies.
var reimbursableKeywords = []string{"lost", "damaged", "misplaced"}

func IsReimbursable(reason string) bool {
	r := strings.ToLower(reason)
	for _, kw := range reimbursableKeywords {
		if strings.Contains(r, kw) {
			return true
		}
	}
	return false
}

// FilterReimbursable keeps candidates whose reason is reimbursable.
// An empty result is not an error.
func FilterReimbursable(candidates []model.ClaimCandidate) []model.ClaimCandidate {
	out := make([]model.ClaimCandidate, 0, len(candidates))
	for _, c := range candidates {
		if IsReimbursable(c.Reason) {
			out = append(out, c)
		}
	}
	return out
}
