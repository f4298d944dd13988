// Package claimcsv turns FBA inventory-adjustment reports into claim
// candidates and renders claims back out as CSV.
package claimcsv

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"claimcountdown.app/server/internal/deadline"
	"claimcountdown.app/server/internal/model"
)

type ParseOptions struct {
	// MaxRows caps data rows; zero means unlimited.
	MaxRows int
}

type field int

const (
	fieldAdjustmentDate field = iota
	fieldSKU
	fieldFNSKU
	fieldASIN
	fieldProductName
	fieldFulfillmentCenterID
	fieldDetailedDisposition
	fieldReason
	fieldQuantity
	fieldCurrency
	fieldValue
)

// headerAliases maps normalized header names from both report dialects
// (machine names like "product-name" and display names like "Product Name").
var headerAliases = map[string]field{
	"adjustment-date":       fieldAdjustmentDate,
	"date":                  fieldAdjustmentDate,
	"sku":                   fieldSKU,
	"fnsku":                 fieldFNSKU,
	"asin":                  fieldASIN,
	"product-name":          fieldProductName,
	"fulfillment-center-id": fieldFulfillmentCenterID,
	"fulfillment-center":    fieldFulfillmentCenterID,
	"detailed-disposition":  fieldDetailedDisposition,
	"disposition":           fieldDetailedDisposition,
	"reason":                fieldReason,
	"quantity":              fieldQuantity,
	"currency":              fieldCurrency,
	"value":                 fieldValue,
}

// Parse reads a CSV report with a header row. Every row must carry a valid
// adjustment date; the first bad row rejects the whole batch with a *RowError
// wrapping a *deadline.ParseError, or a *RangeError for a quantity or value
// too large to store. Ragged rows are tolerated.
func Parse(r io.Reader, opts ParseOptions) ([]model.ClaimCandidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &RowError{Line: 1, Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := resolveColumns(header)

	var candidates []model.ClaimCandidate
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &RowError{Line: perr.Line, Err: perr.Err}
			}
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if isBlank(rec) {
			continue
		}

		if opts.MaxRows > 0 && len(candidates) >= opts.MaxRows {
			return nil, ErrTooManyRows
		}

		candidate, err := parseRow(rec, columns)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// resolveColumns returns, per field, the index of the first matching header.
func resolveColumns(header []string) map[field]int {
	columns := make(map[field]int, len(headerAliases))
	for i, h := range header {
		f, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := columns[f]; !seen {
			columns[f] = i
		}
	}
	return columns
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", "-")
	return strings.Join(strings.Fields(h), "-")
}

func parseRow(rec []string, columns map[field]int) (model.ClaimCandidate, error) {
	get := func(f field) string {
		i, ok := columns[f]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	adjustment, err := deadline.ParseDate(get(fieldAdjustmentDate))
	if err != nil {
		return model.ClaimCandidate{}, err
	}

	quantity, err := parseQuantity(get(fieldQuantity))
	if err != nil {
		return model.ClaimCandidate{}, err
	}
	value, err := parseValue(get(fieldValue))
	if err != nil {
		return model.ClaimCandidate{}, err
	}

	currency := strings.ToUpper(get(fieldCurrency))
	if currency == "" {
		currency = "USD"
	}

	return model.ClaimCandidate{
		SKU:                 get(fieldSKU),
		FNSKU:               get(fieldFNSKU),
		ASIN:                get(fieldASIN),
		ProductName:         get(fieldProductName),
		FulfillmentCenterID: get(fieldFulfillmentCenterID),
		DetailedDisposition: get(fieldDetailedDisposition),
		Reason:              get(fieldReason),
		Quantity:            quantity,
		Currency:            currency,
		Value:               value,
		AdjustmentDate:      adjustment,
		DeadlineDate:        deadline.For(adjustment),
	}, nil
}

// parseQuantity returns 0 for anything that is not a non-negative integer.
// Quantities beyond the int32 column range reject the row.
func parseQuantity(s string) (int, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 32)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return 0, &RangeError{Field: "quantity", Raw: s}
	}
	if err != nil || n < 0 {
		return 0, nil
	}
	return int(n), nil
}

// parseValue accepts plain decimals and "$1,234.50"; anything else is 0.
// Values that do not fit NUMERIC(12,2) after rounding reject the row.
func parseValue(s string) (float64, error) {
	raw := s
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) && v > 0 {
		return 0, &RangeError{Field: "value", Raw: raw}
	}
	if err != nil || v < 0 || math.IsNaN(v) {
		return 0, nil
	}
	v = model.RoundCents(v)
	if math.IsInf(v, 0) || v >= MaxValue {
		return 0, &RangeError{Field: "value", Raw: raw}
	}
	return v, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
