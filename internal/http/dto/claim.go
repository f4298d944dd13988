package dto

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

type ClaimResponse struct {
	ID                  int64             `json:"id,string"`
	SKU                 string            `json:"sku"`
	FNSKU               string            `json:"fnsku"`
	ASIN                string            `json:"asin"`
	ProductName         string            `json:"product_name"`
	FulfillmentCenterID string            `json:"fulfillment_center_id"`
	DetailedDisposition string            `json:"detailed_disposition"`
	Reason              string            `json:"reason"`
	Quantity            int               `json:"quantity"`
	Currency            string            `json:"currency"`
	Value               *float64          `json:"value"`
	AdjustmentDate      civil.Date        `json:"adjustment_date"`
	DeadlineDate        civil.Date        `json:"deadline_date"`
	DaysRemaining       int               `json:"days_remaining"`
	IsExpired           bool              `json:"is_expired"`
	Urgency             model.Urgency     `json:"urgency"`
	Status              model.ClaimStatus `json:"status"`
	CreatedAt           time.Time         `json:"created_at"`
}

type ListClaimsResponse struct {
	Claims []ClaimResponse `json:"claims"`
}

type UploadResponse struct {
	Message      string `json:"message"`
	Total        int    `json:"total"`
	Reimbursable int    `json:"reimbursable"`
	Imported     int64  `json:"imported"`
}

type UpdateStatusRequest struct {
	Status model.ClaimStatus `json:"status"`
}

// Claim ids travel as strings; snowflakes exceed JavaScript's safe integers.
type BulkStatusRequest struct {
	ClaimIDs []string          `json:"claim_ids"`
	Status   model.ClaimStatus `json:"status"`
}

type BulkDeleteRequest struct {
	ClaimIDs []string `json:"claim_ids"`
}

type BulkOutcomeResponse struct {
	ID     int64  `json:"id,string"`
	Result string `json:"result"`
}

type BulkResponse struct {
	Results []BulkOutcomeResponse `json:"results"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ParseIDs converts string ids from a request body.
func ParseIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid claim id %q", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func ToClaimResponse(c *model.Claim) ClaimResponse {
	return ClaimResponse{
		ID:                  c.ID,
		SKU:                 c.SKU,
		FNSKU:               c.FNSKU,
		ASIN:                c.ASIN,
		ProductName:         c.ProductName,
		FulfillmentCenterID: c.FulfillmentCenterID,
		DetailedDisposition: c.DetailedDisposition,
		Reason:              c.Reason,
		Quantity:            c.Quantity,
		Currency:            c.Currency,
		Value:               c.Value,
		AdjustmentDate:      c.AdjustmentDate,
		DeadlineDate:        c.DeadlineDate,
		DaysRemaining:       c.DaysRemaining,
		IsExpired:           c.IsExpired,
		Urgency:             c.Urgency(),
		Status:              c.Status,
		CreatedAt:           c.CreatedAt,
	}
}

func ToListClaimsResponse(claims []model.Claim) ListClaimsResponse {
	resp := ListClaimsResponse{Claims: make([]ClaimResponse, len(claims))}
	for i := range claims {
		resp.Claims[i] = ToClaimResponse(&claims[i])
	}
	return resp
}

func ToUploadResponse(r *service.UploadResult) UploadResponse {
	msg := "CSV processed successfully"
	if r.Reimbursable == 0 {
		msg = "No reimbursable claims found in the uploaded file"
	}
	return UploadResponse{
		Message:      msg,
		Total:        r.Total,
		Reimbursable: r.Reimbursable,
		Imported:     r.Imported,
	}
}

func ToBulkResponse(outcomes []service.BulkOutcome) BulkResponse {
	resp := BulkResponse{Results: make([]BulkOutcomeResponse, len(outcomes))}
	for i, o := range outcomes {
		resp.Results[i] = BulkOutcomeResponse{ID: o.ID, Result: o.Result}
	}
	return resp
}
