package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/claimcsv"
	"claimcountdown.app/server/internal/http/dto"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

type ClaimHandler struct {
	claimService   service.ClaimService
	maxUploadBytes int64
}

func NewClaimHandler(claimService service.ClaimService, maxUploadBytes int64) *ClaimHandler {
	return &ClaimHandler{claimService: claimService, maxUploadBytes: maxUploadBytes}
}

// Upload ingests a multipart CSV in the "file" field.
func (h *ClaimHandler) Upload(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadBytes),
			})
			return
		}
		badRequest(c, "No file uploaded")
		return
	}

	if !isCSV(fh.Filename, fh.Header.Get("Content-Type")) {
		badRequest(c, "Only CSV files are allowed")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "read uploaded file")
		return
	}
	defer f.Close()

	result, err := h.claimService.Upload(c.Request.Context(), identity, f)
	if err != nil {
		respondError(c, err, "process CSV file")
		return
	}

	c.JSON(http.StatusOK, dto.ToUploadResponse(result))
}

func (h *ClaimHandler) List(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	claims, err := h.claimService.List(c.Request.Context(), identity, service.ClaimFilter{
		Urgency: model.Urgency(c.Query("urgency")),
		Status:  model.ClaimStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err, "fetch claims")
		return
	}

	c.JSON(http.StatusOK, dto.ToListClaimsResponse(claims))
}

func (h *ClaimHandler) Stats(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	stats, err := h.claimService.Stats(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "fetch stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ClaimHandler) Export(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.claimService.Export(c.Request.Context(), identity, &buf); err != nil {
		respondError(c, err, "export claims")
		return
	}

	filename := claimcsv.ExportFilename(h.claimService.Today())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ClaimHandler) UpdateStatus(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	claimID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || claimID <= 0 {
		badRequest(c, "invalid claim id")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	claim, err := h.claimService.SetStatus(c.Request.Context(), identity, claimID, req.Status)
	if err != nil {
		respondError(c, err, "update status")
		return
	}

	c.JSON(http.StatusOK, dto.ToClaimResponse(claim))
}

func (h *ClaimHandler) BulkUpdateStatus(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ids, err := dto.ParseIDs(req.ClaimIDs)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	outcomes, err := h.claimService.BulkSetStatus(c.Request.Context(), identity, ids, req.Status)
	if err != nil {
		respondError(c, err, "update status")
		return
	}

	c.JSON(http.StatusOK, dto.ToBulkResponse(outcomes))
}

func (h *ClaimHandler) Delete(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	claimID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || claimID <= 0 {
		badRequest(c, "invalid claim id")
		return
	}

	if err := h.claimService.Delete(c.Request.Context(), identity, claimID); err != nil {
		respondError(c, err, "delete claim")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Claim deleted successfully"})
}

func (h *ClaimHandler) BulkDelete(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ids, err := dto.ParseIDs(req.ClaimIDs)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	outcomes, err := h.claimService.BulkDelete(c.Request.Context(), identity, ids)
	if err != nil {
		respondError(c, err, "delete claims")
		return
	}

	c.JSON(http.StatusOK, dto.ToBulkResponse(outcomes))
}

func isCSV(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), "text/csv")
}
