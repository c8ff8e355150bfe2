package handler

import (
	"net/http"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/courtside/pickledger/internal/service"
	"github.com/gin-gonic/gin"
)

// RollupHandler serves the read-only daily-rollup endpoints.
type RollupHandler struct {
	reportingSvc *service.ReportingService
}

// NewRollupHandler creates a RollupHandler.
func NewRollupHandler(reportingSvc *service.ReportingService) *RollupHandler {
	return &RollupHandler{reportingSvc: reportingSvc}
}

// GetByDate godoc
// GET /api/rollups/:date
func (h *RollupHandler) GetByDate(c *gin.Context) {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_DATE", "date must be YYYY-MM-DD")
		return
	}

	agg, err := h.reportingSvc.GetRollup(c.Request.Context(), date)
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusNotFound, "ERR_ROLLUP_NOT_FOUND", "no rollup for that date")
		} else {
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch rollup")
		}
		return
	}
	respondSuccess(c, http.StatusOK, agg)
}

// GetRange godoc
// GET /api/rollups?start=2025-07-01&end=2025-07-31
func (h *RollupHandler) GetRange(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	aggs, err := h.reportingSvc.GetRollupRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch rollups")
		return
	}
	respondSuccess(c, http.StatusOK, aggs)
}

// Summary godoc
// GET /api/rollups/summary?start=2025-07-01&end=2025-07-31
func (h *RollupHandler) Summary(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	sum, err := h.reportingSvc.Summarize(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not summarize range")
		return
	}
	respondSuccess(c, http.StatusOK, sum)
}

// parseRange reads and validates ?start/?end. Writes the error response and
// returns ok=false on bad input.
func parseRange(c *gin.Context) (start, end time.Time, ok bool) {
	var err error
	start, err = domain.ParseDate(c.Query("start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_DATE", "start must be YYYY-MM-DD")
		return start, end, false
	}
	end, err = domain.ParseDate(c.Query("end"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_DATE", "end must be YYYY-MM-DD")
		return start, end, false
	}
	if end.Before(start) {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_RANGE", "end date is before start date")
		return start, end, false
	}
	return start, end, true
}
