package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/courtside/pickledger/internal/repository"
	"github.com/courtside/pickledger/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WagerHandler serves the ingest, settlement and ledger-reporting endpoints.
type WagerHandler struct {
	ledgerSvc    *service.LedgerService
	reportingSvc *service.ReportingService
}

// NewWagerHandler creates a WagerHandler.
func NewWagerHandler(ledgerSvc *service.LedgerService, reportingSvc *service.ReportingService) *WagerHandler {
	return &WagerHandler{ledgerSvc: ledgerSvc, reportingSvc: reportingSvc}
}

// Append godoc
// POST /api/wagers
// Body: {"home_team":"...","away_team":"...","sport":"nba","event_date":"2025-07-01",
//
//	"predicted_outcome":"...","confidence":0.74,"analysis":{...},
//	"is_daily_pick":true,"pick_rank":1,"stake":"100.00"}
func (h *WagerHandler) Append(c *gin.Context) {
	var body struct {
		HomeTeam         string          `json:"home_team"         binding:"required"`
		AwayTeam         string          `json:"away_team"         binding:"required"`
		Sport            string          `json:"sport"             binding:"required"`
		EventDate        string          `json:"event_date"        binding:"required"`
		PredictedOutcome string          `json:"predicted_outcome" binding:"required"`
		Confidence       float64         `json:"confidence"`
		Analysis         json.RawMessage `json:"analysis"`
		RawData          json.RawMessage `json:"raw_data"`
		IsDailyPick      bool            `json:"is_daily_pick"`
		PickRank         int             `json:"pick_rank"`
		Stake            string          `json:"stake" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	eventDate, err := domain.ParseDate(body.EventDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_DATE", "event_date must be YYYY-MM-DD")
		return
	}

	stake, err := decimal.NewFromString(body.Stake)
	if err != nil || !stake.IsPositive() {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_STAKE", "stake must be a positive decimal string")
		return
	}

	req := domain.AppendWagerRequest{
		HomeTeam:         body.HomeTeam,
		AwayTeam:         body.AwayTeam,
		Sport:            body.Sport,
		EventDate:        eventDate,
		PredictedOutcome: body.PredictedOutcome,
		Confidence:       body.Confidence,
		Analysis:         body.Analysis,
		RawData:          body.RawData,
		IsDailyPick:      body.IsDailyPick,
		PickRank:         body.PickRank,
		Stake:            stake,
	}

	w, err := h.ledgerSvc.Append(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not record wager")
		}
		return
	}
	respondSuccess(c, http.StatusCreated, w)
}

// Settle godoc
// POST /api/wagers/:id/settle
// Body: {"actual_outcome":"..."}
func (h *WagerHandler) Settle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_WAGER_ID", "invalid wager id")
		return
	}

	var body struct {
		ActualOutcome string `json:"actual_outcome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	w, err := h.ledgerSvc.SettleOutcome(c.Request.Context(), id, body.ActualOutcome)
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			respondError(c, http.StatusNotFound, "ERR_WAGER_NOT_FOUND", "wager not found")
		case domain.IsConflict(err):
			respondError(c, http.StatusConflict, "ERR_ALREADY_SETTLED", "wager is already settled")
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not settle wager")
		}
		return
	}
	respondSuccess(c, http.StatusOK, w)
}

// Void godoc
// POST /api/wagers/:id/void
func (h *WagerHandler) Void(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_WAGER_ID", "invalid wager id")
		return
	}

	w, err := h.ledgerSvc.VoidWager(c.Request.Context(), id)
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			respondError(c, http.StatusNotFound, "ERR_WAGER_NOT_FOUND", "wager not found")
		case domain.IsConflict(err):
			respondError(c, http.StatusConflict, "ERR_ALREADY_SETTLED", "wager is already settled or void")
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not void wager")
		}
		return
	}
	respondSuccess(c, http.StatusOK, w)
}

// GetByID godoc
// GET /api/wagers/:id
func (h *WagerHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_WAGER_ID", "invalid wager id")
		return
	}

	w, err := h.reportingSvc.GetWager(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusNotFound, "ERR_WAGER_NOT_FOUND", "wager not found")
		} else {
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch wager")
		}
		return
	}
	respondSuccess(c, http.StatusOK, w)
}

// List godoc
// GET /api/wagers?date=2025-07-01&daily=true&sport=nba&status=pending&page=1&limit=20
func (h *WagerHandler) List(c *gin.Context) {
	var f repository.LedgerFilter

	if d := c.Query("date"); d != "" {
		date, err := domain.ParseDate(d)
		if err != nil {
			respondError(c, http.StatusBadRequest, "ERR_INVALID_DATE", "date must be YYYY-MM-DD")
			return
		}
		f.Date = &date
	}
	f.FlaggedOnly = c.Query("daily") == "true"
	f.Sport = c.Query("sport")
	if s := c.Query("status"); s != "" {
		f.Status = domain.WagerStatus(s)
	}

	page, limit := parsePagination(c)
	f.Limit = limit
	f.Offset = (page - 1) * limit

	wagers, err := h.reportingSvc.QueryLedger(c.Request.Context(), f)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not query ledger")
		return
	}
	respondList(c, wagers, len(wagers), page, limit)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// parsePagination extracts ?page and ?limit with sane bounds.
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 200 {
		limit = 20
	}
	return page, limit
}
