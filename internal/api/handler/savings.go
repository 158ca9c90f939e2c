package handler

import (
	"net/http"

	"github.com/weatherpro/weatherpro/internal/api/models"
	"github.com/weatherpro/weatherpro/internal/api/response"
	"github.com/weatherpro/weatherpro/internal/savings"
)

// SavingsHandler handles tracked savings endpoints.
type SavingsHandler struct {
	history savings.HistoryStore
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(history savings.HistoryStore) *SavingsHandler {
	if history == nil {
		history = savings.PlaceholderHistory{}
	}
	return &SavingsHandler{history: history}
}

// GetMonthly handles GET /v1/savings/monthly.
func (h *SavingsHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	summary, err := h.history.MonthlyTotals(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load savings history")
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewMonthlySummary(summary))
}
