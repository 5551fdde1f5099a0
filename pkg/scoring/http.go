package scoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/wardstats/platform/pkg/common/logger"
	"github.com/wardstats/platform/pkg/common/models"
)

type HTTPHandler struct {
	service           *Service
	defaultStartMonth string
	defaultMultiplier float64
}

func NewHTTPHandler(service *Service, defaultStartMonth string, defaultMultiplier float64) *HTTPHandler {
	return &HTTPHandler{
		service:           service,
		defaultStartMonth: defaultStartMonth,
		defaultMultiplier: defaultMultiplier,
	}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/category-score", h.handleScore).Methods(http.MethodGet)
	router.HandleFunc("/category-thresholds", h.handleThresholds).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleScore(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	startMonth := query.Get("start_month")
	if startMonth == "" {
		startMonth = h.defaultStartMonth
	}
	endMonth := query.Get("end_month")
	if endMonth == "" {
		endMonth = time.Now().Format("2006-01")
	}

	multiplier := h.defaultMultiplier
	if raw := query.Get("multiplier"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.Fail("CATEGORY_SCORE_FAILED", "Invalid multiplier. Use a positive number."))
			return
		}
		multiplier = parsed
	}

	report, err := h.service.Score(r.Context(), startMonth, endMonth, multiplier)
	if err != nil {
		if IsRangeError(err) {
			writeJSON(w, http.StatusBadRequest, models.Fail("CATEGORY_SCORE_FAILED", err.Error()))
			return
		}
		if errors.Is(err, ErrNoActiveThresholds) {
			writeJSON(w, http.StatusInternalServerError, models.Fail("CATEGORY_SCORE_FAILED", err.Error()))
			return
		}
		logger.Log.WithError(err).Error("score computation failed")
		writeJSON(w, http.StatusInternalServerError, models.Fail("CATEGORY_SCORE_FAILED", "internal error"))
		return
	}

	writeJSON(w, http.StatusOK, models.OK(report))
}

func (h *HTTPHandler) handleThresholds(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Thresholds(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list thresholds")
		writeJSON(w, http.StatusInternalServerError, models.Fail("CATEGORY_THRESHOLDS_FAILED", "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, models.OK(rows))
}

func writeJSON(w http.ResponseWriter, status int, body models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
