package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/wardstats/platform/pkg/common/logger"
	"github.com/wardstats/platform/pkg/common/models"
	"github.com/wardstats/platform/pkg/scoring"
)

const recentLogLimit = 30

type HTTPHandler struct {
	store Store
}

func NewHTTPHandler(store Store) *HTTPHandler {
	return &HTTPHandler{store: store}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/stats", h.handleStats).Methods(http.MethodGet)
	router.HandleFunc("/logs", h.handleLogs).Methods(http.MethodGet)
	router.HandleFunc("/dashboard", h.handleDashboard).Methods(http.MethodGet)
	router.HandleFunc("/report/{month}", h.handleMonthlyReport).Methods(http.MethodGet)
	router.HandleFunc("/cases/{month}/{professor}", h.handleCases).Methods(http.MethodGet)
	router.HandleFunc("/logs/{date}", h.handleDeleteLogs).Methods(http.MethodDelete)
	router.HandleFunc("/cases/classifications", h.handleSetClassifications).Methods(http.MethodPut)
	router.HandleFunc("/cases/check", h.handleSetChecked).Methods(http.MethodPut)
	router.HandleFunc("/export/{month}", h.handleExport).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.RecentLogs(r.Context(), recentLogLimit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load recent logs")
		writeJSON(w, http.StatusInternalServerError, models.Fail("STATS_FAILED", "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, models.OK(logs))
}

func (h *HTTPHandler) handleLogs(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagingParams(r.URL.Query().Get("page"), r.URL.Query().Get("pageSize"))

	total, err := h.store.LogsCount(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to count logs")
		writeJSON(w, http.StatusInternalServerError, models.Fail("LOGS_FAILED", "internal error"))
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	items, err := h.store.LogsPage(r.Context(), page, pageSize)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load logs page")
		writeJSON(w, http.StatusInternalServerError, models.Fail("LOGS_FAILED", "internal error"))
		return
	}

	writeJSON(w, http.StatusOK, models.OK(map[string]interface{}{
		"items":      items,
		"total":      total,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": totalPages,
	}))
}

func (h *HTTPHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	months := splitMonths(r.URL.Query().Get("months"))
	if len(months) == 0 {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_MONTHS", "No valid months provided."))
		return
	}

	dash, err := h.store.Dashboard(r.Context(), months)
	if err != nil {
		logger.Log.WithError(err).Error("failed to build dashboard")
		writeJSON(w, http.StatusInternalServerError, models.Fail("DASHBOARD_FAILED", "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, models.OK(dash))
}

func (h *HTTPHandler) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]
	if !scoring.IsValidMonth(month) {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_MONTH", "Invalid month format. Use YYYY-MM."))
		return
	}

	rep, err := h.store.MonthlyReport(r.Context(), month)
	if err != nil {
		logger.Log.WithError(err).Error("failed to build monthly report")
		writeJSON(w, http.StatusInternalServerError, models.Fail("REPORT_FAILED", "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, models.OK(rep))
}

func (h *HTTPHandler) handleCases(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	month, professor := vars["month"], vars["professor"]
	if !scoring.IsValidMonth(month) {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_MONTH", "Invalid month format. Use YYYY-MM."))
		return
	}

	cases, err := h.store.Cases(r.Context(), month, professor)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load cases")
		writeJSON(w, http.StatusInternalServerError, models.Fail("CASES_FAILED", "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, models.OK(cases))
}

func (h *HTTPHandler) handleDeleteLogs(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if err := h.store.DeleteByDate(r.Context(), date); err != nil {
		logger.Log.WithError(err).WithField("date", date).Error("failed to delete logs")
		writeJSON(w, http.StatusInternalServerError, models.Fail("DELETE_FAILED", "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, models.OK(map[string]string{
		"message": "Data deleted successfully",
		"date":    date,
	}))
}

type classificationRequest struct {
	CaseKey
	DiagnosisCodeCounts map[string]int `json:"diagnosis_code_counts"`
}

func (h *HTTPHandler) handleSetClassifications(w http.ResponseWriter, r *http.Request) {
	var req classificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_PAYLOAD", "invalid JSON body"))
		return
	}
	if msg, ok := validateKey(req.CaseKey); !ok {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_PAYLOAD", msg))
		return
	}

	saved, err := h.store.SetCaseClassifications(r.Context(), req.CaseKey, req.DiagnosisCodeCounts)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidClassification):
			writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_DIAGNOSIS_CODES", err.Error()))
		case errors.Is(err, ErrCaseNotFound):
			writeJSON(w, http.StatusNotFound, models.Fail("CASE_NOT_FOUND", err.Error()))
		default:
			logger.Log.WithError(err).Error("failed to save classifications")
			writeJSON(w, http.StatusInternalServerError, models.Fail("CASE_CLASSIFICATION_SAVE_FAILED", "internal error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.OK(map[string]interface{}{
		"diagnosis_codes":       sortedCodes(saved),
		"diagnosis_code_counts": saved,
	}))
}

type checkRequest struct {
	CaseKey
	IsChecked bool `json:"is_checked"`
}

func (h *HTTPHandler) handleSetChecked(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_PAYLOAD", "invalid JSON body"))
		return
	}
	if msg, ok := validateKey(req.CaseKey); !ok {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_PAYLOAD", msg))
		return
	}

	if err := h.store.SetCaseChecked(r.Context(), req.CaseKey, req.IsChecked); err != nil {
		if errors.Is(err, ErrCaseNotFound) {
			writeJSON(w, http.StatusNotFound, models.Fail("CASE_NOT_FOUND", err.Error()))
			return
		}
		logger.Log.WithError(err).Error("failed to save check flag")
		writeJSON(w, http.StatusInternalServerError, models.Fail("CASE_CHECK_SAVE_FAILED", "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, models.OK(map[string]bool{"is_checked": req.IsChecked}))
}

func (h *HTTPHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]
	if !scoring.IsValidMonth(month) {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_MONTH", "Invalid month format. Use YYYY-MM."))
		return
	}

	data, err := h.store.ExportData(r.Context(), month)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load export data")
		writeJSON(w, http.StatusInternalServerError, models.Fail("EXPORT_FAILED", "internal error"))
		return
	}

	wb, err := BuildWorkbook(data)
	if err != nil {
		logger.Log.WithError(err).Error("failed to build export workbook")
		writeJSON(w, http.StatusInternalServerError, models.Fail("EXPORT_FAILED", "internal error"))
		return
	}
	defer wb.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=Report_%s.xlsx", month))
	if err := wb.Write(w); err != nil {
		logger.Log.WithError(err).Error("failed to stream export workbook")
	}
}

func validateKey(key CaseKey) (string, bool) {
	if key.Date == "" || key.ProfessorName == "" || key.PatientName == "" || key.CaseName == "" {
		return "date, professor_name, patient_name, case_name are required.", false
	}
	return "", true
}

// pagingParams clamps the page query values: page >= 1, pageSize in
// 1..100 defaulting to 20.
func pagingParams(rawPage, rawSize string) (int, int) {
	page := 1
	if n, err := strconv.Atoi(rawPage); err == nil && n > 1 {
		page = n
	}
	pageSize := 20
	if n, err := strconv.Atoi(rawSize); err == nil && n >= 1 {
		pageSize = n
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func splitMonths(raw string) []string {
	var months []string
	for _, m := range strings.Split(raw, ",") {
		m = strings.TrimSpace(m)
		if scoring.IsValidMonth(m) {
			months = append(months, m)
		}
	}
	return months
}

func writeJSON(w http.ResponseWriter, status int, body models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
