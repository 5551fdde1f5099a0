package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/wardstats/platform/pkg/common/logger"
	"github.com/wardstats/platform/pkg/common/models"
)

const maxBatchFiles = 100

type HTTPHandler struct {
	service   *Service
	uploadDir string
	maxBody   int64
}

func NewHTTPHandler(service *Service, uploadDir string, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, uploadDir: uploadDir, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/upload", h.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/upload-multiple", h.handleUploadMultiple).Methods(http.MethodPost)
	router.HandleFunc("/uploads/{id}", h.handleUploadStatus).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.Fail("NO_FILE", "No file uploaded."))
		return
	}
	defer file.Close()

	up, err := h.saveUpload(file, header.Filename)
	if err != nil {
		logger.Log.WithError(err).Error("failed to store uploaded file")
		writeJSON(w, http.StatusInternalServerError, models.Fail("UPLOAD_STORE_FAILED", "could not store uploaded file"))
		return
	}

	result, err := h.service.Ingest(r.Context(), up)
	if err != nil {
		writeJSON(w, statusForIngestError(err), models.Fail("UPLOAD_FAILED", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, models.OK(result))
}

func (h *HTTPHandler) handleUploadMultiple(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	if err := r.ParseMultipartForm(h.maxBody); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_FORM", "invalid multipart form"))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, models.Fail("NO_FILE", "No files uploaded."))
		return
	}
	if len(headers) > maxBatchFiles {
		writeJSON(w, http.StatusBadRequest, models.Fail("TOO_MANY_FILES",
			fmt.Sprintf("at most %d files per batch", maxBatchFiles)))
		return
	}

	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.Fail("INVALID_FILE", fh.Filename))
			return
		}
		up, err := h.saveUpload(file, fh.Filename)
		file.Close()
		if err != nil {
			logger.Log.WithError(err).Error("failed to store uploaded file")
			writeJSON(w, http.StatusInternalServerError, models.Fail("UPLOAD_STORE_FAILED", "could not store uploaded file"))
			return
		}
		uploads = append(uploads, up)
	}

	batch := h.service.IngestBatch(r.Context(), uploads)
	writeJSON(w, http.StatusOK, models.OKWithMeta(batch, map[string]interface{}{
		"message": fmt.Sprintf("Processed %d file(s). Success: %d, Failed: %d",
			len(uploads), batch.SuccessCount, batch.FailCount),
	}))
}

func (h *HTTPHandler) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.service.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			writeJSON(w, http.StatusNotFound, models.Fail("UPLOAD_NOT_FOUND", "upload not found"))
			return
		}
		logger.Log.WithError(err).Error("failed to fetch upload status")
		writeJSON(w, http.StatusInternalServerError, models.Fail("UPLOAD_STATUS_FAILED", "internal error"))
		return
	}

	writeJSON(w, http.StatusOK, models.OK(rec))
}

// saveUpload writes the multipart part to the upload directory under a
// fresh name; the original name travels separately for date resolution.
func (h *HTTPHandler) saveUpload(src multipart.File, originalName string) (Upload, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return Upload{}, err
	}
	path := filepath.Join(h.uploadDir, uuid.New().String()+".xlsx")
	dst, err := os.Create(path)
	if err != nil {
		return Upload{}, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return Upload{}, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return Upload{}, err
	}
	return Upload{Path: path, OriginalName: originalName}, nil
}

func statusForIngestError(err error) int {
	if IsParseError(err) || errors.Is(err, ErrUnresolvedDate) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
