package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tender-reporter/internal/report"
	"tender-reporter/internal/security"
	"tender-reporter/internal/server/hub"
	"tender-reporter/internal/storage"
	"tender-reporter/internal/store"
	"tender-reporter/internal/worker"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin policy handled by the CORS middleware
	},
}

// Submitter enqueues report jobs. Implemented by worker.Pool.
type Submitter interface {
	Submit(job *worker.ReportJob) bool
}

// ReportStore persists and queries report job history.
type ReportStore interface {
	CreateReport(id string, req *report.Request) error
	GetReport(id string) (*store.ReportRecord, error)
	ListRecent(userID string, limit int) ([]store.ReportRecord, error)
}

type Handler struct {
	Store      ReportStore
	Pool       Submitter
	Hub        *hub.Hub
	Storage    storage.Provider
	Secret     string
	JobTimeout time.Duration
}

func NewHandler(s ReportStore, p Submitter, h *hub.Hub, provider storage.Provider, secret string, jobTimeout time.Duration) *Handler {
	return &Handler{
		Store:      s,
		Pool:       p,
		Hub:        h,
		Storage:    provider,
		Secret:     secret,
		JobTimeout: jobTimeout,
	}
}

// HandleReports routes /reports: POST submits, GET lists recent jobs.
func (h *Handler) HandleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	timestamp := r.Header.Get("X-Timestamp")
	signature := r.Header.Get("X-Signature")
	if err := security.VerifyHMAC(h.Secret, r.Method, r.URL.Path, string(body), timestamp, signature); err != nil {
		slog.Warn("Rejected unsigned or invalid request", "error", err, "remote", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req report.Request
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, report.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Validation failed", http.StatusInternalServerError)
		return
	}

	job := worker.NewReportJob(&req, h.JobTimeout)

	if h.Store != nil {
		if err := h.Store.CreateReport(job.ID, &req); err != nil {
			slog.Error("Failed to persist report row", "job_id", job.ID, "error", err)
			job.Cancel()
			http.Error(w, "Failed to create report", http.StatusInternalServerError)
			return
		}
	}

	if !h.Pool.Submit(job) {
		job.Cancel()
		http.Error(w, "Server busy, try again later", http.StatusServiceUnavailable)
		return
	}

	slog.Info("Report submitted", "job_id", job.ID, "seller", req.SellerName, "filters", len(req.Filters))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"id":     job.ID,
		"status": string(job.Status),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "History not available", http.StatusNotImplemented)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.Store.ListRecent(r.URL.Query().Get("user_id"), limit)
	if err != nil {
		slog.Error("List reports failed", "error", err)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []store.ReportRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// HandleReportByID serves GET /reports/{id} job status and
// GET /reports/{id}/download for the finished PDF.
func (h *Handler) HandleReportByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Store == nil {
		http.Error(w, "History not available", http.StatusNotImplemented)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/reports/")
	download := strings.HasSuffix(id, "/download")
	id = strings.TrimSuffix(id, "/download")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Invalid report id", http.StatusBadRequest)
		return
	}

	rec, err := h.Store.GetReport(id)
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	if download {
		h.serveDownload(w, r, rec)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (h *Handler) serveDownload(w http.ResponseWriter, r *http.Request, rec *store.ReportRecord) {
	if rec.Status != "COMPLETED" || rec.FileKey == "" {
		http.Error(w, "Report not ready", http.StatusConflict)
		return
	}

	reader, err := h.Storage.OpenFile(r.Context(), rec.FileKey)
	if err != nil {
		slog.Error("Failed to open stored report", "key", rec.FileKey, "error", err)
		http.Error(w, "File unavailable", http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+rec.ID+".pdf\"")
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Download stream failed", "key", rec.FileKey, "error", err)
	}
}

// HandleFilters lists the section identifiers a request may pass in "filters".
func (h *Handler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids := make([]string, len(report.AllSections))
	for i, s := range report.AllSections {
		ids[i] = string(s)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"filters": ids})
}

// HandleDashboard upgrades to a websocket and streams job updates.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Dashboard upgrade failed", "error", err)
		return
	}

	h.Hub.Register(conn)

	// Keep connection open
	for {
		if _, _, err := conn.NextReader(); err != nil {
			h.Hub.Unregister(conn)
			break
		}
	}
}
