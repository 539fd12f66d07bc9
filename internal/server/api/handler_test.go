package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tender-reporter/internal/report"
	"tender-reporter/internal/server/hub"
	"tender-reporter/internal/store"
	"tender-reporter/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	jobs []*worker.ReportJob
	full bool
}

func (f *fakeSubmitter) Submit(job *worker.ReportJob) bool {
	if f.full {
		return false
	}
	f.jobs = append(f.jobs, job)
	return true
}

type fakeStore struct {
	created map[string]*report.Request
	records map[string]*store.ReportRecord
	recent  []store.ReportRecord
	failing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		created: make(map[string]*report.Request),
		records: make(map[string]*store.ReportRecord),
	}
}

func (f *fakeStore) CreateReport(id string, req *report.Request) error {
	if f.failing {
		return errors.New("db down")
	}
	f.created[id] = req
	return nil
}

func (f *fakeStore) GetReport(id string) (*store.ReportRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("report not found: %s", id)
	}
	return rec, nil
}

func (f *fakeStore) ListRecent(userID string, limit int) ([]store.ReportRecord, error) {
	return f.recent, nil
}

func validPayload() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"sellerName": "Acme Industrial",
		"days":       30,
		"limit":      50,
		"email":      "ops@example.com",
		"filters":    []string{"bidsSummary", "marketOverview"},
	})
	return body
}

func signRequest(secret, method, path string, body []byte, ts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(method + path + string(body) + ts))
	return hex.EncodeToString(mac.Sum(nil))
}

type memProvider struct {
	files map[string][]byte
}

func (p *memProvider) StreamToFile(ctx context.Context, key string) (io.WriteCloser, <-chan error) {
	errCh := make(chan error, 1)
	errCh <- nil
	return nil, errCh
}

func (p *memProvider) OpenFile(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := p.files[key]
	if !ok {
		return nil, errors.New("not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (p *memProvider) GetDownloadURL(key string) string { return "mem://" + key }

func newTestHandler(st ReportStore, sub Submitter, secret string) *Handler {
	return NewHandler(st, sub, hub.NewHub(), &memProvider{files: map[string][]byte{}}, secret, time.Minute)
}

func TestSubmitReport(t *testing.T) {
	st := newFakeStore()
	sub := &fakeSubmitter{}
	h := newTestHandler(st, sub, "")

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(validPayload()))
	rec := httptest.NewRecorder()
	h.HandleReports(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "PENDING", resp["status"])

	require.Len(t, sub.jobs, 1)
	job := sub.jobs[0]
	assert.Equal(t, resp["id"], job.ID)
	assert.Equal(t, "Acme Industrial", job.Request.SellerName)

	assert.Contains(t, st.created, job.ID)
}

func TestSubmitReportSignature(t *testing.T) {
	secret := "shared-secret"
	h := newTestHandler(newFakeStore(), &fakeSubmitter{}, secret)
	body := validPayload()

	// Missing signature
	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleReports(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid signature
	ts := fmt.Sprintf("%d", time.Now().Unix())
	req = httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(body))
	req.Header.Set("X-Timestamp", ts)
	req.Header.Set("X-Signature", signRequest(secret, http.MethodPost, "/reports", body, ts))
	rec = httptest.NewRecorder()
	h.HandleReports(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestSubmitReportValidation(t *testing.T) {
	h := newTestHandler(newFakeStore(), &fakeSubmitter{}, "")

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.HandleReports(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, _ := json.Marshal(map[string]interface{}{"sellerName": "", "days": 30, "limit": 50})
	req = httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	h.HandleReports(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sellerName")
}

func TestSubmitReportQueueFull(t *testing.T) {
	h := newTestHandler(newFakeStore(), &fakeSubmitter{full: true}, "")

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(validPayload()))
	rec := httptest.NewRecorder()
	h.HandleReports(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetReportByID(t *testing.T) {
	st := newFakeStore()
	st.records["abc-123"] = &store.ReportRecord{ID: "abc-123", SellerName: "Acme Industrial", Status: "COMPLETED", FileKey: "reports/abc-123.pdf"}
	h := newTestHandler(st, &fakeSubmitter{}, "")

	req := httptest.NewRequest(http.MethodGet, "/reports/abc-123", nil)
	rec := httptest.NewRecorder()
	h.HandleReportByID(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got store.ReportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "COMPLETED", got.Status)
	assert.Equal(t, "reports/abc-123.pdf", got.FileKey)

	req = httptest.NewRequest(http.MethodGet, "/reports/missing", nil)
	rec = httptest.NewRecorder()
	h.HandleReportByID(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadReport(t *testing.T) {
	st := newFakeStore()
	st.records["abc-123"] = &store.ReportRecord{ID: "abc-123", Status: "COMPLETED", FileKey: "reports/abc-123.pdf"}
	st.records["pending-1"] = &store.ReportRecord{ID: "pending-1", Status: "PENDING"}

	h := newTestHandler(st, &fakeSubmitter{}, "")
	h.Storage = &memProvider{files: map[string][]byte{
		"reports/abc-123.pdf": []byte("%PDF-1.7 fake"),
	}}

	req := httptest.NewRequest(http.MethodGet, "/reports/abc-123/download", nil)
	rec := httptest.NewRecorder()
	h.HandleReportByID(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "%PDF")

	// Not finished yet
	req = httptest.NewRequest(http.MethodGet, "/reports/pending-1/download", nil)
	rec = httptest.NewRecorder()
	h.HandleReportByID(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListReports(t *testing.T) {
	st := newFakeStore()
	st.recent = []store.ReportRecord{
		{ID: "a", SellerName: "Acme Industrial", Status: "COMPLETED"},
		{ID: "b", SellerName: "Acme Industrial", Status: "PENDING"},
	}
	h := newTestHandler(st, &fakeSubmitter{}, "")

	req := httptest.NewRequest(http.MethodGet, "/reports?limit=10", nil)
	rec := httptest.NewRecorder()
	h.HandleReports(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []store.ReportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestListFilters(t *testing.T) {
	h := newTestHandler(newFakeStore(), &fakeSubmitter{}, "")

	req := httptest.NewRequest(http.MethodGet, "/filters", nil)
	rec := httptest.NewRecorder()
	h.HandleFilters(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got["filters"], len(report.AllSections))
	assert.Contains(t, got["filters"], "bidsSummary")
	assert.Contains(t, got["filters"], "departmentsAnalysis")
}
