package worker

import (
	"context"
	"time"

	"tender-reporter/internal/export"
	"tender-reporter/internal/report"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusProcessing JobStatus = "PROCESSING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
)

// ReportJob represents a single report generation unit of work.
type ReportJob struct {
	// ID is the unique UUID v4 for the job.
	ID string
	// Request holds the validated submission parameters.
	Request *report.Request
	// Timestamps for job lifecycle tracking.
	Submitted time.Time
	Started   time.Time
	Finished  time.Time
	// Status tracks the current state (PENDING, PROCESSING, COMPLETED, FAILED).
	Status JobStatus
	// Error holds any error encountered during processing.
	Error error
	// FileKey is the storage path of the rendered PDF.
	FileKey string
	// DataKey is the storage path of the optional dataset export.
	DataKey string
	// Pages is the page count of the generated document.
	Pages int
	// Stats contains metrics for the dataset export, if one was requested.
	Stats *export.ExportResult

	// Context manages the lifecycle/cancellation of the job.
	Ctx    context.Context
	Cancel context.CancelFunc
}

func NewReportJob(req *report.Request, timeout time.Duration) *ReportJob {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return &ReportJob{
		ID:        uuid.New().String(),
		Request:   req,
		Submitted: time.Now(),
		Status:    StatusPending,
		Ctx:       ctx,
		Cancel:    cancel,
	}
}
