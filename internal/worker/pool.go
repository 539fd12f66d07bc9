package worker

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"tender-reporter/internal/analytics"
	"tender-reporter/internal/email"
	"tender-reporter/internal/export"
	"tender-reporter/internal/pdf"
	"tender-reporter/internal/report"
	"tender-reporter/internal/storage"

	"golang.org/x/sync/semaphore"
)

// History persists job lifecycle transitions. Nil disables persistence.
type History interface {
	MarkProcessing(id string) error
	MarkCompleted(id, fileKey, dataKey string) error
	MarkFailed(id string, err error) error
}

// Notifier receives job lifecycle updates for live dashboards. Nil disables it.
type Notifier interface {
	Notify(job *ReportJob)
}

// Pool manages concurrent report jobs and limits analytics service load.
// It implements a worker pool pattern with a separate semaphore for upstream
// fetches, allowing for fine-grained control over resource usage.
type Pool struct {
	// jobQueue allows for buffering incoming requests before workers pick them up.
	jobQueue chan *ReportJob
	workers  int
	// upstreamSem restricts the number of concurrent calls to the analytics service.
	upstreamSem *semaphore.Weighted
	wg          sync.WaitGroup
	quit        chan struct{}

	client    analytics.Client
	generator *pdf.Generator
	storage   storage.Provider
	emailer   email.Sender
	history   History
	notifier  Notifier

	useGzip    bool
	attachFile bool
}

// NewPool initializes a worker pool with the specified configuration.
// It does not start the workers; call Start() to begin processing.
func NewPool(workers int, maxUpstream int64, client analytics.Client, generator *pdf.Generator, store storage.Provider, emailer email.Sender, useGzip, attachFile bool) *Pool {
	return &Pool{
		jobQueue:    make(chan *ReportJob, 100), // Bounded buffer to prevent infinite memory growth
		workers:     workers,
		upstreamSem: semaphore.NewWeighted(maxUpstream),
		quit:        make(chan struct{}),
		client:      client,
		generator:   generator,
		storage:     store,
		emailer:     emailer,
		useGzip:     useGzip,
		attachFile:  attachFile,
	}
}

// SetHistory wires the persistence layer for job state transitions.
func (p *Pool) SetHistory(h History) { p.history = h }

// SetNotifier wires the live update broadcaster.
func (p *Pool) SetNotifier(n Notifier) { p.notifier = n }

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(i)
	}
	slog.Info("Worker pool started", "workers", p.workers)
}

func (p *Pool) Submit(job *ReportJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.quit:
		return false
	default:
		// Queue full
		return false
	}
}

// Stop initiates graceful shutdown
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
	slog.Info("Worker pool stopped")
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()
	slog.Debug("Worker started", "worker_id", id)

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.processJob(id, job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) processJob(workerID int, job *ReportJob) {
	defer job.Cancel()

	slog.Info("Processing job", "worker_id", workerID, "job_id", job.ID, "seller", job.Request.SellerName)

	job.Started = time.Now()
	job.Status = StatusProcessing
	waitTime := job.Started.Sub(job.Submitted)

	if p.history != nil {
		if err := p.history.MarkProcessing(job.ID); err != nil {
			slog.Warn("Failed to persist job state", "job_id", job.ID, "error", err)
		}
	}
	p.broadcast(job)

	// 1. Fetch the analysis dataset, gated by the upstream semaphore.
	if err := p.upstreamSem.Acquire(job.Ctx, 1); err != nil {
		p.failJob(job, fmt.Errorf("failed to acquire upstream slot: %w", err))
		return
	}
	input, err := p.client.FetchReport(job.Ctx, job.Request)
	p.upstreamSem.Release(1)
	if err != nil {
		p.failJob(job, fmt.Errorf("analytics fetch failed: %w", err))
		return
	}

	// 2. Render the PDF and stream it to storage.
	if err := p.renderReport(job, input); err != nil {
		p.failJob(job, err)
		return
	}

	// 3. Optional companion dataset export.
	if job.Request.DataFormat != "" {
		if err := p.exportDataset(job, input); err != nil {
			p.failJob(job, err)
			return
		}
	}

	job.Status = StatusCompleted
	job.Finished = time.Now()
	totalDuration := job.Finished.Sub(job.Started)

	if p.history != nil {
		if err := p.history.MarkCompleted(job.ID, job.FileKey, job.DataKey); err != nil {
			slog.Warn("Failed to persist job state", "job_id", job.ID, "error", err)
		}
	}
	p.broadcast(job)

	slog.Info("Job completed", "job_id", job.ID, "pages", job.Pages, "duration", totalDuration)

	if job.Request.Email != "" {
		p.deliver(job, waitTime, totalDuration)
	}
}

// renderReport generates the PDF document and streams it to the storage provider.
func (p *Pool) renderReport(job *ReportJob, input *report.ReportInput) error {
	doc, err := p.generator.Generate(input, job.Request.Selection())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	job.Pages = doc.PageCount()

	job.FileKey = fmt.Sprintf("reports/%s.pdf", job.ID)
	storageWriter, errChan := p.storage.StreamToFile(job.Ctx, job.FileKey)
	// A nil writer means the destination could not be opened; the error
	// is already waiting on the channel.
	if storageWriter == nil {
		return fmt.Errorf("storage open failed: %w", <-errChan)
	}

	writeErr := doc.Output(storageWriter)
	closeErr := storageWriter.Close()
	uploadErr := <-errChan

	if writeErr != nil {
		return fmt.Errorf("pdf write failed: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("storage close failed: %w", closeErr)
	}
	if uploadErr != nil {
		return fmt.Errorf("upload failed: %w", uploadErr)
	}
	return nil
}

// exportDataset streams the underlying dataset alongside the PDF.
func (p *Pool) exportDataset(job *ReportJob, input *report.ReportInput) error {
	ext := export.Extension(job.Request.DataFormat)

	if p.useGzip {
		job.DataKey = fmt.Sprintf("reports/%s.%s.gz", job.ID, ext)
	} else {
		job.DataKey = fmt.Sprintf("reports/%s.%s", job.ID, ext)
	}

	// Start Storage Upload in background (it reads from pipe)
	storageWriter, errChan := p.storage.StreamToFile(job.Ctx, job.DataKey)
	if storageWriter == nil {
		return fmt.Errorf("storage open failed: %w", <-errChan)
	}

	// Prepare Output Writer (maybe wrapped in Gzip)
	var finalWriter io.WriteCloser
	if p.useGzip {
		finalWriter = gzip.NewWriter(storageWriter)
	} else {
		finalWriter = storageWriter
	}

	encoder, err := export.NewEncoder(job.Request.DataFormat, finalWriter)
	if err != nil {
		storageWriter.Close()
		<-errChan
		return err
	}

	stats, exportErr := export.Write(input, encoder)
	encoderCloseErr := encoder.Close()

	// If Gzip, close it first to flush footer
	var outputCloseErr error
	if gw, ok := finalWriter.(*gzip.Writer); ok {
		outputCloseErr = gw.Close()
	}

	// Then close the underlying storage writer (the pipe)
	storageCloseErr := storageWriter.Close()

	// Wait for upload result
	uploadErr := <-errChan

	if exportErr != nil {
		return fmt.Errorf("dataset export failed: %w", exportErr)
	}
	if encoderCloseErr != nil {
		return fmt.Errorf("encoder close failed: %w", encoderCloseErr)
	}
	if outputCloseErr != nil {
		return fmt.Errorf("gzip close failed: %w", outputCloseErr)
	}
	if storageCloseErr != nil {
		return fmt.Errorf("storage close failed: %w", storageCloseErr)
	}
	if uploadErr != nil {
		return fmt.Errorf("upload failed: %w", uploadErr)
	}

	job.Stats = stats
	return nil
}

// deliver emails the report as a link or, when small enough, an attachment.
func (p *Pool) deliver(job *ReportJob, waitTime, totalDuration time.Duration) {
	statsMsg := fmt.Sprintf(
		"Report Summary:\n"+
			"----------------\n"+
			"Report ID: %s\n"+
			"Seller: %s\n"+
			"Pages: %d\n"+
			"Submitted: %s\n"+
			"Started: %s (Wait: %v)\n"+
			"Finished: %s\n"+
			"Total Duration: %v\n",
		job.ID,
		job.Request.SellerName,
		job.Pages,
		job.Submitted.Format("2006-01-02 03:04:05 PM"),
		job.Started.Format("2006-01-02 03:04:05 PM"), waitTime,
		job.Finished.Format("2006-01-02 03:04:05 PM"),
		totalDuration,
	)
	if job.Stats != nil {
		statsMsg += fmt.Sprintf("Dataset Rows: %d (in %v)\n", job.Stats.RowsProcessed, job.Stats.Duration)
	}

	const MaxAttachmentSize = 25 * 1024 * 1024 // 25MB

	if p.attachFile {
		fileContent, err := func() ([]byte, error) {
			reader, err := p.storage.OpenFile(job.Ctx, job.FileKey)
			if err != nil {
				return nil, err
			}
			defer reader.Close()

			limitedReader := io.LimitReader(reader, MaxAttachmentSize+1)
			content, err := io.ReadAll(limitedReader)
			if err != nil {
				return nil, err
			}

			if len(content) > MaxAttachmentSize {
				return nil, fmt.Errorf("file exceeds max attachment size (%d bytes)", MaxAttachmentSize)
			}
			return content, nil
		}()

		if err != nil {
			slog.Warn("Skipping attachment (too large or error)", "key", job.FileKey, "error", err)
			downloadURL := p.storage.GetDownloadURL(job.FileKey)
			statsMsg += fmt.Sprintf("\nAttachment skipped: %v\nDownload Link: %s", err, downloadURL)
			p.emailer.SendDownloadLink(job.Request.Email, downloadURL, statsMsg)
		} else {
			p.emailer.SendWithAttachment(job.Request.Email, job.FileKey, fileContent, statsMsg)
		}
	} else {
		downloadURL := p.storage.GetDownloadURL(job.FileKey)
		p.emailer.SendDownloadLink(job.Request.Email, downloadURL, statsMsg)
	}
}

func (p *Pool) failJob(job *ReportJob, err error) {
	job.Status = StatusFailed
	job.Error = err
	job.Finished = time.Now()

	if p.history != nil {
		if herr := p.history.MarkFailed(job.ID, err); herr != nil {
			slog.Warn("Failed to persist job state", "job_id", job.ID, "error", herr)
		}
	}
	p.broadcast(job)

	slog.Error("Job failed", "job_id", job.ID, "error", err)
}

func (p *Pool) broadcast(job *ReportJob) {
	if p.notifier != nil {
		p.notifier.Notify(job)
	}
}
