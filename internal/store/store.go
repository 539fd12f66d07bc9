package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"tender-reporter/internal/report"
)

type Store struct {
	db *sql.DB
}

// ReportRecord is the persisted lifecycle of one report generation job.
type ReportRecord struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SellerName  string     `json:"seller_name"`
	Params      string     `json:"params"`
	Filters     string     `json:"filters"`
	Status      string     `json:"status"`
	FileKey     string     `json:"file_key,omitempty"`
	DataKey     string     `json:"data_key,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) InitSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL DEFAULT '',
			seller_name VARCHAR(255) NOT NULL,
			params JSON,
			filters TEXT,
			status ENUM('PENDING', 'PROCESSING', 'COMPLETED', 'FAILED') NOT NULL DEFAULT 'PENDING',
			file_key VARCHAR(512),
			data_key VARCHAR(512),
			error TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP NULL,
			INDEX idx_reports_user (user_id),
			INDEX idx_reports_created (created_at)
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			slog.Warn("Migration query issue (might be expected)", "error", err)
		}
	}
	return nil
}

// CreateReport inserts a new PENDING row for a submitted request.
func (s *Store) CreateReport(id string, req *report.Request) error {
	params, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	filters, err := json.Marshal(req.Filters)
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO reports (id, user_id, seller_name, params, filters, status) VALUES (?, ?, ?, ?, ?, 'PENDING')",
		id, req.UserID, req.SellerName, string(params), string(filters),
	)
	return err
}

func (s *Store) MarkProcessing(id string) error {
	_, err := s.db.Exec("UPDATE reports SET status = 'PROCESSING' WHERE id = ?", id)
	return err
}

func (s *Store) MarkCompleted(id, fileKey, dataKey string) error {
	_, err := s.db.Exec(
		"UPDATE reports SET status = 'COMPLETED', file_key = ?, data_key = ?, completed_at = NOW() WHERE id = ?",
		fileKey, dataKey, id,
	)
	return err
}

func (s *Store) MarkFailed(id string, jobErr error) error {
	msg := ""
	if jobErr != nil {
		msg = jobErr.Error()
	}
	_, err := s.db.Exec(
		"UPDATE reports SET status = 'FAILED', error = ?, completed_at = NOW() WHERE id = ?",
		msg, id,
	)
	return err
}

func (s *Store) GetReport(id string) (*ReportRecord, error) {
	var rec ReportRecord
	var fileKey, dataKey, errMsg sql.NullString
	var completedAt sql.NullTime

	err := s.db.QueryRow(
		"SELECT id, user_id, seller_name, params, filters, status, file_key, data_key, error, created_at, completed_at FROM reports WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.UserID, &rec.SellerName, &rec.Params, &rec.Filters, &rec.Status,
		&fileKey, &dataKey, &errMsg, &rec.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found: %s", id)
	} else if err != nil {
		return nil, err
	}

	rec.FileKey = fileKey.String
	rec.DataKey = dataKey.String
	rec.Error = errMsg.String
	if completedAt.Valid {
		rec.CompletedAt = &completedAt.Time
	}
	return &rec, nil
}

// ListRecent returns the newest report rows, optionally filtered by user.
func (s *Store) ListRecent(userID string, limit int) ([]ReportRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows *sql.Rows
	var err error
	if userID != "" {
		rows, err = s.db.Query(
			"SELECT id, user_id, seller_name, status, file_key, created_at, completed_at FROM reports WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
			userID, limit,
		)
	} else {
		rows, err = s.db.Query(
			"SELECT id, user_id, seller_name, status, file_key, created_at, completed_at FROM reports ORDER BY created_at DESC LIMIT ?",
			limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		var fileKey sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SellerName, &rec.Status, &fileKey, &rec.CreatedAt, &completedAt); err != nil {
			return nil, err
		}
		rec.FileKey = fileKey.String
		if completedAt.Valid {
			rec.CompletedAt = &completedAt.Time
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
