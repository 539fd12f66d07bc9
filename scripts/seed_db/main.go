package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/google/uuid"
)

var sellers = []string{
	"Acme Industrial Supplies",
	"Bharat Engineering Works",
	"Deccan Fabricators",
	"Northline Traders",
	"Shakti Electricals",
}

var statuses = []string{"COMPLETED", "COMPLETED", "COMPLETED", "FAILED", "PENDING"}

func main() {
	dsn := "root:root@tcp(localhost:3306)/tenders?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	// Wait for DB to be ready
	for i := 0; i < 30; i++ {
		if err := db.Ping(); err == nil {
			break
		}
		slog.Info("Waiting for database...", "attempt", i+1)
		time.Sleep(1 * time.Second)
	}

	slog.Info("Connected to MySQL. Creating tables...")

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
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
		)
	`)
	if err != nil {
		panic(err)
	}

	// Seed report history
	var count int
	db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&count)
	if count >= 500 {
		slog.Info("Reports already seeded", "count", count)
		return
	}

	slog.Info("Seeding 500 report rows...")
	start := time.Now()
	batchSize := 100
	total := 500

	for i := 0; i < total; i += batchSize {
		vals := []interface{}{}
		stmt := "INSERT INTO reports (id, user_id, seller_name, params, filters, status, file_key, created_at) VALUES "
		placeholders := []string{}

		for j := 0; j < batchSize; j++ {
			idx := i + j
			id := uuid.New().String()
			seller := sellers[idx%len(sellers)]
			status := statuses[idx%len(statuses)]
			params := fmt.Sprintf(`{"sellerName":%q,"days":30,"limit":50}`, seller)
			fileKey := ""
			if status == "COMPLETED" {
				fileKey = "reports/" + id + ".pdf"
			}
			createdAt := time.Now().Add(-time.Duration(idx) * time.Hour)

			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?)")
			vals = append(vals,
				id,
				fmt.Sprintf("user-%d", idx%25+1),
				seller,
				params,
				`["bidsSummary","marketOverview","topPerformer"]`,
				status,
				fileKey,
				createdAt,
			)
		}

		stmt += strings.Join(placeholders, ",")
		if _, err := db.Exec(stmt, vals...); err != nil {
			panic(err)
		}
	}

	slog.Info("Report seeding complete", "duration", time.Since(start))
}
