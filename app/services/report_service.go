package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// UploadRecord describes one object delivered (or not) to one bucket
type UploadRecord struct {
	Table    string
	ThreadID int
	Bucket   string
	Key      string
	Rows     int
	Bytes    int
	Attempts int
	Status   string
	Duration time.Duration
	Error    string
}

// JobSummary is the header block of a report
type JobSummary struct {
	RunID          string
	JobID          string
	JobIndex       int
	PartitionDate  string
	PartitionOrder int64
	Threads        int
	RowsPerThread  int
	Chargebacks    int
	StartedAt      time.Time
	FinishedAt     time.Time
	Succeeded      bool
}

// ReportService renders job reports
type ReportService interface {
	Render(summary JobSummary, uploads []UploadRecord) ([]byte, error)
	Write(path string, summary JobSummary, uploads []UploadRecord) error
}

// ExcelReportService implements ReportService as an xlsx workbook
type ExcelReportService struct{}

// NewReportService creates a new report service
func NewReportService() ReportService {
	return &ExcelReportService{}
}

const (
	summarySheet = "Summary"
	uploadsSheet = "Uploads"
)

// Render builds the workbook in memory
func (s *ExcelReportService) Render(summary JobSummary, uploads []UploadRecord) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	// Rename default sheet
	if err := xl.SetSheetName(xl.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	summaryRows := [][]string{
		{"run_id", summary.RunID},
		{"job_id", summary.JobID},
		{"job_index", strconv.Itoa(summary.JobIndex)},
		{"partition_date", summary.PartitionDate},
		{"partition_order", strconv.FormatInt(summary.PartitionOrder, 10)},
		{"threads", strconv.Itoa(summary.Threads)},
		{"rows_per_thread", strconv.Itoa(summary.RowsPerThread)},
		{"chargebacks", strconv.Itoa(summary.Chargebacks)},
		{"started_at", summary.StartedAt.UTC().Format(time.RFC3339)},
		{"finished_at", summary.FinishedAt.UTC().Format(time.RFC3339)},
		{"succeeded", strconv.FormatBool(summary.Succeeded)},
	}
	for i, row := range summaryRows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := xl.SetSheetRow(summarySheet, cellRef, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row %d: %w", i, err)
		}
	}

	if _, err := xl.NewSheet(uploadsSheet); err != nil {
		return nil, fmt.Errorf("failed to create uploads sheet: %w", err)
	}
	header := []string{"table", "thread_id", "bucket", "key", "rows", "bytes", "attempts", "status", "duration_ms", "error"}
	_ = xl.SetSheetRow(uploadsSheet, "A1", &header)

	for i, u := range uploads {
		record := []any{
			u.Table,
			u.ThreadID,
			u.Bucket,
			u.Key,
			u.Rows,
			u.Bytes,
			u.Attempts,
			u.Status,
			u.Duration.Milliseconds(),
			u.Error,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(uploadsSheet, cellRef, &record); err != nil {
			return nil, fmt.Errorf("failed to write upload row %d: %w", i, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the workbook to path, creating parent directories
func (s *ExcelReportService) Write(path string, summary JobSummary, uploads []UploadRecord) error {
	data, err := s.Render(summary, uploads)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
