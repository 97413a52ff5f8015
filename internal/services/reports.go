package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/storage"
)

// ReportService stores opaque report records.
type ReportService struct {
	store *storage.Store
	now   func() time.Time
}

func NewReportService(store *storage.Store) *ReportService {
	return &ReportService{store: store, now: time.Now}
}

// Create records a report. An empty generatedDate means now.
func (s *ReportService) Create(ctx context.Context, userID int64, reportType, generatedDate string) (int64, error) {
	if userID <= 0 {
		return 0, core.NewValidationError("userId", "must be a positive id")
	}
	reportType = strings.TrimSpace(reportType)
	if reportType == "" {
		return 0, core.NewValidationError("reportType", "must not be blank")
	}
	generated := s.now().UTC()
	if strings.TrimSpace(generatedDate) != "" {
		t, err := core.ParseDate(generatedDate)
		if err != nil {
			return 0, core.NewValidationError("generatedDate", err.Error())
		}
		generated = t
	}

	id, err := s.store.Queries().CreateReport(ctx, storage.CreateReportParams{
		UserID:        userID,
		ReportType:    reportType,
		GeneratedDate: generated,
	})
	if err != nil {
		return 0, fmt.Errorf("create report: %w", err)
	}
	return id, nil
}

func (s *ReportService) ListByUser(ctx context.Context, userID int64) ([]core.Report, error) {
	items, err := s.store.Queries().ListReportsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return items, nil
}
