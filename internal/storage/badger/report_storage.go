package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

// ReportStorage implements the ReportStorage interface for Badger. Reports
// are write-once: Create refuses to overwrite and no update exists.
type ReportStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewReportStorage creates a new ReportStorage instance
func NewReportStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ReportStorage {
	return &ReportStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ReportStorage) Create(ctx context.Context, content *models.ReportContent) (string, error) {
	if content.TemplateID == "" {
		return "", fmt.Errorf("report template ID is required")
	}

	if content.ID == "" {
		content.ID = common.NewReportID()
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}

	// Insert, not Upsert - stored reports are immutable
	if err := s.db.Store().Insert(content.ID, content); err != nil {
		if err == badgerhold.ErrKeyExists {
			return "", fmt.Errorf("report already exists: %s", content.ID)
		}
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Debug().
		Str("report_id", content.ID).
		Str("template_id", content.TemplateID).
		Int("sections", len(content.Sections)).
		Msg("Stored report content")

	return content.ID, nil
}

func (s *ReportStorage) Get(ctx context.Context, id string) (*models.ReportContent, error) {
	var content models.ReportContent
	if err := s.db.Store().Get(id, &content); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("report not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &content, nil
}

func (s *ReportStorage) List(ctx context.Context, limit, offset int) ([]*models.ReportContent, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Skip(offset)
	}

	var reports []models.ReportContent
	if err := s.db.Store().Find(&reports, query); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	out := make([]*models.ReportContent, len(reports))
	for i := range reports {
		out[i] = &reports[i]
	}
	return out, nil
}

func (s *ReportStorage) ListByTemplate(ctx context.Context, templateID string) ([]*models.ReportContent, error) {
	var reports []models.ReportContent
	query := badgerhold.Where("TemplateID").Eq(templateID).SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&reports, query); err != nil {
		return nil, fmt.Errorf("failed to list reports for template %s: %w", templateID, err)
	}

	out := make([]*models.ReportContent, len(reports))
	for i := range reports {
		out[i] = &reports[i]
	}
	return out, nil
}

func (s *ReportStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.ReportContent{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return int(count), nil
}
