package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
)

// TemplateStorage implements the TemplateStorage interface for Badger
type TemplateStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTemplateStorage creates a new TemplateStorage instance
func NewTemplateStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TemplateStorage {
	return &TemplateStorage{
		db:     db,
		logger: logger,
	}
}

// Upsert stores a template, assigning an ID and timestamps as needed. The
// template is validated before it touches the store.
func (s *TemplateStorage) Upsert(ctx context.Context, template *models.Template) (*models.Template, error) {
	if err := template.Validate(); err != nil {
		return nil, err
	}

	if template.ID == "" {
		template.ID = common.NewTemplateID()
	}

	now := time.Now()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	if err := s.db.Store().Upsert(template.ID, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Debug().
		Str("template_id", template.ID).
		Int("sections", len(template.Sections)).
		Msg("Saved template")

	return template, nil
}

func (s *TemplateStorage) Get(ctx context.Context, id string) (*models.Template, error) {
	var template models.Template
	if err := s.db.Store().Get(id, &template); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("template not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

func (s *TemplateStorage) List(ctx context.Context, activeOnly bool) ([]*models.Template, error) {
	query := badgerhold.Where("ID").Ne("")
	if activeOnly {
		query = badgerhold.Where("IsActive").Eq(true)
	}

	var templates []models.Template
	if err := s.db.Store().Find(&templates, query); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	out := make([]*models.Template, len(templates))
	for i := range templates {
		out[i] = &templates[i]
	}
	return out, nil
}

func (s *TemplateStorage) Delete(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Template{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *TemplateStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Template{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	return int(count), nil
}
