package interfaces

import (
	"context"

	"github.com/ternarybob/refero/internal/models"
)

// TemplateStorage - interface for template persistence. Templates round-trip
// as ordered documents: section order and the embedded logo survive storage.
type TemplateStorage interface {
	Upsert(ctx context.Context, template *models.Template) (*models.Template, error)
	Get(ctx context.Context, id string) (*models.Template, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Template, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ReportStorage - interface for materialized report persistence. Reports are
// immutable once created: there is no update operation.
type ReportStorage interface {
	Create(ctx context.Context, content *models.ReportContent) (string, error)
	Get(ctx context.Context, id string) (*models.ReportContent, error)
	List(ctx context.Context, limit, offset int) ([]*models.ReportContent, error)
	ListByTemplate(ctx context.Context, templateID string) ([]*models.ReportContent, error)
	Count(ctx context.Context) (int, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	TemplateStorage() TemplateStorage
	ReportStorage() ReportStorage
	Close() error
}
