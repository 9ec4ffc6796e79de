// -----------------------------------------------------------------------
// Content Materializer Service
// Freezes a template plus an in-progress capture session into an
// immutable, storable report document
// -----------------------------------------------------------------------

package reports

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/capture"
)

// Materializer combines a template, a capture session, and external
// customer/job snapshots into a ReportContent document
type Materializer struct {
	normalizer interfaces.ImageNormalizer
	logger     arbor.ILogger
}

// NewMaterializer creates a new materializer
func NewMaterializer(normalizer interfaces.ImageNormalizer, logger arbor.ILogger) *Materializer {
	return &Materializer{
		normalizer: normalizer,
		logger:     logger,
	}
}

// Materialize walks the template's sections in order and produces one
// ProcessedSection per section. The resulting section list is a
// point-in-time snapshot: it mirrors the template's section order at the
// moment of the call, and later template edits never alter the result.
//
// Photo normalization is the only suspension point. A photo that fails to
// normalize resolves to its raw captured value rather than failing the
// whole operation, so Materialize returns an error only when the caller's
// context is already dead before processing starts.
func (m *Materializer) Materialize(ctx context.Context, template *models.Template, session *capture.Session, customer models.CustomerSnapshot, job *models.JobSnapshot) (*models.ReportContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sections := make([]models.ProcessedSection, 0, len(template.Sections))
	for i := range template.Sections {
		sections = append(sections, m.processSection(ctx, &template.Sections[i], i, session))
	}

	content := &models.ReportContent{
		TemplateID:   template.ID,
		TemplateName: template.Name,
		Logo:         template.Logo,
		Sections:     sections,
		Customer:     customer,
		Job:          job,
		CreatedAt:    time.Now().UTC(),
	}

	m.logger.Debug().
		Str("template_id", template.ID).
		Int("sections", len(sections)).
		Msg("Materialized report content")

	return content, nil
}

func (m *Materializer) processSection(ctx context.Context, section *models.Section, index int, session *capture.Session) models.ProcessedSection {
	processed := models.ProcessedSection{Section: section.Clone()}

	switch section.Type {
	case models.SectionTypeStatic:
		// Author-fixed content; the session is not consulted
		processed.Value = section.Content

	case models.SectionTypeChecklist:
		value, _ := session.Value(index).(*models.ChecklistValue)
		if value == nil {
			value = models.NewChecklistValue()
		}
		processed.Value = value.Clone()
		processed.SelectedItems = selectedItems(section.ChecklistItems, value)

	case models.SectionTypePhoto:
		processed.Value = m.normalizePhoto(ctx, index, session.Value(index))

	default:
		processed.Value = session.Value(index)
	}

	return processed
}

// normalizePhoto runs a captured photo through the image normalizer. Any
// failure is absorbed: the raw captured value wins over an aborted submit.
func (m *Materializer) normalizePhoto(ctx context.Context, index int, raw models.Value) models.Value {
	dataURI, ok := raw.(string)
	if !ok || dataURI == "" {
		return raw
	}

	normalized, err := m.normalizer.Normalize(ctx, dataURI)
	if err != nil {
		m.logger.Warn().
			Err(err).
			Int("section", index).
			Msg("Photo normalization failed, keeping original value")
		return dataURI
	}
	return normalized
}

// selectedItems collects checked items in original checklist order, never
// click order. Notes ride along; items without a note carry nil.
func selectedItems(items []string, value *models.ChecklistValue) []models.SelectedItem {
	selected := []models.SelectedItem{}
	for itemIndex, text := range items {
		if !value.IsChecked(itemIndex) {
			continue
		}
		item := models.SelectedItem{Text: text}
		if note, ok := value.Note(itemIndex); ok {
			item.Note = &note
		}
		selected = append(selected, item)
	}
	return selected
}
