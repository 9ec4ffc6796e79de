// -----------------------------------------------------------------------
// Capture Session Service
// In-progress answer values for one template instance, held in memory
// until materialized or discarded
// -----------------------------------------------------------------------

package capture

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/models"
)

// ValidationError names the first required section left incomplete
type ValidationError struct {
	SectionIndex int
	SectionTitle string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required section %q is not complete", e.SectionTitle)
}

// Session holds the in-progress answers for one capture of a template.
// Values are an ordered list parallel to the template's sections, indexed by
// section position. A session lives in memory only - it is discarded on
// submit or cancel, never persisted. One user edits one session at a time.
type Session struct {
	template *models.Template
	values   []models.Value
	logger   arbor.ILogger
}

// NewSession opens a capture session against a snapshot of the template,
// seeded with type-appropriate defaults: checkbox false, date today,
// checklist empty, everything else the empty string.
func NewSession(template *models.Template, logger arbor.ILogger) *Session {
	snapshot := template.Clone()
	values := make([]models.Value, len(snapshot.Sections))
	today := time.Now().Format("2006-01-02")

	for i := range snapshot.Sections {
		switch snapshot.Sections[i].Type {
		case models.SectionTypeCheckbox:
			values[i] = false
		case models.SectionTypeDate:
			values[i] = today
		case models.SectionTypeChecklist:
			values[i] = models.NewChecklistValue()
		default:
			values[i] = ""
		}
	}

	return &Session{
		template: snapshot,
		values:   values,
		logger:   logger,
	}
}

// Template returns the session's snapshot of the template
func (s *Session) Template() *models.Template {
	return s.template
}

// Value returns the current value for the section at the given index, or
// nil when the index is out of range.
func (s *Session) Value(sectionIndex int) models.Value {
	if sectionIndex < 0 || sectionIndex >= len(s.values) {
		return nil
	}
	return s.values[sectionIndex]
}

// SetValue records a user's answer for a plain (non-checklist) section.
// Checkbox sections take a bool, every other plain section takes a string.
func (s *Session) SetValue(sectionIndex int, value models.Value) error {
	section, err := s.section(sectionIndex)
	if err != nil {
		return err
	}

	switch section.Type {
	case models.SectionTypeChecklist:
		return fmt.Errorf("section %d is a checklist, use SetChecklistValue", sectionIndex)
	case models.SectionTypeCheckbox:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("checkbox section %d requires a bool value, got %T", sectionIndex, value)
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("section %d requires a string value, got %T", sectionIndex, value)
		}
	}

	s.values[sectionIndex] = value
	return nil
}

// SetChecklistValue sets the checked state of one checklist item. Unchecking
// an item discards any note stored at that index.
func (s *Session) SetChecklistValue(sectionIndex, itemIndex int, checked bool) error {
	value, err := s.checklistValue(sectionIndex)
	if err != nil {
		return err
	}
	value.SetChecked(itemIndex, checked)
	return nil
}

// SetChecklistNote attaches a note to one checklist item. Notes can be set
// on unchecked items; that is not guarded.
func (s *Session) SetChecklistNote(sectionIndex, itemIndex int, text string) error {
	value, err := s.checklistValue(sectionIndex)
	if err != nil {
		return err
	}
	value.SetNote(itemIndex, text)
	return nil
}

// Validate scans sections in order and returns the first required,
// non-static section whose value is missing (empty string, false, or nil).
// The scan stops at the first violation rather than aggregating.
//
// A checklist's value is an object and never counts as missing, so a
// required checklist with nothing checked passes validation. That behavior
// is long-standing and pinned by tests; callers that want a hard guarantee
// must check SelectedCount themselves.
func (s *Session) Validate() *ValidationError {
	for i := range s.template.Sections {
		section := &s.template.Sections[i]
		if !section.Required || section.Type == models.SectionTypeStatic {
			continue
		}
		if valueMissing(s.values[i]) {
			s.logger.Debug().
				Int("section", i).
				Str("title", section.Title).
				Msg("Validation stopped at incomplete required section")
			return &ValidationError{SectionIndex: i, SectionTitle: section.Title}
		}
	}
	return nil
}

func (s *Session) section(sectionIndex int) (*models.Section, error) {
	if sectionIndex < 0 || sectionIndex >= len(s.template.Sections) {
		return nil, fmt.Errorf("section index out of range: %d", sectionIndex)
	}
	return &s.template.Sections[sectionIndex], nil
}

func (s *Session) checklistValue(sectionIndex int) (*models.ChecklistValue, error) {
	section, err := s.section(sectionIndex)
	if err != nil {
		return nil, err
	}
	if section.Type != models.SectionTypeChecklist {
		return nil, fmt.Errorf("section %d is not a checklist (type: %s)", sectionIndex, section.Type)
	}
	value, ok := s.values[sectionIndex].(*models.ChecklistValue)
	if !ok || value == nil {
		value = models.NewChecklistValue()
		s.values[sectionIndex] = value
	}
	return value, nil
}

// valueMissing reports whether a captured value counts as "not answered"
func valueMissing(value models.Value) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	default:
		return false
	}
}
