// -----------------------------------------------------------------------
// Schema Editor Service
// Authoring operations over a working copy of a report template
// -----------------------------------------------------------------------

package schema

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/layout"
)

// Editor mutates a working copy of a template. The original passed to
// NewEditor is never touched; call Template() to obtain the edited result
// for persistence. One editor serves one author - concurrent edits of the
// same template are not modeled.
type Editor struct {
	template *models.Template
	logger   arbor.ILogger
}

// NewEditor creates an editor over a deep copy of the given template
func NewEditor(template *models.Template, logger arbor.ILogger) *Editor {
	return &Editor{
		template: template.Clone(),
		logger:   logger,
	}
}

// Template returns the working copy
func (e *Editor) Template() *models.Template {
	return e.template
}

// AddSection appends a new section of the given type with type-appropriate
// defaults. A new checklist starts with 2 columns and 4 placeholder items.
func (e *Editor) AddSection(sectionType models.SectionType) error {
	if !models.IsValidSectionType(sectionType) {
		return fmt.Errorf("unknown section type: %s", sectionType)
	}

	e.template.Sections = append(e.template.Sections, defaultSection(sectionType))

	e.logger.Debug().
		Str("template_id", e.template.ID).
		Str("type", string(sectionType)).
		Int("sections", len(e.template.Sections)).
		Msg("Added section")
	return nil
}

// RemoveSection deletes the section at the given index
func (e *Editor) RemoveSection(index int) error {
	if err := e.checkSectionIndex(index); err != nil {
		return err
	}
	e.template.Sections = append(e.template.Sections[:index], e.template.Sections[index+1:]...)
	return nil
}

// MoveSectionUp swaps the section with its predecessor. Moving the first
// section is a no-op, not an error.
func (e *Editor) MoveSectionUp(index int) error {
	if err := e.checkSectionIndex(index); err != nil {
		return err
	}
	if index == 0 {
		return nil
	}
	sections := e.template.Sections
	sections[index-1], sections[index] = sections[index], sections[index-1]
	return nil
}

// MoveSectionDown swaps the section with its successor. Moving the last
// section is a no-op, not an error.
func (e *Editor) MoveSectionDown(index int) error {
	if err := e.checkSectionIndex(index); err != nil {
		return err
	}
	sections := e.template.Sections
	if index == len(sections)-1 {
		return nil
	}
	sections[index], sections[index+1] = sections[index+1], sections[index]
	return nil
}

// SetField mutates one authoring field on the section at the given index.
// Field names match the section's JSON keys.
func (e *Editor) SetField(index int, field string, value interface{}) error {
	if err := e.checkSectionIndex(index); err != nil {
		return err
	}
	section := &e.template.Sections[index]

	switch field {
	case "title":
		return assignString(field, value, &section.Title)
	case "required":
		return assignBool(field, value, &section.Required)
	case "width":
		var s string
		if err := assignString(field, value, &s); err != nil {
			return err
		}
		section.Width = models.SectionWidth(s)
	case "display":
		var s string
		if err := assignString(field, value, &s); err != nil {
			return err
		}
		section.Display = models.SectionDisplay(s)
	case "layout":
		var s string
		if err := assignString(field, value, &s); err != nil {
			return err
		}
		section.Layout = models.SectionLayout(s)
	case "content":
		return assignString(field, value, &section.Content)
	case "placeholder":
		return assignString(field, value, &section.Placeholder)
	case "options":
		options, ok := value.([]string)
		if !ok {
			return fmt.Errorf("field %s requires a string list, got %T", field, value)
		}
		section.Options = append([]string(nil), options...)
	case "columns":
		columns, ok := value.(int)
		if !ok {
			return fmt.Errorf("field %s requires an int, got %T", field, value)
		}
		if columns < 1 {
			return fmt.Errorf("field %s must be at least 1", field)
		}
		section.Columns = columns
	case "allow_notes":
		return assignBool(field, value, &section.AllowNotes)
	case "summarize_selected":
		return assignBool(field, value, &section.SummarizeSelected)
	default:
		return fmt.Errorf("unknown section field: %s", field)
	}
	return nil
}

// AddChecklistItem appends one item to a checklist section
func (e *Editor) AddChecklistItem(index int, text string) error {
	section, err := e.checklistSection(index)
	if err != nil {
		return err
	}
	section.ChecklistItems = append(section.ChecklistItems, text)
	return nil
}

// SetChecklistItem rewrites the text of one checklist item in place. The
// item keeps its index, so captured selections keyed on it stay attached.
func (e *Editor) SetChecklistItem(index, itemIndex int, text string) error {
	section, err := e.checklistSection(index)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(section.ChecklistItems) {
		return fmt.Errorf("checklist item index out of range: %d", itemIndex)
	}
	section.ChecklistItems[itemIndex] = text
	return nil
}

// RemoveChecklistItem deletes one checklist item. Item position is item
// identity, so later items shift down and previously captured selections at
// those indexes re-target - the storage shape keeps this behavior for wire
// compatibility with existing reports.
func (e *Editor) RemoveChecklistItem(index, itemIndex int) error {
	section, err := e.checklistSection(index)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(section.ChecklistItems) {
		return fmt.Errorf("checklist item index out of range: %d", itemIndex)
	}
	section.ChecklistItems = append(section.ChecklistItems[:itemIndex], section.ChecklistItems[itemIndex+1:]...)
	return nil
}

// SetChecklistItemsFromText replaces a checklist's items from
// newline-delimited text. Blank lines are dropped.
func (e *Editor) SetChecklistItemsFromText(index int, text string) error {
	section, err := e.checklistSection(index)
	if err != nil {
		return err
	}

	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	section.ChecklistItems = items
	return nil
}

// PreviewGrid returns the checklist's items arranged the way the report
// renderer will show them: transposed into row-major order and sliced into
// rows. Empty trailing cells appear as empty strings.
func (e *Editor) PreviewGrid(index int) ([][]string, error) {
	section, err := e.checklistSection(index)
	if err != nil {
		return nil, err
	}
	columns := section.Columns
	if columns < 1 {
		columns = 1
	}
	return layout.Rows(layout.Transpose(section.ChecklistItems, columns), columns), nil
}

// Duplicate returns a copy of the working template under a new identity,
// ready to be stored as a separate template.
func (e *Editor) Duplicate(newID string) *models.Template {
	copy := e.template.Clone()
	copy.ID = newID
	copy.Name = e.template.Name + " (Copy)"
	return copy
}

func (e *Editor) checkSectionIndex(index int) error {
	if index < 0 || index >= len(e.template.Sections) {
		return fmt.Errorf("section index out of range: %d", index)
	}
	return nil
}

func (e *Editor) checklistSection(index int) (*models.Section, error) {
	if err := e.checkSectionIndex(index); err != nil {
		return nil, err
	}
	section := &e.template.Sections[index]
	if section.Type != models.SectionTypeChecklist {
		return nil, fmt.Errorf("section %d is not a checklist (type: %s)", index, section.Type)
	}
	return section, nil
}

func assignString(field string, value interface{}, target *string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %s requires a string, got %T", field, value)
	}
	*target = s
	return nil
}

func assignBool(field string, value interface{}, target *bool) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("field %s requires a bool, got %T", field, value)
	}
	*target = b
	return nil
}
