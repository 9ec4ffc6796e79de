package models

import (
	"fmt"
	"time"
)

// SectionType identifies the kind of field a section captures
type SectionType string

// SectionType constants - the closed set of section variants
const (
	SectionTypeStatic    SectionType = "static"
	SectionTypeText      SectionType = "text"
	SectionTypeTextarea  SectionType = "textarea"
	SectionTypeNumber    SectionType = "number"
	SectionTypeDate      SectionType = "date"
	SectionTypeCheckbox  SectionType = "checkbox"
	SectionTypeSelect    SectionType = "select"
	SectionTypeSignature SectionType = "signature"
	SectionTypePhoto     SectionType = "photo"
	SectionTypeChecklist SectionType = "checklist"
)

// AllSectionTypes lists every valid section type in display order
var AllSectionTypes = []SectionType{
	SectionTypeStatic,
	SectionTypeText,
	SectionTypeTextarea,
	SectionTypeNumber,
	SectionTypeDate,
	SectionTypeCheckbox,
	SectionTypeSelect,
	SectionTypeSignature,
	SectionTypePhoto,
	SectionTypeChecklist,
}

// IsValidSectionType checks if a given SectionType is one of the valid constants
func IsValidSectionType(t SectionType) bool {
	switch t {
	case SectionTypeStatic, SectionTypeText, SectionTypeTextarea, SectionTypeNumber,
		SectionTypeDate, SectionTypeCheckbox, SectionTypeSelect, SectionTypeSignature,
		SectionTypePhoto, SectionTypeChecklist:
		return true
	default:
		return false
	}
}

// SectionWidth controls how much horizontal space a section occupies
type SectionWidth string

const (
	WidthFull    SectionWidth = "full"
	WidthHalf    SectionWidth = "half"
	WidthThird   SectionWidth = "third"
	WidthQuarter SectionWidth = "quarter"
)

// SectionDisplay controls how a section's label and value are arranged
type SectionDisplay string

const (
	DisplayBlock  SectionDisplay = "block"
	DisplayInline SectionDisplay = "inline"
	DisplayGrid   SectionDisplay = "grid"
)

// SectionLayout controls how a section flows relative to its neighbours
type SectionLayout string

const (
	LayoutFull    SectionLayout = "full"
	LayoutStacked SectionLayout = "stacked"
	LayoutRow     SectionLayout = "row"
	LayoutColumns SectionLayout = "columns"
)

// Section is one field/block definition within a Template, tagged by Type.
// Only the fields matching the section's type are meaningful:
//   - static: Content (author-fixed text, never captured from a user)
//   - text/textarea/number/date/checkbox/select: Placeholder; select also Options
//   - signature/photo: no extra fields (value is captured at runtime)
//   - checklist: Columns, ChecklistItems, AllowNotes, SummarizeSelected
//
// A checklist item's position in ChecklistItems is its identity: selection
// state and notes are keyed by that index, not by item text. Reordering or
// deleting items re-targets captured selections on reports materialized
// afterwards; previously materialized reports are unaffected because they
// carry their own snapshot of the section.
type Section struct {
	Title    string         `json:"title"`
	Type     SectionType    `json:"type"`
	Required bool           `json:"required"`
	Width    SectionWidth   `json:"width"`
	Display  SectionDisplay `json:"display"`
	Layout   SectionLayout  `json:"layout"`

	// static
	Content string `json:"content,omitempty"`

	// text-like inputs
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"` // select only

	// checklist
	Columns           int      `json:"columns,omitempty"`
	ChecklistItems    []string `json:"checklist_items,omitempty"`
	AllowNotes        bool     `json:"allow_notes,omitempty"`
	SummarizeSelected bool     `json:"summarize_selected,omitempty"`
}

// Clone returns a deep copy of the section
func (s *Section) Clone() Section {
	out := *s
	if s.Options != nil {
		out.Options = make([]string, len(s.Options))
		copy(out.Options, s.Options)
	}
	if s.ChecklistItems != nil {
		out.ChecklistItems = make([]string, len(s.ChecklistItems))
		copy(out.ChecklistItems, s.ChecklistItems)
	}
	return out
}

// Template is an authored, reusable schema of ordered sections plus a logo.
// The logo is an embedded image stored as a data URI string so templates
// round-trip through JSON storage as a single document.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	Logo        string    `json:"logo,omitempty"`
	Sections    []Section `json:"sections"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the template
func (t *Template) Clone() *Template {
	out := *t
	out.Sections = make([]Section, len(t.Sections))
	for i := range t.Sections {
		out.Sections[i] = t.Sections[i].Clone()
	}
	return &out
}

// SchemaError describes why a template failed validation
type SchemaError struct {
	SectionIndex int    // index of the offending section, -1 for template-level errors
	Field        string // offending field name
	Message      string
}

func (e *SchemaError) Error() string {
	if e.SectionIndex < 0 {
		return fmt.Sprintf("invalid template: %s", e.Message)
	}
	return fmt.Sprintf("invalid template: section %d (%s): %s", e.SectionIndex, e.Field, e.Message)
}

// Validate checks the template's structural invariants. It returns the first
// violation found as a *SchemaError: an empty section title, a checklist with
// fewer than 1 column, or a select with zero options.
func (t *Template) Validate() error {
	for i := range t.Sections {
		section := &t.Sections[i]

		if section.Title == "" {
			return &SchemaError{SectionIndex: i, Field: "title", Message: "title is required"}
		}
		if !IsValidSectionType(section.Type) {
			return &SchemaError{SectionIndex: i, Field: "type", Message: fmt.Sprintf("unknown section type: %s", section.Type)}
		}

		switch section.Type {
		case SectionTypeChecklist:
			if section.Columns < 1 {
				return &SchemaError{SectionIndex: i, Field: "columns", Message: "checklist requires at least 1 column"}
			}
		case SectionTypeSelect:
			if len(section.Options) == 0 {
				return &SchemaError{SectionIndex: i, Field: "options", Message: "select requires at least one option"}
			}
		}
	}
	return nil
}
