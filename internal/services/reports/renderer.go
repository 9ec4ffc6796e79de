// -----------------------------------------------------------------------
// Report Renderer Service
// Read-only display tree for stored report content
// -----------------------------------------------------------------------

package reports

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/layout"
)

// NodeKind identifies the shape of a rendered display node
type NodeKind string

const (
	NodeKindStatic  NodeKind = "static"
	NodeKindText    NodeKind = "text"
	NodeKindBoolean NodeKind = "boolean"
	NodeKindImage   NodeKind = "image"
	NodeKindGrid    NodeKind = "grid"
)

// GridCell is one cell in a rendered checklist grid. Empty cells come from
// the transposition's unfilled positions and are skipped by display layers.
type GridCell struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
	Note    string `json:"note,omitempty"`
	Empty   bool   `json:"empty,omitempty"`
}

// DisplayNode is one rendered section. Exactly the fields matching Kind are
// populated.
type DisplayNode struct {
	Title   string                `json:"title"`
	Type    models.SectionType    `json:"type"`
	Kind    NodeKind              `json:"kind"`
	Width   models.SectionWidth   `json:"width,omitempty"`
	Display models.SectionDisplay `json:"display,omitempty"`
	Layout  models.SectionLayout  `json:"layout,omitempty"`

	Text    string                `json:"text,omitempty"`
	Checked bool                  `json:"checked,omitempty"`
	Image   string                `json:"image,omitempty"`
	Grid    [][]GridCell          `json:"grid,omitempty"`
	Notes   []models.SelectedItem `json:"notes,omitempty"`
	Summary string                `json:"summary,omitempty"`
}

// DisplayDocument is the read-only display tree for one stored report
type DisplayDocument struct {
	TemplateName string                  `json:"template_name"`
	Logo         string                  `json:"logo,omitempty"`
	Customer     models.CustomerSnapshot `json:"customer"`
	Job          *models.JobSnapshot     `json:"job,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	Nodes        []DisplayNode           `json:"nodes"`
}

type renderFunc func(*models.ProcessedSection) DisplayNode

// renderFuncs is the closed dispatch table, one renderer per section type.
// Adding a section type without registering a renderer here fails at
// process start, not at render time.
var renderFuncs = map[models.SectionType]renderFunc{
	models.SectionTypeStatic:    renderStatic,
	models.SectionTypeText:      renderText,
	models.SectionTypeTextarea:  renderText,
	models.SectionTypeNumber:    renderText,
	models.SectionTypeDate:      renderText,
	models.SectionTypeCheckbox:  renderCheckbox,
	models.SectionTypeSelect:    renderText,
	models.SectionTypeSignature: renderImage,
	models.SectionTypePhoto:     renderImage,
	models.SectionTypeChecklist: renderChecklist,
}

func init() {
	for _, sectionType := range models.AllSectionTypes {
		if _, ok := renderFuncs[sectionType]; !ok {
			panic(fmt.Sprintf("reports: no renderer registered for section type %q", sectionType))
		}
	}
}

// Renderer turns stored report content into a display tree. It only ever
// reads the snapshot carried by the ReportContent - never a live template -
// so reports render identically no matter how the template changed since.
type Renderer struct {
	logger arbor.ILogger
}

// NewRenderer creates a new report renderer
func NewRenderer(logger arbor.ILogger) *Renderer {
	return &Renderer{logger: logger}
}

// Render builds the display tree for one report
func (r *Renderer) Render(content *models.ReportContent) *DisplayDocument {
	nodes := make([]DisplayNode, 0, len(content.Sections))
	for i := range content.Sections {
		section := &content.Sections[i]
		render, ok := renderFuncs[section.Type]
		if !ok {
			// Legacy/malformed section shape: degrade to a plain text node
			r.logger.Warn().
				Str("type", string(section.Type)).
				Str("title", section.Title).
				Msg("Unknown section type in stored report, rendering as text")
			render = renderText
		}
		nodes = append(nodes, render(section))
	}

	return &DisplayDocument{
		TemplateName: content.TemplateName,
		Logo:         content.Logo,
		Customer:     content.Customer,
		Job:          content.Job,
		CreatedAt:    content.CreatedAt,
		Nodes:        nodes,
	}
}

func baseNode(section *models.ProcessedSection, kind NodeKind) DisplayNode {
	return DisplayNode{
		Title:   section.Title,
		Type:    section.Type,
		Kind:    kind,
		Width:   section.Width,
		Display: section.Display,
		Layout:  section.Layout,
	}
}

func renderStatic(section *models.ProcessedSection) DisplayNode {
	node := baseNode(section, NodeKindStatic)
	node.Text = section.Content
	return node
}

func renderText(section *models.ProcessedSection) DisplayNode {
	node := baseNode(section, NodeKindText)
	if text, ok := section.Value.(string); ok {
		node.Text = text
	}
	return node
}

func renderCheckbox(section *models.ProcessedSection) DisplayNode {
	node := baseNode(section, NodeKindBoolean)
	if checked, ok := section.Value.(bool); ok {
		node.Checked = checked
	}
	return node
}

func renderImage(section *models.ProcessedSection) DisplayNode {
	node := baseNode(section, NodeKindImage)
	if image, ok := section.Value.(string); ok {
		node.Image = image
	}
	return node
}

// renderChecklist reconstructs the same visual grid the editor preview
// showed, using the columns value stored in the ProcessedSection at capture
// time - never a live template's current columns.
func renderChecklist(section *models.ProcessedSection) DisplayNode {
	node := baseNode(section, NodeKindGrid)

	if len(section.ChecklistItems) == 0 {
		// Legacy section shape with no items defined
		node.Text = "No items defined"
		return node
	}

	value, _ := section.Value.(*models.ChecklistValue)

	cells := make([]GridCell, len(section.ChecklistItems))
	for i, text := range section.ChecklistItems {
		cells[i] = GridCell{
			Text:    text,
			Checked: value.IsChecked(i),
		}
		if note, ok := value.Note(i); ok {
			cells[i].Note = note
		}
	}

	columns := section.Columns
	if columns < 1 {
		columns = 1
	}

	transposed := layout.Transpose(cells, columns)
	for i := range transposed {
		if transposed[i].Text == "" {
			transposed[i].Empty = true
		}
	}
	node.Grid = layout.Rows(transposed, columns)

	if section.SummarizeSelected {
		node.Summary = fmt.Sprintf("%d of %d items selected", len(section.SelectedItems), len(section.ChecklistItems))
	}
	if section.AllowNotes {
		node.Notes = section.SelectedItems
	}

	return node
}
