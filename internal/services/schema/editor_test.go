package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/models"
)

func newEditor(t *testing.T, sections ...models.Section) *Editor {
	t.Helper()
	return NewEditor(&models.Template{
		ID:       "tpl_test",
		Name:     "Test Template",
		Sections: sections,
	}, arbor.NewLogger())
}

func TestEditorDoesNotMutateOriginal(t *testing.T) {
	original := &models.Template{
		ID:       "tpl_test",
		Sections: []models.Section{{Title: "Notes", Type: models.SectionTypeTextarea}},
	}

	editor := NewEditor(original, arbor.NewLogger())
	require.NoError(t, editor.SetField(0, "title", "Renamed"))
	require.NoError(t, editor.AddSection(models.SectionTypeText))

	assert.Equal(t, "Notes", original.Sections[0].Title)
	assert.Len(t, original.Sections, 1)
	assert.Len(t, editor.Template().Sections, 2)
}

func TestAddSectionDefaults(t *testing.T) {
	editor := newEditor(t)

	require.NoError(t, editor.AddSection(models.SectionTypeChecklist))
	require.NoError(t, editor.AddSection(models.SectionTypeSelect))
	require.NoError(t, editor.AddSection(models.SectionTypeText))

	checklist := editor.Template().Sections[0]
	assert.Equal(t, models.SectionTypeChecklist, checklist.Type)
	assert.Equal(t, 2, checklist.Columns)
	assert.Len(t, checklist.ChecklistItems, 4)
	assert.Equal(t, models.DisplayGrid, checklist.Display)

	sel := editor.Template().Sections[1]
	assert.NotEmpty(t, sel.Options)

	text := editor.Template().Sections[2]
	assert.Equal(t, models.WidthFull, text.Width)

	// Fresh defaults must pass template validation
	assert.NoError(t, editor.Template().Validate())
}

func TestAddSectionRejectsUnknownType(t *testing.T) {
	editor := newEditor(t)
	assert.Error(t, editor.AddSection(models.SectionType("slider")))
}

func TestRemoveSection(t *testing.T) {
	editor := newEditor(t,
		models.Section{Title: "First", Type: models.SectionTypeText},
		models.Section{Title: "Second", Type: models.SectionTypeText},
	)

	require.NoError(t, editor.RemoveSection(0))
	require.Len(t, editor.Template().Sections, 1)
	assert.Equal(t, "Second", editor.Template().Sections[0].Title)

	assert.Error(t, editor.RemoveSection(5))
	assert.Error(t, editor.RemoveSection(-1))
}

func TestMoveSectionBoundaries(t *testing.T) {
	editor := newEditor(t,
		models.Section{Title: "First", Type: models.SectionTypeText},
		models.Section{Title: "Second", Type: models.SectionTypeText},
		models.Section{Title: "Third", Type: models.SectionTypeText},
	)

	// Boundary moves are no-ops, not errors
	require.NoError(t, editor.MoveSectionUp(0))
	require.NoError(t, editor.MoveSectionDown(2))
	assert.Equal(t, "First", editor.Template().Sections[0].Title)
	assert.Equal(t, "Third", editor.Template().Sections[2].Title)

	require.NoError(t, editor.MoveSectionUp(2))
	assert.Equal(t, "Third", editor.Template().Sections[1].Title)
	assert.Equal(t, "Second", editor.Template().Sections[2].Title)

	require.NoError(t, editor.MoveSectionDown(0))
	assert.Equal(t, "Third", editor.Template().Sections[0].Title)
	assert.Equal(t, "First", editor.Template().Sections[1].Title)
}

func TestSetField(t *testing.T) {
	editor := newEditor(t, models.Section{Title: "Notes", Type: models.SectionTypeText})

	require.NoError(t, editor.SetField(0, "title", "Observations"))
	require.NoError(t, editor.SetField(0, "required", true))
	require.NoError(t, editor.SetField(0, "width", "half"))
	require.NoError(t, editor.SetField(0, "placeholder", "Enter observations"))

	section := editor.Template().Sections[0]
	assert.Equal(t, "Observations", section.Title)
	assert.True(t, section.Required)
	assert.Equal(t, models.WidthHalf, section.Width)
	assert.Equal(t, "Enter observations", section.Placeholder)

	assert.Error(t, editor.SetField(0, "title", 42), "wrong value type")
	assert.Error(t, editor.SetField(0, "no_such_field", "x"), "unknown field")
	assert.Error(t, editor.SetField(9, "title", "x"), "index out of range")
}

func TestSetFieldColumnsFloor(t *testing.T) {
	editor := newEditor(t, models.Section{Title: "Items", Type: models.SectionTypeChecklist, Columns: 2})

	require.NoError(t, editor.SetField(0, "columns", 3))
	assert.Equal(t, 3, editor.Template().Sections[0].Columns)

	assert.Error(t, editor.SetField(0, "columns", 0))
}

func TestChecklistItemEditing(t *testing.T) {
	editor := newEditor(t, models.Section{
		Title: "Items", Type: models.SectionTypeChecklist, Columns: 2,
		ChecklistItems: []string{"Roof", "Gutters", "Siding"},
	})

	require.NoError(t, editor.AddChecklistItem(0, "Windows"))
	require.NoError(t, editor.SetChecklistItem(0, 1, "Downpipes"))
	require.NoError(t, editor.RemoveChecklistItem(0, 0))

	// Removal shifts later items down - index is identity, so captured
	// selections at those indexes re-target.
	assert.Equal(t, []string{"Downpipes", "Siding", "Windows"}, editor.Template().Sections[0].ChecklistItems)

	assert.Error(t, editor.SetChecklistItem(0, 9, "x"))
	assert.Error(t, editor.RemoveChecklistItem(0, -1))
}

func TestChecklistOpsRejectNonChecklist(t *testing.T) {
	editor := newEditor(t, models.Section{Title: "Notes", Type: models.SectionTypeText})

	assert.Error(t, editor.AddChecklistItem(0, "x"))
	_, err := editor.PreviewGrid(0)
	assert.Error(t, err)
}

func TestSetChecklistItemsFromText(t *testing.T) {
	editor := newEditor(t, models.Section{Title: "Items", Type: models.SectionTypeChecklist, Columns: 2})

	require.NoError(t, editor.SetChecklistItemsFromText(0, "Roof\r\n  Gutters  \n\nSiding\n"))
	assert.Equal(t, []string{"Roof", "Gutters", "Siding"}, editor.Template().Sections[0].ChecklistItems)
}

func TestPreviewGrid(t *testing.T) {
	editor := newEditor(t, models.Section{
		Title: "Items", Type: models.SectionTypeChecklist, Columns: 2,
		ChecklistItems: []string{"A", "B", "C", "D", "E"},
	})

	grid, err := editor.PreviewGrid(0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "D"}, {"B", "E"}, {"C"}}, grid)
}

func TestDuplicate(t *testing.T) {
	editor := newEditor(t, models.Section{Title: "Notes", Type: models.SectionTypeText})
	editor.Template().Name = "Site Inspection"

	copy := editor.Duplicate("tpl_new")
	assert.Equal(t, "tpl_new", copy.ID)
	assert.Equal(t, "Site Inspection (Copy)", copy.Name)
	require.Len(t, copy.Sections, 1)

	copy.Sections[0].Title = "Changed"
	assert.Equal(t, "Notes", editor.Template().Sections[0].Title)
}
