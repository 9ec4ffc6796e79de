package schema

import "github.com/ternarybob/refero/internal/models"

// defaultSection builds a section with type-appropriate authoring defaults
func defaultSection(sectionType models.SectionType) models.Section {
	section := models.Section{
		Title:   "New Section",
		Type:    sectionType,
		Width:   models.WidthFull,
		Display: models.DisplayBlock,
		Layout:  models.LayoutFull,
	}

	switch sectionType {
	case models.SectionTypeChecklist:
		section.Display = models.DisplayGrid
		section.Columns = 2
		section.ChecklistItems = []string{"Item 1", "Item 2", "Item 3", "Item 4"}
	case models.SectionTypeSelect:
		section.Options = []string{"Option 1"}
	}

	return section
}
