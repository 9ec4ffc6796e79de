package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/capture"
	"github.com/ternarybob/refero/internal/services/images"
)

// stubNormalizer records calls and returns a canned result or error
type stubNormalizer struct {
	result string
	err    error
	calls  int
}

func (s *stubNormalizer) Normalize(ctx context.Context, dataURI string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.result != "" {
		return s.result, nil
	}
	return dataURI, nil
}

func checklistTemplate() *models.Template {
	return &models.Template{
		ID:   "tpl_1",
		Name: "Site Inspection",
		Logo: "data:image/png;base64,bG9nbw==",
		Sections: []models.Section{
			{Title: "Instructions", Type: models.SectionTypeStatic, Content: "Walk the site clockwise."},
			{Title: "Inspector Notes", Type: models.SectionTypeText, Required: true},
			{Title: "Checked Items", Type: models.SectionTypeChecklist, Columns: 2,
				ChecklistItems: []string{"Foo", "Bar", "Baz"}, AllowNotes: true},
		},
	}
}

func TestMaterializeSnapshotsSections(t *testing.T) {
	logger := arbor.NewLogger()
	materializer := NewMaterializer(&stubNormalizer{}, logger)

	template := checklistTemplate()
	session := capture.NewSession(template, logger)
	require.NoError(t, session.SetValue(1, "north wall cracked"))

	content, err := materializer.Materialize(context.Background(), template, session,
		models.CustomerSnapshot{ID: "cust_1", Name: "Acme"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "tpl_1", content.TemplateID)
	assert.Equal(t, "Site Inspection", content.TemplateName)
	assert.Equal(t, template.Logo, content.Logo)
	assert.Equal(t, "cust_1", content.Customer.ID)
	assert.Nil(t, content.Job)
	assert.False(t, content.CreatedAt.IsZero())
	require.Len(t, content.Sections, 3)

	// Static sections copy authored content, ignoring the session
	assert.Equal(t, "Walk the site clockwise.", content.Sections[0].Value)
	assert.Equal(t, "north wall cracked", content.Sections[1].Value)

	// Snapshot invariant: editing the template afterwards changes nothing
	template.Sections[1].Title = "Edited Later"
	template.Sections = template.Sections[:1]
	assert.Equal(t, "Inspector Notes", content.Sections[1].Title)
	assert.Len(t, content.Sections, 3)
}

func TestMaterializeSelectedItemsKeepItemOrder(t *testing.T) {
	logger := arbor.NewLogger()
	materializer := NewMaterializer(&stubNormalizer{}, logger)

	template := checklistTemplate()
	session := capture.NewSession(template, logger)
	// Click order deliberately reversed: Baz before Foo
	require.NoError(t, session.SetChecklistValue(2, 2, true))
	require.NoError(t, session.SetChecklistNote(2, 2, "loose"))
	require.NoError(t, session.SetChecklistValue(2, 0, true))

	content, err := materializer.Materialize(context.Background(), template, session,
		models.CustomerSnapshot{ID: "cust_1"}, nil)
	require.NoError(t, err)

	selected := content.Sections[2].SelectedItems
	require.Len(t, selected, 2)
	assert.Equal(t, "Foo", selected[0].Text)
	assert.Nil(t, selected[0].Note)
	assert.Equal(t, "Baz", selected[1].Text)
	require.NotNil(t, selected[1].Note)
	assert.Equal(t, "loose", *selected[1].Note)
}

func TestMaterializeEmptyChecklist(t *testing.T) {
	logger := arbor.NewLogger()
	materializer := NewMaterializer(&stubNormalizer{}, logger)

	template := checklistTemplate()
	session := capture.NewSession(template, logger)
	require.NoError(t, session.SetValue(1, "done"))

	content, err := materializer.Materialize(context.Background(), template, session,
		models.CustomerSnapshot{}, nil)
	require.NoError(t, err)

	checklist := content.Sections[2]
	value, ok := checklist.Value.(*models.ChecklistValue)
	require.True(t, ok)
	assert.Equal(t, 0, value.SelectedCount())
	assert.Equal(t, []models.SelectedItem{}, checklist.SelectedItems)
}

func TestMaterializePhotoNormalization(t *testing.T) {
	logger := arbor.NewLogger()
	template := &models.Template{
		ID: "tpl_photo",
		Sections: []models.Section{
			{Title: "Site Photo", Type: models.SectionTypePhoto},
			{Title: "Signature", Type: models.SectionTypeSignature},
		},
	}

	normalizer := &stubNormalizer{result: "data:image/jpeg;base64,bm9ybWFsaXplZA=="}
	materializer := NewMaterializer(normalizer, logger)

	session := capture.NewSession(template, logger)
	require.NoError(t, session.SetValue(0, "data:image/png;base64,cmF3"))
	require.NoError(t, session.SetValue(1, "data:image/png;base64,c2ln"))

	content, err := materializer.Materialize(context.Background(), template, session,
		models.CustomerSnapshot{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "data:image/jpeg;base64,bm9ybWFsaXplZA==", content.Sections[0].Value)
	// Signatures pass through untouched; only photos are normalized
	assert.Equal(t, "data:image/png;base64,c2ln", content.Sections[1].Value)
	assert.Equal(t, 1, normalizer.calls)
}

func TestMaterializePhotoDecodeFailureFallsBack(t *testing.T) {
	logger := arbor.NewLogger()
	template := &models.Template{
		Sections: []models.Section{{Title: "Site Photo", Type: models.SectionTypePhoto}},
	}

	normalizer := &stubNormalizer{err: &images.DecodeError{Reason: "unrecognized image data"}}
	materializer := NewMaterializer(normalizer, logger)

	session := capture.NewSession(template, logger)
	require.NoError(t, session.SetValue(0, "data:image/png;base64,broken"))

	content, err := materializer.Materialize(context.Background(), template, session,
		models.CustomerSnapshot{}, nil)
	require.NoError(t, err, "photo failure is absorbed, never surfaced")

	assert.Equal(t, "data:image/png;base64,broken", content.Sections[0].Value)
}

func TestMaterializeSkipsEmptyPhoto(t *testing.T) {
	logger := arbor.NewLogger()
	template := &models.Template{
		Sections: []models.Section{{Title: "Site Photo", Type: models.SectionTypePhoto}},
	}

	normalizer := &stubNormalizer{}
	materializer := NewMaterializer(normalizer, logger)
	session := capture.NewSession(template, logger)

	content, err := materializer.Materialize(context.Background(), template, session,
		models.CustomerSnapshot{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "", content.Sections[0].Value)
	assert.Equal(t, 0, normalizer.calls, "normalizer must not run for uncaptured photos")
}

// TestMaterializeIdempotent verifies materializing the same unchanged
// inputs twice yields structurally equal content apart from CreatedAt.
func TestMaterializeIdempotent(t *testing.T) {
	logger := arbor.NewLogger()
	materializer := NewMaterializer(&stubNormalizer{}, logger)

	template := checklistTemplate()
	session := capture.NewSession(template, logger)
	require.NoError(t, session.SetValue(1, "stable"))
	require.NoError(t, session.SetChecklistValue(2, 1, true))

	customer := models.CustomerSnapshot{ID: "cust_1", Name: "Acme"}

	first, err := materializer.Materialize(context.Background(), template, session, customer, nil)
	require.NoError(t, err)
	second, err := materializer.Materialize(context.Background(), template, session, customer, nil)
	require.NoError(t, err)

	first.CreatedAt = second.CreatedAt
	assert.Equal(t, first, second)
}

// TestCaptureToMaterializeFlow walks the full pipeline: author, capture,
// validate, fix the violation, then materialize.
func TestCaptureToMaterializeFlow(t *testing.T) {
	logger := arbor.NewLogger()
	template := &models.Template{
		ID:   "tpl_e2e",
		Name: "End To End",
		Sections: []models.Section{
			{Title: "Inspector Notes", Type: models.SectionTypeText, Required: true},
			{Title: "Checked Items", Type: models.SectionTypeChecklist, Columns: 2,
				ChecklistItems: []string{"One", "Two", "Three", "Four"}},
		},
	}
	require.NoError(t, template.Validate())

	session := capture.NewSession(template, logger)

	violation := session.Validate()
	require.NotNil(t, violation)
	assert.Equal(t, "Inspector Notes", violation.SectionTitle)

	require.NoError(t, session.SetValue(0, "all good"))
	require.Nil(t, session.Validate())

	materializer := NewMaterializer(&stubNormalizer{}, logger)
	content, err := materializer.Materialize(context.Background(), template, session,
		models.CustomerSnapshot{ID: "cust_1"}, nil)
	require.NoError(t, err)

	checklist := content.Sections[1]
	value, ok := checklist.Value.(*models.ChecklistValue)
	require.True(t, ok)
	assert.Equal(t, 0, value.SelectedCount())
	assert.Equal(t, []models.SelectedItem{}, checklist.SelectedItems)
}
