package models

import "encoding/gob"

func init() {
	// ProcessedSection.Value is an interface field; badgerhold's gob codec
	// needs the concrete checklist type registered to round-trip it.
	gob.Register(&ChecklistValue{})
}

// Value is the captured answer for one section. The concrete type depends on
// the section's type:
//   - checkbox: bool
//   - date: ISO date string (2006-01-02)
//   - text/textarea/number/select: string
//   - photo/signature: image data URI string
//   - checklist: *ChecklistValue
type Value interface{}

// ChecklistValue holds per-item selection state and notes for one checklist
// section. Items are addressed by their index in the section's
// ChecklistItems list - the index is the item's identity.
type ChecklistValue struct {
	Checked map[int]bool   `json:"checked,omitempty"`
	Notes   map[int]string `json:"notes,omitempty"`
}

// NewChecklistValue returns an empty checklist value (nothing checked, no notes)
func NewChecklistValue() *ChecklistValue {
	return &ChecklistValue{
		Checked: make(map[int]bool),
		Notes:   make(map[int]string),
	}
}

// IsChecked reports whether the item at the given index is selected
func (v *ChecklistValue) IsChecked(itemIndex int) bool {
	if v == nil || v.Checked == nil {
		return false
	}
	return v.Checked[itemIndex]
}

// SetChecked sets the selection state for one item. Unchecking an item also
// discards any note stored at that index, so re-checking starts clean.
func (v *ChecklistValue) SetChecked(itemIndex int, checked bool) {
	if v.Checked == nil {
		v.Checked = make(map[int]bool)
	}
	if checked {
		v.Checked[itemIndex] = true
		return
	}
	delete(v.Checked, itemIndex)
	if v.Notes != nil {
		delete(v.Notes, itemIndex)
	}
}

// SetNote attaches a note to the item at the given index. Notes are not
// gated on checked state.
func (v *ChecklistValue) SetNote(itemIndex int, text string) {
	if v.Notes == nil {
		v.Notes = make(map[int]string)
	}
	if text == "" {
		delete(v.Notes, itemIndex)
		return
	}
	v.Notes[itemIndex] = text
}

// Note returns the note stored at the given index, if any
func (v *ChecklistValue) Note(itemIndex int) (string, bool) {
	if v == nil || v.Notes == nil {
		return "", false
	}
	note, ok := v.Notes[itemIndex]
	return note, ok
}

// SelectedCount returns the number of checked items
func (v *ChecklistValue) SelectedCount() int {
	if v == nil {
		return 0
	}
	count := 0
	for _, checked := range v.Checked {
		if checked {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the checklist value
func (v *ChecklistValue) Clone() *ChecklistValue {
	if v == nil {
		return nil
	}
	out := NewChecklistValue()
	for k, checked := range v.Checked {
		out.Checked[k] = checked
	}
	for k, note := range v.Notes {
		out.Notes[k] = note
	}
	return out
}
