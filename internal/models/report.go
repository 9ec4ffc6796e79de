package models

import "time"

// CustomerSnapshot is the customer identity captured verbatim into a report.
// It is supplied by an external customer provider and never looked up again.
type CustomerSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
}

// JobSnapshot is the optional job/work-order context captured into a report
type JobSnapshot struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
}

// SelectedItem is one checked checklist item in a materialized report.
// Note is nil when no note was recorded for the item.
type SelectedItem struct {
	Text string  `json:"text"`
	Note *string `json:"note"`
}

// ProcessedSection carries every authoring field from its source Section plus
// the captured (or derived) value. For checklist sections SelectedItems holds
// the checked items in original ChecklistItems order, never click order.
type ProcessedSection struct {
	Section
	Value         Value          `json:"value"`
	SelectedItems []SelectedItem `json:"selected_items,omitempty"`
}

// ReportContent is the persisted, immutable result of materializing a
// CaptureSession against a Template. Its sections are a point-in-time
// snapshot of the template's sections at capture time: later edits to the
// template never retroactively alter a stored report. Downstream consumers
// (PDF generation, email delivery) receive it read-only.
type ReportContent struct {
	ID           string             `json:"id"`
	TemplateID   string             `json:"template_id"`
	TemplateName string             `json:"template_name"`
	Logo         string             `json:"logo,omitempty"`
	Sections     []ProcessedSection `json:"sections"`
	Customer     CustomerSnapshot   `json:"customer"`
	Job          *JobSnapshot       `json:"job,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
