package common

import (
	"github.com/google/uuid"
)

// NewTemplateID generates a unique template ID with the "tpl_" prefix
// Format: tpl_<uuid>
func NewTemplateID() string {
	return "tpl_" + uuid.New().String()
}

// NewReportID generates a unique report ID with the "rpt_" prefix
// Format: rpt_<uuid>
func NewReportID() string {
	return "rpt_" + uuid.New().String()
}
