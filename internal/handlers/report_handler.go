package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/capture"
	"github.com/ternarybob/refero/internal/services/reports"
)

// submitReportRequest carries a client's completed capture for one template.
// Values are keyed by section index; each value's JSON shape depends on the
// section's type (bool for checkbox, checked/notes object for checklist,
// string for everything else).
type submitReportRequest struct {
	TemplateID string                  `json:"template_id" validate:"required"`
	Values     map[int]json.RawMessage `json:"values"`
	Customer   models.CustomerSnapshot `json:"customer"`
	Job        *models.JobSnapshot     `json:"job,omitempty"`
}

// checklistPayload is the wire shape of a checklist value
type checklistPayload struct {
	Checked map[int]bool   `json:"checked"`
	Notes   map[int]string `json:"notes"`
}

type ReportHandler struct {
	templateStorage interfaces.TemplateStorage
	reportStorage   interfaces.ReportStorage
	materializer    *reports.Materializer
	renderer        *reports.Renderer
	logger          arbor.ILogger
}

func NewReportHandler(templateStorage interfaces.TemplateStorage, reportStorage interfaces.ReportStorage, materializer *reports.Materializer, renderer *reports.Renderer, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		templateStorage: templateStorage,
		reportStorage:   reportStorage,
		materializer:    materializer,
		renderer:        renderer,
		logger:          logger,
	}
}

// SubmitHandler runs the full capture pipeline: open a session against the
// template, apply the submitted values, validate, materialize, and store.
func (h *ReportHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req submitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid report request: "+err.Error())
		return
	}

	template, err := h.templateStorage.Get(r.Context(), req.TemplateID)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	session := capture.NewSession(template, h.logger)
	if err := applyValues(session, template, req.Values); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if violation := session.Validate(); violation != nil {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"status":  "error",
			"error":   violation.Error(),
			"section": violation.SectionIndex,
		})
		return
	}

	content, err := h.materializer.Materialize(r.Context(), template, session, req.Customer, req.Job)
	if err != nil {
		h.logger.Error().Err(err).Str("template_id", req.TemplateID).Msg("Materialization failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := h.reportStorage.Create(r.Context(), content)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to store report")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info().
		Str("report_id", id).
		Str("template_id", req.TemplateID).
		Msg("Report submitted")

	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// GetHandler returns the stored report content as plain nested data - the
// contract consumed read-only by PDF and email collaborators
func (h *ReportHandler) GetHandler(w http.ResponseWriter, r *http.Request, id string) {
	content, err := h.reportStorage.Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, content)
}

// ViewHandler returns the read-only display tree for a stored report
func (h *ReportHandler) ViewHandler(w http.ResponseWriter, r *http.Request, id string) {
	content, err := h.reportStorage.Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.renderer.Render(content))
}

// ListHandler returns stored reports, optionally filtered by template
func (h *ReportHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	if templateID := query.Get("template_id"); templateID != "" {
		list, err := h.reportStorage.ListByTemplate(r.Context(), templateID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"reports": list, "count": len(list)})
		return
	}

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(query.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	list, err := h.reportStorage.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"reports": list, "count": len(list)})
}

// applyValues replays submitted answers onto a fresh capture session,
// decoding each value according to its section's type
func applyValues(session *capture.Session, template *models.Template, values map[int]json.RawMessage) error {
	for index := range template.Sections {
		raw, ok := values[index]
		if !ok {
			continue // seeded default stands
		}
		section := &template.Sections[index]

		switch section.Type {
		case models.SectionTypeStatic:
			// Author-fixed; submitted values are ignored

		case models.SectionTypeCheckbox:
			var checked bool
			if err := json.Unmarshal(raw, &checked); err != nil {
				return fmt.Errorf("section %d: expected a boolean value: %w", index, err)
			}
			if err := session.SetValue(index, checked); err != nil {
				return err
			}

		case models.SectionTypeChecklist:
			var payload checklistPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("section %d: expected a checklist value: %w", index, err)
			}
			for itemIndex, checked := range payload.Checked {
				if !checked {
					continue
				}
				if err := session.SetChecklistValue(index, itemIndex, true); err != nil {
					return err
				}
			}
			for itemIndex, note := range payload.Notes {
				if err := session.SetChecklistNote(index, itemIndex, note); err != nil {
					return err
				}
			}

		default:
			var text string
			if err := json.Unmarshal(raw, &text); err != nil {
				return fmt.Errorf("section %d: expected a string value: %w", index, err)
			}
			if err := session.SetValue(index, text); err != nil {
				return err
			}
		}
	}
	return nil
}
