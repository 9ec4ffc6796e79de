package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/models"
	"github.com/ternarybob/refero/internal/services/schema"
)

var validate = validator.New()

// templateRequest is the create/update payload for a template
type templateRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	IsActive    bool             `json:"is_active"`
	Logo        string           `json:"logo"`
	Sections    []models.Section `json:"sections"`
}

type TemplateHandler struct {
	templateStorage interfaces.TemplateStorage
	logger          arbor.ILogger
}

func NewTemplateHandler(templateStorage interfaces.TemplateStorage, logger arbor.ILogger) *TemplateHandler {
	return &TemplateHandler{
		templateStorage: templateStorage,
		logger:          logger,
	}
}

// ListHandler returns all templates, optionally only active ones
func (h *TemplateHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	templates, err := h.templateStorage.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list templates")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates,
		"count":     len(templates),
	})
}

// CreateHandler stores a new template
func (h *TemplateHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	req, ok := h.decodeTemplateRequest(w, r)
	if !ok {
		return
	}

	template := &models.Template{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Logo:        req.Logo,
		Sections:    req.Sections,
	}

	saved, err := h.templateStorage.Upsert(r.Context(), template)
	if err != nil {
		h.writeStorageError(w, err)
		return
	}

	h.logger.Info().Str("template_id", saved.ID).Str("name", saved.Name).Msg("Template created")
	WriteJSON(w, http.StatusCreated, saved)
}

// GetHandler returns one template by id
func (h *TemplateHandler) GetHandler(w http.ResponseWriter, r *http.Request, id string) {
	template, err := h.templateStorage.Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, template)
}

// UpdateHandler replaces a stored template's authored fields
func (h *TemplateHandler) UpdateHandler(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.templateStorage.Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	req, ok := h.decodeTemplateRequest(w, r)
	if !ok {
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.IsActive = req.IsActive
	existing.Logo = req.Logo
	existing.Sections = req.Sections

	saved, err := h.templateStorage.Upsert(r.Context(), existing)
	if err != nil {
		h.writeStorageError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, saved)
}

// DeleteHandler removes a template. Stored reports are unaffected: they
// carry their own section snapshots.
func (h *TemplateHandler) DeleteHandler(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.templateStorage.Delete(r.Context(), id); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteSuccess(w, "template deleted")
}

// DuplicateHandler stores a copy of a template under a new id
func (h *TemplateHandler) DuplicateHandler(w http.ResponseWriter, r *http.Request, id string) {
	template, err := h.templateStorage.Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	editor := schema.NewEditor(template, h.logger)
	copy := editor.Duplicate(common.NewTemplateID())
	// Fresh timestamps for the new template
	copy.CreatedAt = time.Time{}

	saved, err := h.templateStorage.Upsert(r.Context(), copy)
	if err != nil {
		h.writeStorageError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, saved)
}

// PreviewHandler returns the editor's grid preview for one checklist
// section, arranged exactly as the report renderer will show it
func (h *TemplateHandler) PreviewHandler(w http.ResponseWriter, r *http.Request, id string) {
	template, err := h.templateStorage.Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	sectionIndex, err := strconv.Atoi(r.URL.Query().Get("section"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "section query parameter must be an integer")
		return
	}

	editor := schema.NewEditor(template, h.logger)
	grid, err := editor.PreviewGrid(sectionIndex)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"section": sectionIndex,
		"grid":    grid,
	})
}

func (h *TemplateHandler) decodeTemplateRequest(w http.ResponseWriter, r *http.Request) (*templateRequest, bool) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid template request: "+err.Error())
		return nil, false
	}
	return &req, true
}

// writeStorageError maps schema validation failures to 400 and everything
// else to 500, passing the collaborator's message through verbatim
func (h *TemplateHandler) writeStorageError(w http.ResponseWriter, err error) {
	var schemaErr *models.SchemaError
	if errors.As(err, &schemaErr) {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error().Err(err).Msg("Template storage operation failed")
	WriteError(w, http.StatusInternalServerError, err.Error())
}

// SubRoute extracts the id and optional action from a /api/templates/{id}[/action] path
func SubRoute(path, prefix string) (id, action string) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) > 1 {
		action = parts[1]
	}
	return id, action
}
