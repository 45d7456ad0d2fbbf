package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"parishlaunch/internal/delivery/http/helpers"
	"parishlaunch/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// validStatuses are the allowed lifecycle statuses for templates and campaigns.
var validStatuses = map[string]bool{
	domain.StatusDraft:    true,
	domain.StatusActive:   true,
	domain.StatusPaused:   true,
	domain.StatusArchived: true,
}

// CreateTemplateRequest is the request body for POST /api/email-templates.
type CreateTemplateRequest struct {
	Name      string  `json:"name"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	PlainText *string `json:"plainText"`
	FromName  string  `json:"fromName"`
	FromEmail string  `json:"fromEmail"`
	Status    string  `json:"status"`
}

// Validate implements Validator.
func (t CreateTemplateRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(t.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if strings.TrimSpace(t.Body) == "" {
		errs = append(errs, "body is required")
	}
	if strings.TrimSpace(t.FromName) == "" {
		errs = append(errs, "fromName is required")
	}
	if strings.TrimSpace(t.FromEmail) == "" {
		errs = append(errs, "fromEmail is required")
	} else if !emailRegex.MatchString(strings.TrimSpace(t.FromEmail)) {
		errs = append(errs, "fromEmail must be a valid email address")
	}
	if t.Status != "" && !validStatuses[t.Status] {
		errs = append(errs, "status must be one of draft, active, paused, archived")
	}
	return errs
}

// UpdateTemplateRequest is the request body for PATCH /api/email-templates/{templateID}.
// All fields optional; omitted fields are unchanged.
type UpdateTemplateRequest struct {
	Name      *string `json:"name"`
	Subject   *string `json:"subject"`
	Body      *string `json:"body"`
	PlainText *string `json:"plainText"`
	FromName  *string `json:"fromName"`
	FromEmail *string `json:"fromEmail"`
	Status    *string `json:"status"`
}

// Validate implements Validator.
func (t UpdateTemplateRequest) Validate() []string {
	var errs []string
	if t.Name != nil && strings.TrimSpace(*t.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if t.Subject != nil && strings.TrimSpace(*t.Subject) == "" {
		errs = append(errs, "subject cannot be empty")
	}
	if t.Body != nil && strings.TrimSpace(*t.Body) == "" {
		errs = append(errs, "body cannot be empty")
	}
	if t.FromEmail != nil && !emailRegex.MatchString(strings.TrimSpace(*t.FromEmail)) {
		errs = append(errs, "fromEmail must be a valid email address")
	}
	if t.Status != nil && !validStatuses[*t.Status] {
		errs = append(errs, "status must be one of draft, active, paused, archived")
	}
	return errs
}

// TemplateSuccessResponse is the success response envelope for single-template endpoints.
type TemplateSuccessResponse struct {
	Data  *domain.EmailTemplate `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListTemplatesSuccessResponse is the success response envelope for GET /api/email-templates (200).
type ListTemplatesSuccessResponse struct {
	Data  []*domain.EmailTemplate `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// DeleteTemplateResponse is the data payload for DELETE /api/email-templates/{templateID} (200).
type DeleteTemplateResponse struct {
	Status string `json:"status"`
}

// DeleteTemplateSuccessResponse is the success response envelope for DELETE /api/email-templates/{templateID} (200).
type DeleteTemplateSuccessResponse struct {
	Data  DeleteTemplateResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type TemplateController struct {
	Logger  *slog.Logger
	Service domain.MailingService
}

func NewTemplateController(logger *slog.Logger, svc domain.MailingService) *TemplateController {
	return &TemplateController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create an email template
// @Description Creates a reusable subject/body template with sender identity. Body and plainText may contain {{name}} and {{email}} placeholders. Status defaults to draft.
// @Tags email-templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param template body CreateTemplateRequest true "Template data"
// @Success 201 {object} controllers.TemplateSuccessResponse "data contains the created template"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates [post]
func (c *TemplateController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	tpl := &domain.EmailTemplate{
		Name:      strings.TrimSpace(req.Name),
		Subject:   req.Subject,
		Body:      req.Body,
		PlainText: req.PlainText,
		FromName:  strings.TrimSpace(req.FromName),
		FromEmail: strings.TrimSpace(req.FromEmail),
		Status:    status,
	}
	if err := c.Service.CreateTemplate(r.Context(), tpl); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tpl)
}

// List godoc
// @Summary List email templates
// @Description Returns all email templates, newest first.
// @Tags email-templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListTemplatesSuccessResponse "data is an array of templates"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates [get]
func (c *TemplateController) List(w http.ResponseWriter, r *http.Request) {
	templates, err := c.Service.ListTemplates(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if templates == nil {
		templates = []*domain.EmailTemplate{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, templates)
}

// Get godoc
// @Summary Get an email template by ID
// @Tags email-templates
// @Produce json
// @Security BearerAuth
// @Param templateID path int true "Template ID"
// @Success 200 {object} controllers.TemplateSuccessResponse "data contains the template"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates/{templateID} [get]
func (c *TemplateController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "templateID")
	if !ok {
		return
	}
	tpl, err := c.Service.GetTemplate(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email template not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tpl)
}

// Update godoc
// @Summary Update an email template
// @Description Partial update. Omitted fields are unchanged.
// @Tags email-templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param templateID path int true "Template ID"
// @Param body body UpdateTemplateRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.TemplateSuccessResponse "data contains the updated template"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates/{templateID} [patch]
func (c *TemplateController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "templateID")
	if !ok {
		return
	}
	var req UpdateTemplateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := &domain.EmailTemplatePatch{
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		PlainText: req.PlainText,
		FromName:  req.FromName,
		FromEmail: req.FromEmail,
		Status:    req.Status,
	}
	tpl, err := c.Service.UpdateTemplate(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email template not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tpl)
}

// Delete godoc
// @Summary Delete an email template
// @Description Deletes a template. Fails with 409 while any campaign still references it.
// @Tags email-templates
// @Produce json
// @Security BearerAuth
// @Param templateID path int true "Template ID"
// @Success 200 {object} controllers.DeleteTemplateSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (referenced by a campaign)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-templates/{templateID} [delete]
func (c *TemplateController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "templateID")
	if !ok {
		return
	}
	if err := c.Service.DeleteTemplate(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email template not found")
			return
		}
		if errors.Is(err, domain.ErrTemplateInUse) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "template is referenced by a campaign")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteTemplateResponse{Status: "deleted"})
}
