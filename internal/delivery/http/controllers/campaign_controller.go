package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"parishlaunch/internal/delivery/http/helpers"
	"parishlaunch/internal/domain"
)

// validTriggerTypes are the allowed campaign trigger types.
var validTriggerTypes = map[string]bool{
	domain.TriggerImmediate: true,
	domain.TriggerScheduled: true,
	domain.TriggerDelay:     true,
	domain.TriggerSequence:  true,
}

// CreateCampaignRequest is the request body for POST /api/email-campaigns.
type CreateCampaignRequest struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	TemplateID   int64           `json:"templateId"`
	TriggerType  string          `json:"triggerType"`
	TriggerValue *string         `json:"triggerValue"`
	Status       string          `json:"status"`
	Audience     json.RawMessage `json:"audience"`
}

// Validate implements Validator.
func (c CreateCampaignRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.TemplateID <= 0 {
		errs = append(errs, "templateId is required")
	}
	if c.TriggerType == "" {
		errs = append(errs, "triggerType is required")
	} else if !validTriggerTypes[c.TriggerType] {
		errs = append(errs, "triggerType must be one of immediate, scheduled, delay, sequence")
	}
	if c.Status != "" && !validStatuses[c.Status] {
		errs = append(errs, "status must be one of draft, active, paused, archived")
	}
	return errs
}

// UpdateCampaignRequest is the request body for PATCH /api/email-campaigns/{campaignID}.
// All fields optional; omitted fields are unchanged.
type UpdateCampaignRequest struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	TemplateID   *int64          `json:"templateId"`
	TriggerType  *string         `json:"triggerType"`
	TriggerValue *string         `json:"triggerValue"`
	Status       *string         `json:"status"`
	Audience     json.RawMessage `json:"audience"`
}

// Validate implements Validator.
func (c UpdateCampaignRequest) Validate() []string {
	var errs []string
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if c.TemplateID != nil && *c.TemplateID <= 0 {
		errs = append(errs, "templateId must be a positive integer")
	}
	if c.TriggerType != nil && !validTriggerTypes[*c.TriggerType] {
		errs = append(errs, "triggerType must be one of immediate, scheduled, delay, sequence")
	}
	if c.Status != nil && !validStatuses[*c.Status] {
		errs = append(errs, "status must be one of draft, active, paused, archived")
	}
	return errs
}

// CampaignSuccessResponse is the success response envelope for single-campaign endpoints.
type CampaignSuccessResponse struct {
	Data  *domain.EmailCampaign `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListCampaignsSuccessResponse is the success response envelope for GET /api/email-campaigns (200).
type ListCampaignsSuccessResponse struct {
	Data  []*domain.EmailCampaign `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// DeleteCampaignResponse is the data payload for DELETE /api/email-campaigns/{campaignID} (200).
type DeleteCampaignResponse struct {
	Status string `json:"status"`
}

// DeleteCampaignSuccessResponse is the success response envelope for DELETE /api/email-campaigns/{campaignID} (200).
type DeleteCampaignSuccessResponse struct {
	Data  DeleteCampaignResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// SendCampaignResponse is the data payload for POST /api/email-campaigns/{campaignID}/send (200).
type SendCampaignResponse struct {
	Message string                     `json:"message"`
	Results *domain.CampaignSendReport `json:"results"`
}

// SendCampaignSuccessResponse is the success response envelope for POST /api/email-campaigns/{campaignID}/send (200).
type SendCampaignSuccessResponse struct {
	Data  SendCampaignResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type CampaignController struct {
	Logger  *slog.Logger
	Service domain.MailingService
}

func NewCampaignController(logger *slog.Logger, svc domain.MailingService) *CampaignController {
	return &CampaignController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create an email campaign
// @Description Creates a campaign bound to an existing template. Status defaults to draft. Audience is stored as-is and not evaluated by the sender.
// @Tags email-campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param campaign body CreateCampaignRequest true "Campaign data"
// @Success 201 {object} controllers.CampaignSuccessResponse "data contains the created campaign"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid body or unknown templateId)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-campaigns [post]
func (c *CampaignController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCampaignRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	campaign := &domain.EmailCampaign{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		TemplateID:   req.TemplateID,
		TriggerType:  req.TriggerType,
		TriggerValue: req.TriggerValue,
		Status:       status,
		Audience:     req.Audience,
	}
	if err := c.Service.CreateCampaign(r.Context(), campaign); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "templateId does not reference an existing template")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, campaign)
}

// List godoc
// @Summary List email campaigns
// @Description Returns all campaigns, newest first.
// @Tags email-campaigns
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListCampaignsSuccessResponse "data is an array of campaigns"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-campaigns [get]
func (c *CampaignController) List(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.Service.ListCampaigns(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if campaigns == nil {
		campaigns = []*domain.EmailCampaign{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, campaigns)
}

// Get godoc
// @Summary Get an email campaign by ID
// @Tags email-campaigns
// @Produce json
// @Security BearerAuth
// @Param campaignID path int true "Campaign ID"
// @Success 200 {object} controllers.CampaignSuccessResponse "data contains the campaign"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-campaigns/{campaignID} [get]
func (c *CampaignController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "campaignID")
	if !ok {
		return
	}
	campaign, err := c.Service.GetCampaign(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email campaign not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, campaign)
}

// Update godoc
// @Summary Update an email campaign
// @Description Partial update. Omitted fields are unchanged. Changing templateId to an unknown template fails with 400.
// @Tags email-campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param campaignID path int true "Campaign ID"
// @Param body body UpdateCampaignRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.CampaignSuccessResponse "data contains the updated campaign"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-campaigns/{campaignID} [patch]
func (c *CampaignController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "campaignID")
	if !ok {
		return
	}
	var req UpdateCampaignRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := &domain.EmailCampaignPatch{
		Name:         req.Name,
		Description:  req.Description,
		TemplateID:   req.TemplateID,
		TriggerType:  req.TriggerType,
		TriggerValue: req.TriggerValue,
		Status:       req.Status,
		Audience:     req.Audience,
	}
	campaign, err := c.Service.UpdateCampaign(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email campaign not found")
			return
		}
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "templateId does not reference an existing template")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, campaign)
}

// Delete godoc
// @Summary Delete an email campaign
// @Description Deletes a campaign. Its delivery logs are removed with it.
// @Tags email-campaigns
// @Produce json
// @Security BearerAuth
// @Param campaignID path int true "Campaign ID"
// @Success 200 {object} controllers.DeleteCampaignSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-campaigns/{campaignID} [delete]
func (c *CampaignController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "campaignID")
	if !ok {
		return
	}
	if err := c.Service.DeleteCampaign(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email campaign not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteCampaignResponse{Status: "deleted"})
}

// Send godoc
// @Summary Send a campaign to the waitlist
// @Description Sends the campaign's template to every current waitlist entry, one at a time, writing one delivery log per recipient. Returns 200 even when some recipients fail; per-recipient errors are listed in results.errors. When every recipient succeeds the campaign status becomes active.
// @Tags email-campaigns
// @Produce json
// @Security BearerAuth
// @Param campaignID path int true "Campaign ID"
// @Success 200 {object} controllers.SendCampaignSuccessResponse "data contains a summary message and per-recipient results"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (waitlist is empty)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (campaign or its template)"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable (email provider not configured)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-campaigns/{campaignID}/send [post]
func (c *CampaignController) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "campaignID")
	if !ok {
		return
	}
	report, err := c.Service.SendCampaign(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email campaign not found")
			return
		}
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "email template not found")
			return
		}
		if errors.Is(err, domain.ErrMailerNotConfigured) {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, "email service is not configured")
			return
		}
		if errors.Is(err, domain.ErrNoRecipients) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "waitlist is empty, nothing to send")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	msg := fmt.Sprintf("Sent %d emails, %d failed", report.Successful, report.Failed)
	helpers.WriteJSONSuccess(w, http.StatusOK, SendCampaignResponse{Message: msg, Results: report})
}
