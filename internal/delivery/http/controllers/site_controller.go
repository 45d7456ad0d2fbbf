package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"parishlaunch/internal/delivery/http/helpers"
	"parishlaunch/internal/domain"
)

// UpsertSettingRequest is the request body for PUT /api/settings/{key}.
type UpsertSettingRequest struct {
	Value string `json:"value"`
}

// Validate implements Validator.
func (u UpsertSettingRequest) Validate() []string {
	return nil
}

// UpsertSocialLinkRequest is the request body for PUT /api/social-links/{platform}.
type UpsertSocialLinkRequest struct {
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// Validate implements Validator.
func (u UpsertSocialLinkRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.URL) == "" {
		errs = append(errs, "url is required")
	}
	return errs
}

// CreateParishRequest is the request body for POST /api/parishes.
type CreateParishRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

// Validate implements Validator.
func (p CreateParishRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// UpdateParishRequest is the request body for PATCH /api/parishes/{parishID}.
// All fields optional; omitted fields are unchanged.
type UpdateParishRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

// Validate implements Validator.
func (p UpdateParishRequest) Validate() []string {
	var errs []string
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	return errs
}

// ListSettingsSuccessResponse is the success response envelope for GET /api/settings (200).
type ListSettingsSuccessResponse struct {
	Data  []*domain.SiteSetting `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// UpsertSettingSuccessResponse is the success response envelope for PUT /api/settings/{key} (200).
type UpsertSettingSuccessResponse struct {
	Data  *domain.SiteSetting `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListSocialLinksSuccessResponse is the success response envelope for GET /api/social-links (200).
type ListSocialLinksSuccessResponse struct {
	Data  []*domain.SocialLink `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// UpsertSocialLinkSuccessResponse is the success response envelope for PUT /api/social-links/{platform} (200).
type UpsertSocialLinkSuccessResponse struct {
	Data  *domain.SocialLink `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListParishesSuccessResponse is the success response envelope for GET /api/parishes (200).
type ListParishesSuccessResponse struct {
	Data  []*domain.Parish  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ParishSuccessResponse is the success response envelope for parish create/update.
type ParishSuccessResponse struct {
	Data  *domain.Parish    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteParishResponse is the data payload for DELETE /api/parishes/{parishID} (200).
type DeleteParishResponse struct {
	Status string `json:"status"`
}

// DeleteParishSuccessResponse is the success response envelope for DELETE /api/parishes/{parishID} (200).
type DeleteParishSuccessResponse struct {
	Data  DeleteParishResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type SiteController struct {
	Logger  *slog.Logger
	Service domain.SiteService
}

func NewSiteController(logger *slog.Logger, svc domain.SiteService) *SiteController {
	return &SiteController{
		Logger:  logger,
		Service: svc,
	}
}

// ListSettings godoc
// @Summary List site settings
// @Description Returns all editable landing page settings (hero text, logo, background media). Public.
// @Tags site
// @Produce json
// @Success 200 {object} controllers.ListSettingsSuccessResponse "data is an array of settings"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings [get]
func (c *SiteController) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.Service.ListSettings(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if settings == nil {
		settings = []*domain.SiteSetting{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, settings)
}

// UpsertSetting godoc
// @Summary Create or update a site setting
// @Description Sets the value of a landing page setting by key, creating it if missing. Admin only.
// @Tags site
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param body body UpsertSettingRequest true "Setting value"
// @Success 200 {object} controllers.UpsertSettingSuccessResponse "data contains the setting"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings/{key} [put]
func (c *SiteController) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing key")
		return
	}
	var req UpsertSettingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	setting, err := c.Service.UpsertSetting(r.Context(), key, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, setting)
}

// ListSocialLinks godoc
// @Summary List social links
// @Description Returns all footer social links. Public.
// @Tags site
// @Produce json
// @Success 200 {object} controllers.ListSocialLinksSuccessResponse "data is an array of links"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /social-links [get]
func (c *SiteController) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := c.Service.ListSocialLinks(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if links == nil {
		links = []*domain.SocialLink{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, links)
}

// UpsertSocialLink godoc
// @Summary Create or update a social link
// @Description Sets the URL and icon for a social platform, creating the link if missing. Admin only.
// @Tags site
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param platform path string true "Platform name (e.g. instagram)"
// @Param body body UpsertSocialLinkRequest true "Link data"
// @Success 200 {object} controllers.UpsertSocialLinkSuccessResponse "data contains the link"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /social-links/{platform} [put]
func (c *SiteController) UpsertSocialLink(w http.ResponseWriter, r *http.Request) {
	platform := r.PathValue("platform")
	if platform == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing platform")
		return
	}
	var req UpsertSocialLinkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	link, err := c.Service.UpsertSocialLink(r.Context(), platform, req.URL, req.Icon)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, link)
}

// ListParishes godoc
// @Summary List parishes
// @Description Returns parishes for the registration form dropdown. Pass active=true to filter to active only.
// @Tags site
// @Produce json
// @Param active query bool false "Return only active parishes"
// @Success 200 {object} controllers.ListParishesSuccessResponse "data is an array of parishes"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parishes [get]
func (c *SiteController) ListParishes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	parishes, err := c.Service.ListParishes(r.Context(), activeOnly)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if parishes == nil {
		parishes = []*domain.Parish{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, parishes)
}

// CreateParish godoc
// @Summary Create a parish
// @Description Adds a parish to the registration form list. Names must be unique. Admin only.
// @Tags site
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param parish body CreateParishRequest true "Parish data"
// @Success 201 {object} controllers.ParishSuccessResponse "data contains the created parish"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (name taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parishes [post]
func (c *SiteController) CreateParish(w http.ResponseWriter, r *http.Request) {
	var req CreateParishRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	parish, err := c.Service.CreateParish(r.Context(), strings.TrimSpace(req.Name), active)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateParish) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "parish already exists")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, parish)
}

// UpdateParish godoc
// @Summary Update a parish
// @Description Updates a parish's name and/or active flag. Omitted fields are unchanged. Admin only.
// @Tags site
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param parishID path int true "Parish ID"
// @Param body body UpdateParishRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.ParishSuccessResponse "data contains the updated parish"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (name taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parishes/{parishID} [patch]
func (c *SiteController) UpdateParish(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "parishID")
	if !ok {
		return
	}
	var req UpdateParishRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	parish, err := c.Service.UpdateParish(r.Context(), id, &domain.ParishPatch{Name: req.Name, Active: req.Active})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "parish not found")
			return
		}
		if errors.Is(err, domain.ErrDuplicateParish) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "parish already exists")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, parish)
}

// DeleteParish godoc
// @Summary Delete a parish
// @Description Removes a parish from the registration form list. Admin only.
// @Tags site
// @Produce json
// @Security BearerAuth
// @Param parishID path int true "Parish ID"
// @Success 200 {object} controllers.DeleteParishSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /parishes/{parishID} [delete]
func (c *SiteController) DeleteParish(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "parishID")
	if !ok {
		return
	}
	if err := c.Service.DeleteParish(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "parish not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteParishResponse{Status: "deleted"})
}

// parseIDParam reads a numeric path parameter. On failure it writes a 400
// response and returns false.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
