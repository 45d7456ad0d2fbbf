package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"parishlaunch/internal/delivery/http/helpers"
	"parishlaunch/internal/domain"
)

// RegisterWaitlistRequest is the request body for POST /api/waitlist.
type RegisterWaitlistRequest struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Parish   *string `json:"parish"`
	Role     string  `json:"role"`
}

// Validate implements Validator. Detailed format checks live in the service;
// this catches the obviously empty bodies before they reach it.
func (r RegisterWaitlistRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.FullName) == "" {
		errs = append(errs, "fullName is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Role) == "" {
		errs = append(errs, "role is required")
	}
	return errs
}

// RegisterWaitlistSuccessResponse is the success response envelope for POST /api/waitlist (201).
type RegisterWaitlistSuccessResponse struct {
	Data  *domain.WaitlistEntry `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListWaitlistSuccessResponse is the success response envelope for GET /api/waitlist (200).
type ListWaitlistSuccessResponse struct {
	Data  []*domain.WaitlistEntry `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type WaitlistController struct {
	Logger  *slog.Logger
	Service domain.WaitlistService
}

func NewWaitlistController(logger *slog.Logger, svc domain.WaitlistService) *WaitlistController {
	return &WaitlistController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Join the waitlist
// @Description Public registration from the landing page form. Email must be unique; duplicates return 409.
// @Tags waitlist
// @Accept json
// @Produce json
// @Param entry body RegisterWaitlistRequest true "Registration data"
// @Success 201 {object} controllers.RegisterWaitlistSuccessResponse "data contains the created entry"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email already registered)"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /waitlist [post]
func (c *WaitlistController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterWaitlistRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	entry := domain.NewWaitlistEntry(strings.TrimSpace(req.FullName), req.Email, req.Phone, req.Parish, strings.TrimSpace(req.Role), time.Now())
	if err := c.Service.Register(r.Context(), entry); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already registered")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, entry)
}

// List godoc
// @Summary List waitlist entries
// @Description Returns all waitlist entries in registration order. Admin only.
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListWaitlistSuccessResponse "data is an array of entries"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /waitlist [get]
func (c *WaitlistController) List(w http.ResponseWriter, r *http.Request) {
	entries, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if entries == nil {
		entries = []*domain.WaitlistEntry{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}
