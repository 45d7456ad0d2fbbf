package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"parishlaunch/internal/delivery/http/helpers"
	"parishlaunch/internal/domain"
)

// ListEmailLogsSuccessResponse is the success response envelope for GET /api/email-logs (200).
type ListEmailLogsSuccessResponse struct {
	Data  []*domain.EmailLog `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type EmailLogController struct {
	Logger  *slog.Logger
	Service domain.MailingService
}

func NewEmailLogController(logger *slog.Logger, svc domain.MailingService) *EmailLogController {
	return &EmailLogController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List email delivery logs
// @Description Returns delivery logs, newest first. Filter by campaignId or by recipient email (recipient takes precedence when both are given).
// @Tags email-logs
// @Produce json
// @Security BearerAuth
// @Param campaignId query int false "Filter by campaign ID"
// @Param recipient query string false "Filter by recipient email"
// @Success 200 {object} controllers.ListEmailLogsSuccessResponse "data is an array of logs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-logs [get]
func (c *EmailLogController) List(w http.ResponseWriter, r *http.Request) {
	if recipient := strings.TrimSpace(r.URL.Query().Get("recipient")); recipient != "" {
		logs, err := c.Service.ListLogsByRecipient(r.Context(), recipient)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
			return
		}
		if logs == nil {
			logs = []*domain.EmailLog{}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, logs)
		return
	}

	var campaignID *int64
	if raw := r.URL.Query().Get("campaignId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "campaignId must be a positive integer")
			return
		}
		campaignID = &id
	}
	logs, err := c.Service.ListLogs(r.Context(), campaignID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if logs == nil {
		logs = []*domain.EmailLog{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, logs)
}
