package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Lifecycle statuses shared by templates and campaigns.
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusArchived = "archived"
)

// Campaign trigger types. TriggerValue is a free-form string whose meaning
// depends on the type: ISO datetime for "scheduled", day count for "delay",
// unused for "immediate".
const (
	TriggerImmediate = "immediate"
	TriggerScheduled = "scheduled"
	TriggerDelay     = "delay"
	TriggerSequence  = "sequence"
)

// Email log statuses written by the campaign sender. Downstream tooling may
// record richer states (delivered/opened/clicked/bounced) in the same column.
const (
	LogStatusSent   = "sent"
	LogStatusFailed = "failed"
)

// Sentinel errors for the mailing subsystem.
var (
	ErrTemplateNotFound    = errors.New("email template not found")
	ErrCampaignNotFound    = errors.New("email campaign not found")
	ErrTemplateInUse       = errors.New("template is referenced by a campaign")
	ErrMailerNotConfigured = errors.New("email service is not configured")
	ErrNoRecipients        = errors.New("no waitlist recipients to send to")
)

// EmailTemplate is a reusable subject/body pair with sender identity.
// Body is HTML; PlainText is an optional text alternative. Both may contain
// the {{name}} and {{email}} placeholder tokens.
// swagger:model EmailTemplate
type EmailTemplate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	PlainText *string   `json:"plainText,omitempty"`
	FromName  string    `json:"fromName"`
	FromEmail string    `json:"fromEmail"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmailTemplatePatch carries optional fields for a partial template update.
type EmailTemplatePatch struct {
	Name      *string
	Subject   *string
	Body      *string
	PlainText *string
	FromName  *string
	FromEmail *string
	Status    *string
}

// EmailCampaign is a configured, schedulable unit of email delivery bound to
// one template. Audience is opaque filter criteria: it is stored and returned
// but never evaluated by the send pipeline, which always targets the full
// waitlist.
// swagger:model EmailCampaign
type EmailCampaign struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	TemplateID   int64           `json:"templateId"`
	TriggerType  string          `json:"triggerType"`
	TriggerValue *string         `json:"triggerValue,omitempty"`
	Status       string          `json:"status"`
	Audience     json.RawMessage `json:"audience,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// EmailCampaignPatch carries optional fields for a partial campaign update.
type EmailCampaignPatch struct {
	Name         *string
	Description  *string
	TemplateID   *int64
	TriggerType  *string
	TriggerValue *string
	Status       *string
	Audience     json.RawMessage
}

// EmailLog is an immutable record of one delivery attempt outcome.
// Exactly one row is written per recipient per send invocation.
// swagger:model EmailLog
type EmailLog struct {
	ID             int64           `json:"id"`
	CampaignID     int64           `json:"campaignId"`
	RecipientEmail string          `json:"recipientEmail"`
	RecipientName  *string         `json:"recipientName,omitempty"`
	Status         string          `json:"status"`
	Error          *string         `json:"error,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	SentAt         time.Time       `json:"sentAt"`
}

// CampaignSendReport is the aggregate outcome of one campaign send.
type CampaignSendReport struct {
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// EmailTemplateRepository defines the interface for template storage.
type EmailTemplateRepository interface {
	Create(ctx context.Context, t *EmailTemplate) error
	GetByID(ctx context.Context, id int64) (*EmailTemplate, error)
	List(ctx context.Context) ([]*EmailTemplate, error)
	Update(ctx context.Context, id int64, patch *EmailTemplatePatch) (*EmailTemplate, error)
	Delete(ctx context.Context, id int64) error
}

// EmailCampaignRepository defines the interface for campaign storage.
type EmailCampaignRepository interface {
	Create(ctx context.Context, c *EmailCampaign) error
	GetByID(ctx context.Context, id int64) (*EmailCampaign, error)
	List(ctx context.Context) ([]*EmailCampaign, error)
	Update(ctx context.Context, id int64, patch *EmailCampaignPatch) (*EmailCampaign, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*EmailCampaign, error)
	Delete(ctx context.Context, id int64) error
	CountByTemplateID(ctx context.Context, templateID int64) (int, error)
}

// EmailLogRepository defines the interface for delivery log storage.
// Logs are insert-only; there is no update path.
type EmailLogRepository interface {
	Create(ctx context.Context, log *EmailLog) error
	List(ctx context.Context, campaignID *int64) ([]*EmailLog, error)
	ListByRecipient(ctx context.Context, email string) ([]*EmailLog, error)
}

// MailingService groups template, campaign, and log operations, including
// the campaign send orchestrator.
type MailingService interface {
	CreateTemplate(ctx context.Context, t *EmailTemplate) error
	GetTemplate(ctx context.Context, id int64) (*EmailTemplate, error)
	ListTemplates(ctx context.Context) ([]*EmailTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, patch *EmailTemplatePatch) (*EmailTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error

	CreateCampaign(ctx context.Context, c *EmailCampaign) error
	GetCampaign(ctx context.Context, id int64) (*EmailCampaign, error)
	ListCampaigns(ctx context.Context) ([]*EmailCampaign, error)
	UpdateCampaign(ctx context.Context, id int64, patch *EmailCampaignPatch) (*EmailCampaign, error)
	DeleteCampaign(ctx context.Context, id int64) error

	ListLogs(ctx context.Context, campaignID *int64) ([]*EmailLog, error)
	ListLogsByRecipient(ctx context.Context, email string) ([]*EmailLog, error)

	// SendCampaign sends the campaign's template to every current waitlist
	// entry, one at a time, and writes one EmailLog per recipient. When every
	// recipient succeeds the campaign status transitions to "active".
	SendCampaign(ctx context.Context, campaignID int64) (*CampaignSendReport, error)
}
