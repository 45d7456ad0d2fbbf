package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"parishlaunch/internal/domain"
)

var campaignStatuses = map[string]bool{
	domain.StatusDraft:    true,
	domain.StatusActive:   true,
	domain.StatusPaused:   true,
	domain.StatusArchived: true,
}

var triggerTypes = map[string]bool{
	domain.TriggerImmediate: true,
	domain.TriggerScheduled: true,
	domain.TriggerDelay:     true,
	domain.TriggerSequence:  true,
}

type mailingService struct {
	templateRepo domain.EmailTemplateRepository
	campaignRepo domain.EmailCampaignRepository
	logRepo      domain.EmailLogRepository
	waitlistRepo domain.WaitlistRepository
	mailer       domain.Mailer // nil when no email provider is configured
	logger       *slog.Logger
}

// NewMailingService creates a MailingService. A nil mailer is allowed and
// means the email provider is not configured; campaign sends then fail with
// ErrMailerNotConfigured.
func NewMailingService(
	templateRepo domain.EmailTemplateRepository,
	campaignRepo domain.EmailCampaignRepository,
	logRepo domain.EmailLogRepository,
	waitlistRepo domain.WaitlistRepository,
	mailer domain.Mailer,
	logger *slog.Logger,
) domain.MailingService {
	return &mailingService{
		templateRepo: templateRepo,
		campaignRepo: campaignRepo,
		logRepo:      logRepo,
		waitlistRepo: waitlistRepo,
		mailer:       mailer,
		logger:       logger,
	}
}

func (s *mailingService) CreateTemplate(ctx context.Context, t *domain.EmailTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	t.FromEmail = strings.TrimSpace(strings.ToLower(t.FromEmail))
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(t.Subject) == "" {
		return fmt.Errorf("%w: subject is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(t.Body) == "" {
		return fmt.Errorf("%w: body is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(t.FromEmail) {
		return fmt.Errorf("%w: invalid sender email", domain.ErrInvalidInput)
	}
	if t.Status == "" {
		t.Status = domain.StatusDraft
	}
	if !campaignStatuses[t.Status] {
		return fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, t.Status)
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.templateRepo.Create(ctx, t); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (s *mailingService) GetTemplate(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

func (s *mailingService) ListTemplates(ctx context.Context) ([]*domain.EmailTemplate, error) {
	templates, err := s.templateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (s *mailingService) UpdateTemplate(ctx context.Context, id int64, patch *domain.EmailTemplatePatch) (*domain.EmailTemplate, error) {
	if patch.Subject != nil && strings.TrimSpace(*patch.Subject) == "" {
		return nil, fmt.Errorf("%w: subject cannot be empty", domain.ErrInvalidInput)
	}
	if patch.Body != nil && strings.TrimSpace(*patch.Body) == "" {
		return nil, fmt.Errorf("%w: body cannot be empty", domain.ErrInvalidInput)
	}
	if patch.FromEmail != nil {
		normalized := strings.TrimSpace(strings.ToLower(*patch.FromEmail))
		if !emailRegexp.MatchString(normalized) {
			return nil, fmt.Errorf("%w: invalid sender email", domain.ErrInvalidInput)
		}
		patch.FromEmail = &normalized
	}
	if patch.Status != nil && !campaignStatuses[*patch.Status] {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, *patch.Status)
	}
	t, err := s.templateRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return t, nil
}

// DeleteTemplate refuses to delete a template that is still referenced by a
// campaign, so campaigns never end up pointing at a missing template.
func (s *mailingService) DeleteTemplate(ctx context.Context, id int64) error {
	count, err := s.campaignRepo.CountByTemplateID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count referencing campaigns: %w", err)
	}
	if count > 0 {
		return domain.ErrTemplateInUse
	}
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return domain.ErrTemplateNotFound
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *mailingService) CreateCampaign(ctx context.Context, c *domain.EmailCampaign) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if c.TriggerType == "" {
		c.TriggerType = domain.TriggerImmediate
	}
	if !triggerTypes[c.TriggerType] {
		return fmt.Errorf("%w: invalid trigger type %q", domain.ErrInvalidInput, c.TriggerType)
	}
	if c.Status == "" {
		c.Status = domain.StatusDraft
	}
	if !campaignStatuses[c.Status] {
		return fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, c.Status)
	}
	// The referenced template must exist at creation time.
	if _, err := s.templateRepo.GetByID(ctx, c.TemplateID); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return domain.ErrTemplateNotFound
		}
		return fmt.Errorf("failed to get template: %w", err)
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (s *mailingService) GetCampaign(ctx context.Context, id int64) (*domain.EmailCampaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

func (s *mailingService) ListCampaigns(ctx context.Context) ([]*domain.EmailCampaign, error) {
	campaigns, err := s.campaignRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *mailingService) UpdateCampaign(ctx context.Context, id int64, patch *domain.EmailCampaignPatch) (*domain.EmailCampaign, error) {
	if patch.TriggerType != nil && !triggerTypes[*patch.TriggerType] {
		return nil, fmt.Errorf("%w: invalid trigger type %q", domain.ErrInvalidInput, *patch.TriggerType)
	}
	if patch.Status != nil && !campaignStatuses[*patch.Status] {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, *patch.Status)
	}
	// A changed template reference must resolve at update time too.
	if patch.TemplateID != nil {
		if _, err := s.templateRepo.GetByID(ctx, *patch.TemplateID); err != nil {
			if errors.Is(err, domain.ErrTemplateNotFound) {
				return nil, domain.ErrTemplateNotFound
			}
			return nil, fmt.Errorf("failed to get template: %w", err)
		}
	}
	c, err := s.campaignRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return c, nil
}

func (s *mailingService) DeleteCampaign(ctx context.Context, id int64) error {
	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return domain.ErrCampaignNotFound
		}
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

func (s *mailingService) ListLogs(ctx context.Context, campaignID *int64) ([]*domain.EmailLog, error) {
	logs, err := s.logRepo.List(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}
	return logs, nil
}

func (s *mailingService) ListLogsByRecipient(ctx context.Context, email string) ([]*domain.EmailLog, error) {
	logs, err := s.logRepo.ListByRecipient(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}
	return logs, nil
}

// SendCampaign sends one campaign to every current waitlist entry.
//
// Recipients are processed strictly one at a time, in waitlist order. Each
// attempt writes exactly one EmailLog row; a failed recipient is recorded and
// counted but never stops the loop. There is no retry and no deduplication
// across invocations: sending the same campaign twice logs every recipient
// twice. When the whole batch succeeds the campaign status transitions to
// "active"; a single failure leaves the status untouched.
func (s *mailingService) SendCampaign(ctx context.Context, campaignID int64) (*domain.CampaignSendReport, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	template, err := s.templateRepo.GetByID(ctx, campaign.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if s.mailer == nil {
		return nil, domain.ErrMailerNotConfigured
	}
	recipients, err := s.waitlistRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}

	from := fmt.Sprintf("%s <%s>", template.FromName, template.FromEmail)
	report := &domain.CampaignSendReport{Errors: []string{}}

	for _, recipient := range recipients {
		msg := &domain.OutboundEmail{
			From:    from,
			To:      recipient.Email,
			Subject: template.Subject,
			HTML:    renderPlaceholders(template.Body, recipient),
		}
		if template.PlainText != nil {
			msg.Text = renderPlaceholders(*template.PlainText, recipient)
		}

		entry := &domain.EmailLog{
			CampaignID:     campaign.ID,
			RecipientEmail: recipient.Email,
			RecipientName:  &recipient.FullName,
			SentAt:         time.Now(),
		}
		messageID, sendErr := s.mailer.Send(ctx, msg)
		if sendErr != nil {
			errText := sendErr.Error()
			entry.Status = domain.LogStatusFailed
			entry.Error = &errText
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to send to %s: %s", recipient.Email, errText))
			s.logger.WarnContext(ctx, "campaign send failed for recipient",
				"campaign_id", campaign.ID, "recipient", recipient.Email, "err", sendErr)
		} else {
			entry.Status = domain.LogStatusSent
			if messageID != "" {
				entry.Metadata = []byte(fmt.Sprintf(`{"messageId":%q}`, messageID))
			}
			report.Successful++
		}
		if err := s.logRepo.Create(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to write email log: %w", err)
		}
	}

	if report.Failed == 0 {
		if _, err := s.campaignRepo.UpdateStatus(ctx, campaign.ID, domain.StatusActive); err != nil {
			return nil, fmt.Errorf("failed to update campaign status: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "campaign send finished",
		"campaign_id", campaign.ID, "successful", report.Successful, "failed", report.Failed)
	return report, nil
}
