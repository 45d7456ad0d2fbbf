package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"parishlaunch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTemplateRepo is an in-memory EmailTemplateRepository for tests.
type fakeTemplateRepo struct {
	byID   map[int64]*domain.EmailTemplate
	nextID int64
	err    error // if set, Create returns this error
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{byID: make(map[int64]*domain.EmailTemplate), nextID: 1}
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *domain.EmailTemplate) error {
	if f.err != nil {
		return f.err
	}
	t.ID = f.nextID
	f.nextID++
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTemplateNotFound
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	var out []*domain.EmailTemplate
	for _, t := range f.byID {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, id int64, patch *domain.EmailTemplatePatch) (*domain.EmailTemplate, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Subject != nil {
		t.Subject = *patch.Subject
	}
	if patch.Body != nil {
		t.Body = *patch.Body
	}
	if patch.PlainText != nil {
		t.PlainText = patch.PlainText
	}
	if patch.FromName != nil {
		t.FromName = *patch.FromName
	}
	if patch.FromEmail != nil {
		t.FromEmail = *patch.FromEmail
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	return t, nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrTemplateNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCampaignRepo is an in-memory EmailCampaignRepository for tests.
type fakeCampaignRepo struct {
	byID            map[int64]*domain.EmailCampaign
	nextID          int64
	statusUpdates   []string
	updateStatusErr error
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{byID: make(map[int64]*domain.EmailCampaign), nextID: 1}
}

func (f *fakeCampaignRepo) Create(ctx context.Context, c *domain.EmailCampaign) error {
	c.ID = f.nextID
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCampaignRepo) GetByID(ctx context.Context, id int64) (*domain.EmailCampaign, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCampaignNotFound
}

func (f *fakeCampaignRepo) List(ctx context.Context) ([]*domain.EmailCampaign, error) {
	var out []*domain.EmailCampaign
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCampaignRepo) Update(ctx context.Context, id int64, patch *domain.EmailCampaignPatch) (*domain.EmailCampaign, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.TemplateID != nil {
		c.TemplateID = *patch.TemplateID
	}
	if patch.TriggerType != nil {
		c.TriggerType = *patch.TriggerType
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	return c, nil
}

func (f *fakeCampaignRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.EmailCampaign, error) {
	if f.updateStatusErr != nil {
		return nil, f.updateStatusErr
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	c.Status = status
	f.statusUpdates = append(f.statusUpdates, status)
	return c, nil
}

func (f *fakeCampaignRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrCampaignNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCampaignRepo) CountByTemplateID(ctx context.Context, templateID int64) (int, error) {
	count := 0
	for _, c := range f.byID {
		if c.TemplateID == templateID {
			count++
		}
	}
	return count, nil
}

// fakeLogRepo is an in-memory EmailLogRepository for tests.
type fakeLogRepo struct {
	logs      []*domain.EmailLog
	createErr error
	// failAfter makes Create fail once len(logs) reaches the given count (when > 0).
	failAfter int
}

func (f *fakeLogRepo) Create(ctx context.Context, log *domain.EmailLog) error {
	if f.createErr != nil && (f.failAfter == 0 || len(f.logs) >= f.failAfter) {
		return f.createErr
	}
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeLogRepo) List(ctx context.Context, campaignID *int64) ([]*domain.EmailLog, error) {
	if campaignID == nil {
		return f.logs, nil
	}
	var out []*domain.EmailLog
	for _, l := range f.logs {
		if l.CampaignID == *campaignID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLogRepo) ListByRecipient(ctx context.Context, email string) ([]*domain.EmailLog, error) {
	var out []*domain.EmailLog
	for _, l := range f.logs {
		if l.RecipientEmail == email {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeWaitlistRepo is an in-memory WaitlistRepository for tests.
type fakeWaitlistRepo struct {
	entries []*domain.WaitlistEntry
	listErr error
}

func (f *fakeWaitlistRepo) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	for _, e := range f.entries {
		if e.Email == entry.Email {
			return domain.ErrDuplicateEmail
		}
	}
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeWaitlistRepo) List(ctx context.Context) ([]*domain.WaitlistEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

// fakeMailer records sent messages and can fail for chosen recipients.
type fakeMailer struct {
	sent    []*domain.OutboundEmail
	failFor map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, msg *domain.OutboundEmail) (string, error) {
	if err, ok := f.failFor[msg.To]; ok {
		return "", err
	}
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

type mailingFixture struct {
	templates *fakeTemplateRepo
	campaigns *fakeCampaignRepo
	logs      *fakeLogRepo
	waitlist  *fakeWaitlistRepo
	mailer    *fakeMailer
	service   domain.MailingService
}

func newMailingFixture(t *testing.T) *mailingFixture {
	t.Helper()
	f := &mailingFixture{
		templates: newFakeTemplateRepo(),
		campaigns: newFakeCampaignRepo(),
		logs:      &fakeLogRepo{},
		waitlist:  &fakeWaitlistRepo{},
		mailer:    &fakeMailer{failFor: make(map[string]error)},
	}
	f.service = NewMailingService(f.templates, f.campaigns, f.logs, f.waitlist, f.mailer, discardLogger())
	return f
}

func (f *mailingFixture) seedTemplate(t *testing.T) *domain.EmailTemplate {
	t.Helper()
	tpl := &domain.EmailTemplate{
		Name:      "Welcome",
		Subject:   "Hello {{name}}",
		Body:      "<p>Hi {{name}}, we saved a spot for {{email}}.</p>",
		FromName:  "ParishLaunch",
		FromEmail: "hello@parishlaunch.app",
	}
	require.NoError(t, f.service.CreateTemplate(context.Background(), tpl))
	return tpl
}

func (f *mailingFixture) seedCampaign(t *testing.T, templateID int64) *domain.EmailCampaign {
	t.Helper()
	c := &domain.EmailCampaign{
		Name:        "Launch announcement",
		TemplateID:  templateID,
		TriggerType: domain.TriggerImmediate,
	}
	require.NoError(t, f.service.CreateCampaign(context.Background(), c))
	return c
}

func (f *mailingFixture) seedRecipients(t *testing.T, emails ...string) {
	t.Helper()
	for i, email := range emails {
		f.waitlist.entries = append(f.waitlist.entries, &domain.WaitlistEntry{
			ID:       int64(i + 1),
			FullName: fmt.Sprintf("Person %d", i+1),
			Email:    email,
			Role:     "member",
		})
	}
}

func TestCreateTemplate(t *testing.T) {
	f := newMailingFixture(t)

	tpl := f.seedTemplate(t)
	assert.Equal(t, int64(1), tpl.ID)
	assert.Equal(t, domain.StatusDraft, tpl.Status)

	t.Run("missing subject", func(t *testing.T) {
		err := f.service.CreateTemplate(context.Background(), &domain.EmailTemplate{
			Name: "x", Body: "b", FromName: "n", FromEmail: "a@b.com",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid sender email", func(t *testing.T) {
		err := f.service.CreateTemplate(context.Background(), &domain.EmailTemplate{
			Name: "x", Subject: "s", Body: "b", FromName: "n", FromEmail: "not-an-email",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid status", func(t *testing.T) {
		err := f.service.CreateTemplate(context.Background(), &domain.EmailTemplate{
			Name: "x", Subject: "s", Body: "b", FromName: "n", FromEmail: "a@b.com", Status: "launched",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDeleteTemplate_RefusedWhileReferenced(t *testing.T) {
	f := newMailingFixture(t)
	tpl := f.seedTemplate(t)
	f.seedCampaign(t, tpl.ID)

	err := f.service.DeleteTemplate(context.Background(), tpl.ID)
	assert.ErrorIs(t, err, domain.ErrTemplateInUse)

	// Still deletable once the campaign is gone.
	require.NoError(t, f.service.DeleteCampaign(context.Background(), 1))
	require.NoError(t, f.service.DeleteTemplate(context.Background(), tpl.ID))

	_, err = f.service.GetTemplate(context.Background(), tpl.ID)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestCreateCampaign_TemplateMustExist(t *testing.T) {
	f := newMailingFixture(t)

	err := f.service.CreateCampaign(context.Background(), &domain.EmailCampaign{
		Name:       "Orphan",
		TemplateID: 42,
	})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	tpl := f.seedTemplate(t)
	c := f.seedCampaign(t, tpl.ID)
	assert.Equal(t, domain.StatusDraft, c.Status)
	assert.Equal(t, domain.TriggerImmediate, c.TriggerType)
}

func TestUpdateCampaign_TemplateMustExist(t *testing.T) {
	f := newMailingFixture(t)
	tpl := f.seedTemplate(t)
	c := f.seedCampaign(t, tpl.ID)

	missing := int64(99)
	_, err := f.service.UpdateCampaign(context.Background(), c.ID, &domain.EmailCampaignPatch{TemplateID: &missing})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	badTrigger := "weekly"
	_, err = f.service.UpdateCampaign(context.Background(), c.ID, &domain.EmailCampaignPatch{TriggerType: &badTrigger})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSendCampaign_AllSucceed(t *testing.T) {
	f := newMailingFixture(t)
	tpl := f.seedTemplate(t)
	c := f.seedCampaign(t, tpl.ID)
	f.seedRecipients(t, "a@example.com", "b@example.com", "c@example.com")

	report, err := f.service.SendCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Successful)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.Errors)

	// One log per recipient, in waitlist order, all marked sent.
	require.Len(t, f.logs.logs, 3)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		entry := f.logs.logs[i]
		assert.Equal(t, c.ID, entry.CampaignID)
		assert.Equal(t, email, entry.RecipientEmail)
		assert.Equal(t, domain.LogStatusSent, entry.Status)
		assert.Nil(t, entry.Error)
		assert.Contains(t, string(entry.Metadata), "messageId")
	}

	// Zero failures promotes the campaign.
	assert.Equal(t, []string{domain.StatusActive}, f.campaigns.statusUpdates)
	assert.Equal(t, domain.StatusActive, c.Status)

	// Sender identity and rendered body.
	require.Len(t, f.mailer.sent, 3)
	first := f.mailer.sent[0]
	assert.Equal(t, "ParishLaunch <hello@parishlaunch.app>", first.From)
	assert.Equal(t, "Hello {{name}}", first.Subject)
	assert.Equal(t, "<p>Hi Person 1, we saved a spot for a@example.com.</p>", first.HTML)
}

func TestSendCampaign_PartialFailure(t *testing.T) {
	f := newMailingFixture(t)
	tpl := f.seedTemplate(t)
	c := f.seedCampaign(t, tpl.ID)
	f.seedRecipients(t, "a@example.com", "b@example.com", "c@example.com")
	f.mailer.failFor["b@example.com"] = errors.New("mailbox full")

	report, err := f.service.SendCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Failed to send to b@example.com: mailbox full", report.Errors[0])

	// Still one log per recipient; the failed one carries the error text.
	require.Len(t, f.logs.logs, 3)
	failed := f.logs.logs[1]
	assert.Equal(t, domain.LogStatusFailed, failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "mailbox full", *failed.Error)
	assert.Nil(t, failed.Metadata)

	// Any failure leaves the campaign status alone.
	assert.Empty(t, f.campaigns.statusUpdates)
	assert.Equal(t, domain.StatusDraft, c.Status)
}

func TestSendCampaign_TwiceLogsEveryRecipientTwice(t *testing.T) {
	f := newMailingFixture(t)
	tpl := f.seedTemplate(t)
	c := f.seedCampaign(t, tpl.ID)
	f.seedRecipients(t, "a@example.com", "b@example.com")

	_, err := f.service.SendCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	_, err = f.service.SendCampaign(context.Background(), c.ID)
	require.NoError(t, err)

	// No deduplication across invocations.
	assert.Len(t, f.logs.logs, 4)
	logs, err := f.service.ListLogsByRecipient(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestSendCampaign_PreflightWritesNoLogs(t *testing.T) {
	t.Run("campaign not found", func(t *testing.T) {
		f := newMailingFixture(t)
		f.seedRecipients(t, "a@example.com")

		_, err := f.service.SendCampaign(context.Background(), 7)
		assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
		assert.Empty(t, f.logs.logs)
	})

	t.Run("template missing", func(t *testing.T) {
		f := newMailingFixture(t)
		tpl := f.seedTemplate(t)
		c := f.seedCampaign(t, tpl.ID)
		f.seedRecipients(t, "a@example.com")
		delete(f.templates.byID, tpl.ID)

		_, err := f.service.SendCampaign(context.Background(), c.ID)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
		assert.Empty(t, f.logs.logs)
	})

	t.Run("mailer not configured", func(t *testing.T) {
		f := newMailingFixture(t)
		tpl := f.seedTemplate(t)
		c := f.seedCampaign(t, tpl.ID)
		f.seedRecipients(t, "a@example.com")
		f.service = NewMailingService(f.templates, f.campaigns, f.logs, f.waitlist, nil, discardLogger())

		_, err := f.service.SendCampaign(context.Background(), c.ID)
		assert.ErrorIs(t, err, domain.ErrMailerNotConfigured)
		assert.Empty(t, f.logs.logs)
	})

	t.Run("empty waitlist", func(t *testing.T) {
		f := newMailingFixture(t)
		tpl := f.seedTemplate(t)
		c := f.seedCampaign(t, tpl.ID)

		_, err := f.service.SendCampaign(context.Background(), c.ID)
		assert.ErrorIs(t, err, domain.ErrNoRecipients)
		assert.Empty(t, f.logs.logs)
		assert.Empty(t, f.mailer.sent)
	})
}

func TestSendCampaign_LogWriteFailureAborts(t *testing.T) {
	f := newMailingFixture(t)
	tpl := f.seedTemplate(t)
	c := f.seedCampaign(t, tpl.ID)
	f.seedRecipients(t, "a@example.com", "b@example.com", "c@example.com")
	f.logs.createErr = errors.New("disk full")
	f.logs.failAfter = 1

	_, err := f.service.SendCampaign(context.Background(), c.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write email log")

	// The first log landed before the failure; the campaign is not promoted.
	assert.Len(t, f.logs.logs, 1)
	assert.Empty(t, f.campaigns.statusUpdates)
}

func TestSendCampaign_PlainTextAlternative(t *testing.T) {
	f := newMailingFixture(t)
	tpl := f.seedTemplate(t)
	plain := "Hi {{name}}"
	_, err := f.service.UpdateTemplate(context.Background(), tpl.ID, &domain.EmailTemplatePatch{PlainText: &plain})
	require.NoError(t, err)
	c := f.seedCampaign(t, tpl.ID)
	f.seedRecipients(t, "a@example.com")

	_, err = f.service.SendCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "Hi Person 1", f.mailer.sent[0].Text)
}
