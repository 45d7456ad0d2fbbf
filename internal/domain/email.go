package domain

import "context"

// OutboundEmail is one message handed to the delivery provider.
// Text is optional; when empty the provider sends HTML only.
type OutboundEmail struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer defines the contract for sending emails (infrastructure port).
// It returns the provider-assigned message ID when the provider reports one.
type Mailer interface {
	Send(ctx context.Context, msg *OutboundEmail) (messageID string, err error)
}
