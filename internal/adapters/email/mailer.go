package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"parishlaunch/config"
	"parishlaunch/internal/domain"
)

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES; "noop"
// logs instead of sending. An empty or unknown provider returns a nil Mailer:
// email is treated as not configured and campaign sends fail with a
// service-unavailable error instead of crashing at startup.
func NewMailer(cfg config.MailerConfig) (domain.Mailer, error) {
	switch cfg.Provider {
	case "ses":
		if cfg.SESAccessKeyID == "" || cfg.SESSecretAccessKey == "" {
			log.Printf("[MAILER] SES selected but credentials are missing; email sending disabled")
			return nil, nil
		}
		if cfg.SESInsecureSkipVerify {
			log.Printf("[MAILER] WARNING: TLS certificate verification is disabled for SES. Use only in development.")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.SESInsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: cfg.SESRegion,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.SESAccessKeyID,
					cfg.SESSecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return &sesMailer{client: ses.NewFromConfig(awsCfg)}, nil
	case "noop":
		return &noopMailer{}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

type sesMailer struct {
	client *ses.Client
}

func (s *sesMailer) Send(ctx context.Context, msg *domain.OutboundEmail) (string, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.Text != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to send email via SES: %w", err)
	}
	return aws.ToString(result.MessageId), nil
}

type noopMailer struct{}

func (n *noopMailer) Send(ctx context.Context, msg *domain.OutboundEmail) (string, error) {
	log.Println("[MAILER] Email would be sent (noop)", "to", msg.To, "subject", msg.Subject)
	return "noop", nil
}
