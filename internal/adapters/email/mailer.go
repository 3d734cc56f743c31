package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"devevent/internal/domain"
)

// Provider names accepted by NewMailer.
const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the regional SES endpoint, e.g. for LocalStack.
	Endpoint           string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES; "noop" or unknown uses a no-op mailer.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "mailer")

	switch config.Provider {
	case ProviderSES:
		if config.FromAddress == "" {
			return nil, fmt.Errorf("%w: MAIL_FROM_ADDRESS is required for the ses provider", domain.ErrConfiguration)
		}
		sesConfig := config.SES
		if sesConfig.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES, use only in development")
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(sesConfig.AccessKeyID, sesConfig.SecretAccessKey, ""),
			),
			HTTPClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: sesConfig.InsecureSkipVerify,
						MinVersion:         tls.VersionTLS12,
					},
				},
			},
		}
		client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
			if sesConfig.Endpoint != "" {
				o.BaseEndpoint = aws.String(sesConfig.Endpoint)
			}
		})
		return &sesMailer{
			client:      client,
			fromAddress: config.FromAddress,
			fromName:    config.FromName,
			logger:      logger,
		}, nil
	case ProviderNoop, "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	body := &types.Body{}
	if html != "" {
		body.Html = utf8Content(html)
	}
	if text != "" {
		body.Text = utf8Content(text)
	}
	result, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent", "provider", ProviderSES, "message_id", aws.ToString(result.MessageId))
	return nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{
		Data:    aws.String(data),
		Charset: aws.String("UTF-8"),
	}
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	n.logger.InfoContext(ctx, "email would be sent", "provider", ProviderNoop, "to", to, "subject", subject)
	return nil
}
