package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/landing-leads/internal/config"
	"github.com/wolfman30/landing-leads/internal/notify"
	"github.com/wolfman30/landing-leads/internal/observability/metrics"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

// BuildEmailSender returns the sender selected by EMAIL_PROVIDER, or nil
// for "none".
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.EmailProvider {
	case "", "none":
		return nil, nil
	case "log":
		return notify.NewStubEmailSender(logger), nil
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: SENDGRID_API_KEY is required for EMAIL_PROVIDER=sendgrid")
		}
		return sender, nil
	case "ses":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
			if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
		return notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}

// BuildNotifier wires every configured new-lead channel. The service is
// returned even when no channel is enabled.
func BuildNotifier(cfg *appconfig.Config, sender notify.EmailSender, m *metrics.LeadMetrics, logger *logging.Logger) *notify.Service {
	if logger == nil {
		logger = logging.Default()
	}
	webhook := notify.NewWebhookNotifier(cfg.WebhookURL, &http.Client{Timeout: cfg.NotifyTimeout})

	var email *notify.EmailChannel
	if sender != nil {
		email = notify.NewEmailChannel(sender, cfg.NotifyEmailTo)
		if email == nil {
			logger.Warn("email provider configured but NOTIFY_EMAIL_TO is empty; email notifications disabled")
		}
	}

	svc := notify.NewService(m, logger, webhook, email)
	logger.Info("lead notifications", "enabled", svc.Enabled(), "webhook", webhook != nil, "email", email != nil)
	return svc
}

// LoadAWSConfig centralizes AWS SDK initialization so LocalStack and
// production share the same wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}
