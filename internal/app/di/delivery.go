package di

import (
	"time"

	"go.uber.org/zap"

	"fileshare_backend/internal/feature/auth/usecase"
	"fileshare_backend/internal/platform/config"
	infrahttp "fileshare_backend/internal/platform/http"
	"fileshare_backend/internal/platform/mail"
	"fileshare_backend/internal/platform/notify"
	"fileshare_backend/internal/shared/ratelimiter"
)

const webhookTimeout = 5 * time.Second

// NewMailer returns an SMTP mailer when MAIL_HOST is set, otherwise one that only logs the link.
func NewMailer(cfg config.Mail) usecase.VerificationMailer {
	if cfg.Configured() {
		return mail.NewSMTP(cfg)
	}
	zap.L().Warn("MAIL_HOST is not set. Verification links are logged instead of mailed.")
	return mail.NewLogMailer(cfg.WebHost)
}

// NewNotifier creates the webhook notifier. An empty DISCORD_WEBHOOK_URL yields a no-op notifier.
func NewNotifier(cfg *config.Config) *notify.Discord {
	var limiter ratelimiter.Limiter
	if cfg.WebhookRatePerMinute > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.WebhookRatePerMinute, time.Minute)
	}
	return notify.NewDiscord(cfg.DiscordWebhookURL, infrahttp.NewHTTPClient(webhookTimeout), limiter)
}
