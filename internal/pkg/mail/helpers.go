package mail

import (
	"strings"

	"github.com/slmiksa/flyboy-beats-core/internal/config"
)

// BuildMailConfig constructs a mail.Config from the persisted SiteConfig.
// This centralises the mapping so every caller (notify, subscribe, events)
// builds the mailer configuration consistently.
func BuildMailConfig(cfg *config.SiteConfig) Config {
	if cfg == nil {
		return Config{}
	}
	mc := Config{
		Enable: cfg.MailOptions.Enable,
		From:   cfg.MailOptions.From,
	}
	if cfg.MailOptions.SMTP != nil {
		mc.Host = cfg.MailOptions.SMTP.Host
		mc.Port = cfg.MailOptions.SMTP.Port
		mc.User = cfg.MailOptions.SMTP.User
		mc.Pass = cfg.MailOptions.SMTP.Pass
	}

	resendKey := ""
	if cfg.MailOptions.Resend != nil {
		resendKey = cfg.MailOptions.Resend.APIKey
	}

	// The provider choice wins over stored credentials: an admin who
	// switches to SMTP keeps their Resend key saved without it taking
	// effect. An empty provider falls back to key presence.
	switch strings.ToLower(strings.TrimSpace(cfg.MailOptions.Provider)) {
	case "smtp":
	case "resend":
		mc.UseResend = resendKey != ""
		mc.ResendKey = resendKey
	default:
		mc.UseResend = resendKey != ""
		mc.ResendKey = resendKey
	}
	return mc
}
