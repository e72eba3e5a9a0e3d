package mail

import (
	"testing"

	"github.com/slmiksa/flyboy-beats-core/internal/config"
)

func siteConfigWithBothProviders(provider string) *config.SiteConfig {
	return &config.SiteConfig{
		MailOptions: config.MailOptions{
			Enable:   true,
			Provider: provider,
			From:     "noreply@flyboy.example",
			SMTP: &config.SMTPConfig{
				Host: "smtp.flyboy.example",
				Port: 587,
				User: "mailer",
				Pass: "hunter2",
			},
			Resend: &config.ResendConfig{APIKey: "re_123"},
		},
	}
}

func TestBuildMailConfigProviderSMTPWins(t *testing.T) {
	mc := BuildMailConfig(siteConfigWithBothProviders("smtp"))
	if mc.UseResend {
		t.Fatal("provider smtp must not select Resend, even with a key saved")
	}
	if mc.Host != "smtp.flyboy.example" || mc.Port != 587 {
		t.Fatalf("smtp settings not carried: %+v", mc)
	}
}

func TestBuildMailConfigProviderResend(t *testing.T) {
	mc := BuildMailConfig(siteConfigWithBothProviders("resend"))
	if !mc.UseResend || mc.ResendKey != "re_123" {
		t.Fatalf("provider resend not selected: %+v", mc)
	}
}

func TestBuildMailConfigEmptyProviderFallsBackToKey(t *testing.T) {
	cfg := siteConfigWithBothProviders("")
	if mc := BuildMailConfig(cfg); !mc.UseResend {
		t.Fatal("empty provider with a key must fall back to Resend")
	}

	cfg.MailOptions.Resend = nil
	if mc := BuildMailConfig(cfg); mc.UseResend {
		t.Fatal("empty provider without a key must stay on SMTP")
	}
}

func TestBuildMailConfigNil(t *testing.T) {
	if mc := BuildMailConfig(nil); mc.Enable {
		t.Fatal("nil config must build a disabled mailer")
	}
}
