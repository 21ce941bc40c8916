package main

import (
	"testing"

	"go.uber.org/zap"

	"printcost/internal/config"
	"printcost/internal/notify"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	cases := []config.Config{
		{AuthSecret: "short"},
		{AuthSecret: strongSecret, SendGridAPIKey: "SG.key"},
		{AuthSecret: strongSecret, TelegramToken: "123:abc"},
		{AuthSecret: strongSecret, AppEnv: "production", AllowedOrigin: "*"},
	}
	for _, cfg := range cases {
		if err := validateSecurityConfig(cfg); err == nil {
			t.Fatalf("expected %+v to be rejected", cfg)
		}
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{
		AuthSecret:     strongSecret,
		SendGridAPIKey: "SG.key",
		MailFrom:       "quotes@example.com",
		AllowedOrigin:  "https://shop.example.com",
		AppEnv:         "production",
	})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestBuildNotifierWithoutChannelsIsNoop(t *testing.T) {
	if _, ok := buildNotifier(config.Config{}, zap.NewNop()).(notify.Noop); !ok {
		t.Fatalf("expected noop notifier when nothing is configured")
	}
}

func TestBuildNotifierWiresMailer(t *testing.T) {
	n := buildNotifier(config.Config{SendGridAPIKey: "SG.key", MailFrom: "quotes@example.com"}, zap.NewNop())
	multi, ok := n.(*notify.Multi)
	if !ok || multi.Len() != 1 {
		t.Fatalf("expected a multi notifier with the mailer, got %T", n)
	}
}
