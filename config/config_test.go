package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv also snapshots and restores, keeping the ambient
	// environment out of the assertion.
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("LOGO_REFS", "")
	t.Setenv("SUBSCRIBER_DB", "")

	cfg := Load()
	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SubscriberDB != "subscribers.db" {
		t.Errorf("SubscriberDB = %q", cfg.SubscriberDB)
	}
	if len(cfg.LogoRefs) != 3 {
		t.Errorf("LogoRefs = %v, want the three default logos", cfg.LogoRefs)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("LOGO_REFS", " a.png , ,b.png")
	t.Setenv("MAILCHIMP_API_KEY", "mc-key")

	cfg := Load()
	if cfg.AppEnv != "production" || cfg.Port != "9000" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.LogoRefs, []string{"a.png", "b.png"}) {
		t.Errorf("LogoRefs = %v", cfg.LogoRefs)
	}
	if cfg.MailchimpAPIKey != "mc-key" {
		t.Errorf("MailchimpAPIKey = %q", cfg.MailchimpAPIKey)
	}
}
