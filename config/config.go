// Package config loads the process-wide environment configuration.
// Provider credentials are optional at startup: an endpoint whose
// credential is absent answers with a structured error instead of the
// process refusing to boot.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full environment surface of the service.
type Config struct {
	AppEnv string
	Port   string

	// FontDir optionally points at a directory of Inter TTF files;
	// empty means the embedded fallback fonts.
	FontDir string

	// SubscriberDB is the sqlite path for the local subscriber log.
	SubscriberDB string

	// LogoRefs are the logo image sources drawn at the poster's bottom,
	// left to right.
	LogoRefs []string

	MailchimpAPIKey       string
	MailchimpServerPrefix string
	MailchimpAudienceID   string
	GoogleMapsAPIKey      string
	APINinjasKey          string
}

// Load reads .env files when present and assembles the configuration.
func Load() Config {
	_ = godotenv.Load(".env", ".env.local")

	return Config{
		AppEnv:       getenv("APP_ENV", "development"),
		Port:         getenv("PORT", "8080"),
		FontDir:      os.Getenv("FONT_DIR"),
		SubscriberDB: getenv("SUBSCRIBER_DB", "subscribers.db"),
		LogoRefs:     splitList(getenv("LOGO_REFS", "static/logos/cinecnvs.png,static/logos/lens.png,static/logos/festival.png")),

		MailchimpAPIKey:       os.Getenv("MAILCHIMP_API_KEY"),
		MailchimpServerPrefix: os.Getenv("MAILCHIMP_SERVER_PREFIX"),
		MailchimpAudienceID:   os.Getenv("MAILCHIMP_AUDIENCE_ID"),
		GoogleMapsAPIKey:      os.Getenv("GOOGLE_MAPS_API_KEY"),
		APINinjasKey:          os.Getenv("API_NINJAS_KEY"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
