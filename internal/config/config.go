package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// JWTConfig defines the issuer/secret/audience triple for admin tokens.
type JWTConfig struct {
	Issuer   string
	Audience string
	Secret   []byte
}

// Enabled reports whether admin routes can be served.
func (c JWTConfig) Enabled() bool {
	return len(c.Secret) > 0
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	Timeout                      time.Duration
	ContractorCollection         string
	StateCollection              string
	ServiceCollection            string
	CertificationCollection      string
	ZipCollection                string
	FailedNotificationCollection string
	PageSize                     int
	AppliedRedirectURL           string
	AllowedOrigins               []string
	ServerLog                    *log.Logger
	AdminJWT                     JWTConfig
	MessengerEndpoint            string
	DiscordDestination           string
	SlackDestination             string
	MessengerTimeout             time.Duration
	AdminReviewBaseURL           string
	RedisURL                     string
	EventChannel                 string
	NotificationRetrySpec        string
	NotificationMaxAttempts      int
	TaxonomyFile                 string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "electrify-dmv"),
		Timeout:                      parseDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		ContractorCollection:         envOrDefault("CONTRACTOR_COLLECTION", "contractors"),
		StateCollection:              envOrDefault("STATE_COLLECTION", "states"),
		ServiceCollection:            envOrDefault("SERVICE_COLLECTION", "services"),
		CertificationCollection:      envOrDefault("CERTIFICATION_COLLECTION", "certifications"),
		ZipCollection:                envOrDefault("ZIP_COLLECTION", "zip_codes"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		PageSize:                     parsePositiveInt("PAGE_SIZE", 10),
		AppliedRedirectURL:           envOrDefault("APPLIED_REDIRECT_URL", "/applied"),
		AllowedOrigins:               parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		ServerLog:                    log.New(os.Stdout, "[electrify-dmv-api] ", log.LstdFlags|log.Lshortfile),
		AdminJWT: JWTConfig{
			Issuer:   envOrDefault("ADMIN_JWT_ISSUER", "electrify-dmv-admin"),
			Audience: strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
			Secret:   []byte(strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET"))),
		},
		MessengerEndpoint:       strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL")),
		DiscordDestination:      strings.TrimSpace(os.Getenv("MESSENGER_DISCORD_DESTINATION")),
		SlackDestination:        strings.TrimSpace(os.Getenv("MESSENGER_SLACK_DESTINATION")),
		MessengerTimeout:        parseDuration("MESSENGER_GATEWAY_TIMEOUT", 3*time.Second),
		AdminReviewBaseURL:      strings.TrimSpace(os.Getenv("ADMIN_REVIEW_BASE_URL")),
		RedisURL:                strings.TrimSpace(os.Getenv("REDIS_URL")),
		EventChannel:            envOrDefault("EVENT_CHANNEL", "electrify-dmv.events"),
		NotificationRetrySpec:   envOrDefault("NOTIFICATION_RETRY_SPEC", "@every 10m"),
		NotificationMaxAttempts: parsePositiveInt("NOTIFICATION_MAX_ATTEMPTS", 10),
		TaxonomyFile:            strings.TrimSpace(os.Getenv("TAXONOMY_FILE")),
	}

	cfg.ServerLog.Printf("loaded config: db=%q messengerEndpoint=%q adminRoutes=%t redis=%t",
		cfg.MongoDatabase, cfg.MessengerEndpoint, cfg.AdminJWT.Enabled(), cfg.RedisURL != "")

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func parsePositiveInt(key string, fallback int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
