package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Environment string
	HTTPAddr    string
	DataDir     string
	DBPath      string
	ChatLogRoot string

	LLMProvider   string // openai | anthropic
	LLMBaseURL    string
	LLMAPIKey     string
	LLMAPIKeyFile string
	LLMModel      string
	LLMTimeoutSec int

	SnapshotMaxDocuments  int
	SnapshotMaxActivities int
	SnapshotMaxShares     int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	FaxFlushSchedule string
	FaxEndpoint      string
}

func FromEnv() Config {
	dataDir := stringOrDefault("DOCFOLIO_DATA_DIR", "/data")
	dbPath := stringOrDefault("DOCFOLIO_DB_PATH", filepath.Join(dataDir, "docfolio", "workspace.sqlite"))

	return Config{
		Environment: stringOrDefault("DOCFOLIO_ENV", "development"),
		HTTPAddr:    stringOrDefault("DOCFOLIO_HTTP_ADDR", ":8080"),
		DataDir:     dataDir,
		DBPath:      dbPath,
		ChatLogRoot: stringOrDefault("DOCFOLIO_CHAT_LOG_ROOT", filepath.Join(dataDir, "docfolio", "chatlogs")),

		LLMProvider:   stringOrDefault("DOCFOLIO_LLM_PROVIDER", "openai"),
		LLMBaseURL:    strings.TrimSpace(os.Getenv("DOCFOLIO_LLM_BASE_URL")),
		LLMAPIKey:     strings.TrimSpace(os.Getenv("DOCFOLIO_LLM_API_KEY")),
		LLMAPIKeyFile: strings.TrimSpace(os.Getenv("DOCFOLIO_LLM_API_KEY_FILE")),
		LLMModel:      strings.TrimSpace(os.Getenv("DOCFOLIO_LLM_MODEL")),
		LLMTimeoutSec: intOrDefault("DOCFOLIO_LLM_TIMEOUT_SECONDS", 30),

		SnapshotMaxDocuments:  intOrDefault("DOCFOLIO_SNAPSHOT_MAX_DOCUMENTS", 15),
		SnapshotMaxActivities: intOrDefault("DOCFOLIO_SNAPSHOT_MAX_ACTIVITIES", 10),
		SnapshotMaxShares:     intOrDefault("DOCFOLIO_SNAPSHOT_MAX_SHARES", 10),

		SMTPHost:     strings.TrimSpace(os.Getenv("DOCFOLIO_SMTP_HOST")),
		SMTPPort:     intOrDefault("DOCFOLIO_SMTP_PORT", 587),
		SMTPUsername: strings.TrimSpace(os.Getenv("DOCFOLIO_SMTP_USERNAME")),
		SMTPPassword: os.Getenv("DOCFOLIO_SMTP_PASSWORD"),
		SMTPFrom:     strings.TrimSpace(os.Getenv("DOCFOLIO_SMTP_FROM")),

		FaxFlushSchedule: stringOrDefault("DOCFOLIO_FAX_FLUSH_SCHEDULE", "@every 1m"),
		FaxEndpoint:      strings.TrimSpace(os.Getenv("DOCFOLIO_FAX_ENDPOINT")),
	}
}

func stringOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
