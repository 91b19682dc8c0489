package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/editor"
	"github.com/gsarma/codepad/internal/snippet"
)

const (
	defaultPort          = "8080"
	defaultKafkaTopic    = "codepad.runs"
	defaultReportWorkers = 2
)

type appConfig struct {
	Port          string
	Judge0        code.Judge0Config
	DatabaseURL   string
	SnippetKey    string
	KafkaBrokers  []string
	KafkaTopic    string
	ReportWorkers int
	FormatDelay   time.Duration
	LogLevel      slog.Level
}

func loadAppConfig() appConfig {
	return appConfig{
		Port: envOrDefault("PORT", defaultPort),
		Judge0: code.Judge0Config{
			URL:          os.Getenv("JUDGE0_URL"),
			AuthToken:    os.Getenv("JUDGE0_AUTH_TOKEN"),
			RapidAPIKey:  os.Getenv("JUDGE0_API_KEY"),
			RapidAPIHost: os.Getenv("JUDGE0_API_HOST"),
			Base64:       parseBool(os.Getenv("JUDGE0_BASE64")),
			Timeout:      parseDuration(os.Getenv("JUDGE0_TIMEOUT"), 0),
		},
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SnippetKey:    envOrDefault("SNIPPET_KEY", snippet.DefaultKey),
		KafkaBrokers:  parseBrokerList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    envOrDefault("KAFKA_TOPIC", defaultKafkaTopic),
		ReportWorkers: parsePositiveInt(os.Getenv("REPORT_WORKERS"), defaultReportWorkers),
		FormatDelay:   parseDuration(os.Getenv("FORMAT_DELAY"), editor.DefaultFormatDelay),
		LogLevel:      parseLevel(os.Getenv("LOG_LEVEL")),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokerList(raw string) []string {
	fields := strings.Split(raw, ",")
	brokers := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
