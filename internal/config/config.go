// Package config provides configuration loading from environment and
// defaults for the controller, plus the YAML scoring-policy file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the value of key from the environment, or defaultValue if unset or empty.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return defaultValue
}

// GetEnvDuration returns the duration for key, or defaultValue if unset/invalid.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

// GetEnvInt returns the integer for key, or defaultValue if unset/invalid.
func GetEnvInt(key string, defaultValue int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return n
}

// ControllerConfig holds configuration for the threat-detection controller.
type ControllerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	LogBufferSize       int
	AlertBufferSize     int
	LogRetentionCount   int
	AlertRetentionCount int

	BaselinePath      string
	ScoringPolicyPath string

	NarrativeEnabled  bool
	NarrativeEndpoint string
	NarrativeAPIKey   string
	NarrativeModel    string
	NarrativeTimeout  time.Duration

	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaTopic        string
	ExportMaxAttempts int
}

// DefaultControllerConfig returns controller config from environment.
func DefaultControllerConfig() ControllerConfig {
	narrativeEP := GetEnv("NARRATIVE_API_ENDPOINT", "")
	narrativeKey := GetEnv("NARRATIVE_API_KEY", "")
	kafkaBrokers := splitCSV(GetEnv("KAFKA_BROKERS", ""))
	return ControllerConfig{
		HTTPAddr:            GetEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:     GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		LogBufferSize:       GetEnvInt("LOG_BUFFER_SIZE", 100000),
		AlertBufferSize:     GetEnvInt("ALERT_BUFFER_SIZE", 10000),
		LogRetentionCount:   GetEnvInt("LOG_RETENTION_COUNT", 10000),
		AlertRetentionCount: GetEnvInt("ALERT_RETENTION_COUNT", 10000),
		BaselinePath:        GetEnv("BASELINE_PATH", ""),
		ScoringPolicyPath:   GetEnv("SCORING_POLICY_PATH", ""),
		NarrativeEnabled:    narrativeEP != "" && narrativeKey != "",
		NarrativeEndpoint:   narrativeEP,
		NarrativeAPIKey:     narrativeKey,
		NarrativeModel:      GetEnv("NARRATIVE_MODEL", "gemini-3-flash-preview"),
		NarrativeTimeout:    GetEnvDuration("NARRATIVE_TIMEOUT", 30*time.Second),
		KafkaEnabled:        len(kafkaBrokers) > 0,
		KafkaBrokers:        kafkaBrokers,
		KafkaTopic:          GetEnv("KAFKA_ALERT_TOPIC", "omega.alerts"),
		ExportMaxAttempts:   GetEnvInt("EXPORT_MAX_ATTEMPTS", 5),
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
