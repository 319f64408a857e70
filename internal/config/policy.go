package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vignesh3030-hub/cyber-omega/internal/alerting"
	"github.com/vignesh3030-hub/cyber-omega/internal/scoring"
)

// ScoringPolicy bundles the weight table and the alerting thresholds so the
// whole detection policy is auditable in one document.
type ScoringPolicy struct {
	Weights    scoring.Weights     `yaml:"weights"`
	Thresholds alerting.Thresholds `yaml:"thresholds"`
}

// DefaultScoringPolicy returns the built-in weights and thresholds.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		Weights:    scoring.DefaultWeights(),
		Thresholds: alerting.DefaultThresholds(),
	}
}

// LoadScoringPolicy reads a YAML policy file, with omitted fields keeping
// their defaults. An empty path returns the defaults.
func LoadScoringPolicy(path string) (ScoringPolicy, error) {
	policy := DefaultScoringPolicy()
	if path == "" {
		return policy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("read scoring policy: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parse scoring policy: %w", err)
	}
	return policy, nil
}
