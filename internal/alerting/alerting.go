// Package alerting synthesizes analyst-facing alerts from anomaly scores
// that cross the risk threshold.
package alerting

import (
	"fmt"
	"time"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// Alert type labels by severity band.
const (
	TypeSuspiciousActivity = "Suspicious User Activity"
	TypeCriticalAnomaly    = "Critical Behavioral Anomaly"
)

// Thresholds is the named risk-threshold table. A total strictly below Alert
// produces no alert; a total strictly above High upgrades severity to HIGH.
// Both boundaries are inclusive on the MEDIUM side: 50 and 80 are MEDIUM.
type Thresholds struct {
	Alert int `yaml:"alert"`
	High  int `yaml:"high"`
}

// DefaultThresholds returns the standard alerting thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Alert: 50, High: 80}
}

// Synthesizer turns score breakdowns into alerts.
type Synthesizer struct {
	thresholds Thresholds
	now        func() time.Time
}

// NewSynthesizer creates a Synthesizer with the given thresholds.
func NewSynthesizer(t Thresholds) *Synthesizer {
	return &Synthesizer{thresholds: t, now: time.Now}
}

// Thresholds returns the threshold table in use (read-only).
func (s *Synthesizer) Thresholds() Thresholds {
	return s.thresholds
}

// Synthesize returns an alert for the scored log, or nil when the total is
// below the alert threshold (a normal, non-error outcome). The alert id must
// be unique; generation is the caller's concern. Status is always PENDING at
// creation and only changes through analyst action.
func (s *Synthesizer) Synthesize(log types.CloudLog, score types.ScoreBreakdown, id string) *types.Alert {
	if score.Total < s.thresholds.Alert {
		return nil
	}

	severity := types.SeverityMedium
	alertType := TypeSuspiciousActivity
	if score.Total > s.thresholds.High {
		severity = types.SeverityHigh
		alertType = TypeCriticalAnomaly
	}

	return &types.Alert{
		ID:        id,
		Timestamp: s.now().UTC(),
		UserID:    log.UserID,
		UserName:  log.UserName,
		Severity:  severity,
		Type:      alertType,
		Description: fmt.Sprintf(
			"User %s triggered a risk score of %d due to significant deviations from the established 7-day behavior baseline.",
			log.UserName, score.Total),
		RiskScore:      score.Total,
		ScoreBreakdown: score,
		Status:         types.StatusPending,
		AssociatedLogs: []types.CloudLog{log},
	}
}
