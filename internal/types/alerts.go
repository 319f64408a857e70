package types

import "time"

// Severity classifies how risky an alert is. Current thresholds only produce
// MEDIUM and HIGH; LOW and CRITICAL are reserved.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// AlertStatus is the analyst-driven workflow state of an alert. Transitions
// are forward-only: PENDING -> INVESTIGATING -> RESOLVED.
type AlertStatus string

const (
	StatusPending       AlertStatus = "PENDING"
	StatusInvestigating AlertStatus = "INVESTIGATING"
	StatusResolved      AlertStatus = "RESOLVED"
)

// CanTransitionTo reports whether moving from s to next is a valid analyst
// action.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInvestigating
	case StatusInvestigating:
		return next == StatusResolved
	default:
		return false
	}
}

// ScoreBreakdown is the per-check point contribution of an anomaly score.
// Each component is either zero or its full weight, and Total is always the
// sum of the four.
type ScoreBreakdown struct {
	LoginTime   int `json:"login_time"`
	DataSpike   int `json:"data_spike"`
	NewResource int `json:"new_resource"`
	NewLocation int `json:"new_location"`
	Total       int `json:"total"`
}

// Alert is a synthesized record for a scored log that crossed the risk
// threshold. Core fields are final at creation; only Status (analyst action)
// and Narrative (async enrichment) change afterwards.
type Alert struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	UserID         string         `json:"user_id"`
	UserName       string         `json:"user_name"`
	Severity       Severity       `json:"severity"`
	Type           string         `json:"type"`
	Description    string         `json:"description"`
	RiskScore      int            `json:"risk_score"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
	Status         AlertStatus    `json:"status"`
	AssociatedLogs []CloudLog     `json:"associated_logs"`
	Narrative      string         `json:"narrative,omitempty"`
}
