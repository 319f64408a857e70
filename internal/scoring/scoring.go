// Package scoring computes weighted behavioral deviation scores by comparing
// a normalized log against a per-identity baseline.
package scoring

import (
	"fmt"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// Weights is the named table of scoring constants: the fixed point value of
// each deviation check plus the trigger parameters. Keeping them in one
// place makes the threshold policy auditable and overridable from config.
type Weights struct {
	LoginTime   int `yaml:"login_time"`
	DataSpike   int `yaml:"data_spike"`
	NewResource int `yaml:"new_resource"`
	NewLocation int `yaml:"new_location"`

	// LoginHourTolerance is the max absolute deviation (hours, UTC) from the
	// baseline's usual login hour before the login-time check triggers.
	LoginHourTolerance int `yaml:"login_hour_tolerance"`
	// DataSpikeMultiplier is the factor over the baseline average data
	// volume above which the spike check triggers.
	DataSpikeMultiplier int64 `yaml:"data_spike_multiplier"`
}

// DefaultWeights returns the standard scoring table.
func DefaultWeights() Weights {
	return Weights{
		LoginTime:           20,
		DataSpike:           30,
		NewResource:         25,
		NewLocation:         25,
		LoginHourTolerance:  3,
		DataSpikeMultiplier: 3,
	}
}

// MissingBaselineError is returned when scoring is requested for an identity
// with no behavioral profile. Scoring never substitutes a default baseline;
// doing so would mask the missing profile as a false result.
type MissingBaselineError struct {
	UserID string
}

func (e *MissingBaselineError) Error() string {
	return fmt.Sprintf("no behavioral baseline for identity %q", e.UserID)
}

// Scorer evaluates normalized logs against baselines.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer with the given weight table.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the scoring table in use (read-only).
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score runs the four independent deviation checks. Each component is either
// zero or its full weight; Total is their sum (0-100 with default weights).
// Score is pure and safe for concurrent use.
//
// Both the event hour and the baseline's usual hour are interpreted in UTC.
func (s *Scorer) Score(log types.CloudLog, baseline types.UserBaseline) types.ScoreBreakdown {
	var b types.ScoreBreakdown

	eventHour := log.Timestamp.UTC().Hour()
	if absInt(eventHour-baseline.UsualLoginHour) > s.weights.LoginHourTolerance {
		b.LoginTime = s.weights.LoginTime
	}

	// Strict > also covers a zero-average baseline: any positive volume
	// exceeds 0*multiplier and triggers the spike check.
	if log.DataVolume > baseline.AvgDataVolume*s.weights.DataSpikeMultiplier {
		b.DataSpike = s.weights.DataSpike
	}

	if !contains(baseline.CommonResources, log.Resource) {
		b.NewResource = s.weights.NewResource
	}

	if !contains(baseline.CommonLocations, log.Location) {
		b.NewLocation = s.weights.NewLocation
	}

	b.Total = b.LoginTime + b.DataSpike + b.NewResource + b.NewLocation
	return b
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
