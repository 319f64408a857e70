// Package narrative is the outbound gateway to a generative text service
// that produces human-readable incident analyses for alerts. It is the only
// component performing network I/O and is never on the critical path of
// scoring or alert synthesis: callers must treat every result as optional
// display text and fall back to FallbackText on error.
package narrative

import (
	"context"
	"fmt"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// FallbackText is the visibly-labeled narrative attached to an alert when
// enrichment is disabled, fails, or times out.
const FallbackText = "The AI engine encountered an error while analyzing this incident. Please review logs manually."

// Enricher produces a free-text incident analysis for an alert. The call may
// be slow and may fail; implementations must honor ctx cancellation. The
// returned text is untrusted display content.
type Enricher interface {
	Enrich(ctx context.Context, alert *types.Alert) (string, error)
}

// EnrichmentUnavailableError indicates the narrative service failed or timed
// out. It is recoverable: callers degrade to FallbackText and the alert
// pipeline continues unaffected.
type EnrichmentUnavailableError struct {
	Reason string
	Err    error
}

func (e *EnrichmentUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("narrative enrichment unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("narrative enrichment unavailable: %s", e.Reason)
}

func (e *EnrichmentUnavailableError) Unwrap() error { return e.Err }

// Disabled is the no-network Enricher used when no narrative endpoint is
// configured. It always reports enrichment as unavailable.
type Disabled struct{}

// Enrich implements Enricher.
func (Disabled) Enrich(context.Context, *types.Alert) (string, error) {
	return "", &EnrichmentUnavailableError{Reason: "not configured"}
}
