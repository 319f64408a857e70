// Package export forwards synthesized alerts to external sinks (queues,
// stores, displays). Export failures never affect alert retention or the
// scoring pipeline.
package export

import (
	"context"
	"time"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// Sink is a generic alert transport (Kafka, HTTP, etc.).
type Sink interface {
	Send(ctx context.Context, alert *types.Alert) error
	Close() error
}

// WithRetry calls send up to attempts times with exponential backoff,
// returning the last error. It stops early when ctx is canceled.
func WithRetry(ctx context.Context, attempts int, send func() error) error {
	var err error
	backoff := 500 * time.Millisecond

	for i := 0; i < attempts; i++ {
		if err = send(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
