// Package controller provides the core normalization, scoring, and alert
// pipeline for the cyber-omega controller.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/vignesh3030-hub/cyber-omega/internal/alerting"
	"github.com/vignesh3030-hub/cyber-omega/internal/baseline"
	"github.com/vignesh3030-hub/cyber-omega/internal/config"
	"github.com/vignesh3030-hub/cyber-omega/internal/export"
	"github.com/vignesh3030-hub/cyber-omega/internal/normalize"
	"github.com/vignesh3030-hub/cyber-omega/internal/scoring"
	"github.com/vignesh3030-hub/cyber-omega/internal/types"
	"github.com/vignesh3030-hub/cyber-omega/pkg/narrative"
)

// Prometheus metrics (registered once).
var (
	eventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omega_events_received_total",
			Help: "Total raw audit events received",
		},
		[]string{"provider"},
	)
	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omega_events_dropped_total",
			Help: "Total events dropped before scoring",
		},
		[]string{"reason"},
	)
	alertsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omega_alerts_generated_total",
			Help: "Total security alerts generated",
		},
		[]string{"severity", "type"},
	)
	missingBaselines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "omega_missing_baselines_total",
			Help: "Scoring attempts for identities without a baseline",
		},
	)
	enrichmentFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "omega_enrichment_failures_total",
			Help: "Narrative enrichment calls that fell back to the default text",
		},
	)
	trackedBaselines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "omega_tracked_baselines",
			Help: "Number of identity baselines currently loaded",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsReceived)
	prometheus.MustRegister(eventsDropped)
	prometheus.MustRegister(alertsGenerated)
	prometheus.MustRegister(missingBaselines)
	prometheus.MustRegister(enrichmentFailures)
	prometheus.MustRegister(trackedBaselines)
}

// Controller orchestrates normalization, scoring, alert synthesis, and the
// async enrichment/export side paths.
type Controller struct {
	cfg         config.ControllerConfig
	log         *logrus.Logger
	normalizer  *normalize.Normalizer
	scorer      *scoring.Scorer
	synthesizer *alerting.Synthesizer
	baselines   baseline.Store
	enricher    narrative.Enricher
	sink        export.Sink

	logBuffer chan types.CloudLog
	alertChan chan *types.Alert

	logs   []types.CloudLog
	logsMu sync.RWMutex

	alerts   []*types.Alert
	alertsMu sync.RWMutex
}

// New creates a Controller wired to the given baseline store and scoring
// policy. Enrichment defaults to disabled and no export sink is attached;
// use WithEnricher / WithSink.
func New(cfg config.ControllerConfig, policy config.ScoringPolicy, store baseline.Store, log *logrus.Logger) *Controller {
	return &Controller{
		cfg:         cfg,
		log:         log,
		normalizer:  normalize.New(types.ProviderAWS),
		scorer:      scoring.NewScorer(policy.Weights),
		synthesizer: alerting.NewSynthesizer(policy.Thresholds),
		baselines:   store,
		enricher:    narrative.Disabled{},
		logBuffer:   make(chan types.CloudLog, cfg.LogBufferSize),
		alertChan:   make(chan *types.Alert, cfg.AlertBufferSize),
	}
}

// WithEnricher attaches a narrative enrichment gateway.
func (c *Controller) WithEnricher(e narrative.Enricher) *Controller {
	c.enricher = e
	return c
}

// WithSink attaches an external alert sink.
func (c *Controller) WithSink(s export.Sink) *Controller {
	c.sink = s
	return c
}

// Start begins log scoring and alert handling goroutines. Caller must run
// the HTTP server separately.
func (c *Controller) Start(ctx context.Context) {
	go c.processLogs(ctx)
	go c.processAlerts(ctx)
	go c.trackBaselines(ctx)
}

// IngestRaw normalizes one raw event and queues it for scoring. A malformed
// event is dropped from processing and the error surfaced to the caller; a
// full buffer is reported so the caller can apply backpressure.
func (c *Controller) IngestRaw(ctx context.Context, raw types.RawCloudLog) (types.CloudLog, error) {
	log, err := c.normalizer.Normalize(raw, uuid.NewString())
	if err != nil {
		eventsDropped.WithLabelValues("malformed_input").Inc()
		c.log.WithError(err).Warn("Dropping malformed raw event")
		return types.CloudLog{}, err
	}
	eventsReceived.WithLabelValues(string(log.Provider)).Inc()

	select {
	case c.logBuffer <- log:
		return log, nil
	default:
		eventsDropped.WithLabelValues("buffer_full").Inc()
		return types.CloudLog{}, fmt.Errorf("log buffer full")
	}
}

// ScoreLog scores a normalized log against the identity's baseline snapshot.
// Returns a MissingBaselineError when the identity has no profile.
func (c *Controller) ScoreLog(log types.CloudLog) (types.ScoreBreakdown, error) {
	b, ok := c.baselines.Get(log.UserID)
	if !ok {
		return types.ScoreBreakdown{}, &scoring.MissingBaselineError{UserID: log.UserID}
	}
	return c.scorer.Score(log, b), nil
}

// GetLogs returns the most recent normalized logs, up to limit.
func (c *Controller) GetLogs(limit int) []types.CloudLog {
	c.logsMu.RLock()
	defer c.logsMu.RUnlock()
	n := len(c.logs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]types.CloudLog, limit)
	copy(out, c.logs[n-limit:])
	return out
}

// GetAlerts returns copies of the most recent alerts, up to limit. Copies
// are taken under the lock so readers never observe a half-applied status or
// narrative update.
func (c *Controller) GetAlerts(limit int) []*types.Alert {
	c.alertsMu.RLock()
	defer c.alertsMu.RUnlock()
	n := len(c.alerts)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*types.Alert, limit)
	for i, a := range c.alerts[n-limit:] {
		cp := *a
		out[i] = &cp
	}
	return out
}

// Baselines returns a snapshot of all loaded baselines.
func (c *Controller) Baselines() []types.UserBaseline {
	return c.baselines.All()
}

// ErrAlertNotFound is returned by UpdateAlertStatus for an unknown alert id,
// as opposed to a known alert rejecting the transition.
var ErrAlertNotFound = errors.New("alert not found")

// UpdateAlertStatus applies an analyst workflow transition. Only the forward
// PENDING -> INVESTIGATING -> RESOLVED order is allowed.
func (c *Controller) UpdateAlertStatus(alertID string, next types.AlertStatus) error {
	c.alertsMu.Lock()
	defer c.alertsMu.Unlock()
	for _, a := range c.alerts {
		if a.ID != alertID {
			continue
		}
		if !a.Status.CanTransitionTo(next) {
			return fmt.Errorf("invalid status transition %s -> %s", a.Status, next)
		}
		a.Status = next
		return nil
	}
	return fmt.Errorf("alert %q: %w", alertID, ErrAlertNotFound)
}

func (c *Controller) processLogs(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case log := <-c.logBuffer:
			c.retainLog(log)
			c.evaluateLog(log)
		}
	}
}

func (c *Controller) evaluateLog(log types.CloudLog) {
	score, err := c.ScoreLog(log)
	if err != nil {
		missingBaselines.Inc()
		c.log.WithFields(logrus.Fields{"log_id": log.ID, "user_id": log.UserID}).Warn("No baseline for identity, log not scored")
		return
	}
	alert := c.synthesizer.Synthesize(log, score, uuid.NewString())
	if alert == nil {
		return
	}
	select {
	case c.alertChan <- alert:
	default:
		c.log.Warn("Alert channel full, dropping alert")
	}
}

func (c *Controller) retainLog(log types.CloudLog) {
	c.logsMu.Lock()
	c.logs = append(c.logs, log)
	if len(c.logs) > c.cfg.LogRetentionCount {
		c.logs = c.logs[len(c.logs)-c.cfg.LogRetentionCount:]
	}
	c.logsMu.Unlock()
}

func (c *Controller) processAlerts(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case alert := <-c.alertChan:
			// Export works on a snapshot taken before the alert is shared
			// with the retained set, so enrichment writes and analyst status
			// changes cannot race the sink's marshal.
			exportCopy := *alert

			c.alertsMu.Lock()
			c.alerts = append(c.alerts, alert)
			if len(c.alerts) > c.cfg.AlertRetentionCount {
				c.alerts = c.alerts[len(c.alerts)-c.cfg.AlertRetentionCount:]
			}
			c.alertsMu.Unlock()

			alertsGenerated.WithLabelValues(string(alert.Severity), alert.Type).Inc()
			c.log.WithFields(logrus.Fields{
				"alert_id": alert.ID, "user_id": alert.UserID, "user_name": alert.UserName,
				"severity": alert.Severity, "type": alert.Type, "risk_score": alert.RiskScore,
			}).Warn("SECURITY ALERT")

			// The alert is final at this point; enrichment and export are
			// side paths that must not delay or fail it.
			go c.enrichAlert(ctx, alert)
			go c.exportAlert(ctx, &exportCopy)
		}
	}
}

// enrichAlert attaches the generated narrative, or the labeled fallback text
// when the gateway fails or times out.
func (c *Controller) enrichAlert(ctx context.Context, alert *types.Alert) {
	enrichCtx, cancel := context.WithTimeout(ctx, c.cfg.NarrativeTimeout)
	defer cancel()

	text, err := c.enricher.Enrich(enrichCtx, alert)
	if err != nil {
		enrichmentFailures.Inc()
		c.log.WithError(err).WithField("alert_id", alert.ID).Debug("Narrative enrichment failed, using fallback")
		text = narrative.FallbackText
	}
	c.alertsMu.Lock()
	alert.Narrative = text
	c.alertsMu.Unlock()
}

func (c *Controller) exportAlert(ctx context.Context, alert *types.Alert) {
	if c.sink == nil {
		return
	}
	err := export.WithRetry(ctx, c.cfg.ExportMaxAttempts, func() error {
		return c.sink.Send(ctx, alert)
	})
	if err != nil {
		c.log.WithError(err).WithField("alert_id", alert.ID).Error("Failed to export alert")
	}
}

func (c *Controller) trackBaselines(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			trackedBaselines.Set(float64(len(c.baselines.All())))
		}
	}
}
