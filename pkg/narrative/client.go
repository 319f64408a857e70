package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// Client calls a generative text API to analyze an alert.
type Client struct {
	apiEndpoint string
	apiKey      string
	model       string
	httpClient  *http.Client
	log         *logrus.Logger
}

// Config for the narrative client.
type Config struct {
	APIEndpoint string
	APIKey      string
	Model       string
	Timeout     time.Duration
}

// NewClient creates a narrative API client.
func NewClient(cfg Config, log *logrus.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}
	return &Client{
		apiEndpoint: cfg.APIEndpoint,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         log,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Enrich asks the generative service for a SOC-analyst assessment of the
// alert. Any transport, quota, or response problem is wrapped in an
// EnrichmentUnavailableError; nothing else escapes.
func (c *Client) Enrich(ctx context.Context, alert *types.Alert) (string, error) {
	if c.apiEndpoint == "" || c.apiKey == "" {
		return "", &EnrichmentUnavailableError{Reason: "client not configured"}
	}

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: buildPrompt(alert)})
	if err != nil {
		return "", &EnrichmentUnavailableError{Reason: "marshal request", Err: err}
	}

	url := fmt.Sprintf("%s/v1/generate", c.apiEndpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", &EnrichmentUnavailableError{Reason: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("User-Agent", "cyber-omega-controller/0.1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &EnrichmentUnavailableError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &EnrichmentUnavailableError{Reason: fmt.Sprintf("unexpected status code %d", resp.StatusCode)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &EnrichmentUnavailableError{Reason: "malformed response", Err: err}
	}
	if out.Text == "" {
		return "", &EnrichmentUnavailableError{Reason: "empty response"}
	}

	c.log.WithFields(logrus.Fields{"alert_id": alert.ID, "model": c.model}).Debug("Narrative generated")
	return out.Text, nil
}

func buildPrompt(alert *types.Alert) string {
	logsJSON, err := json.MarshalIndent(alert.AssociatedLogs, "", "  ")
	if err != nil {
		logsJSON = []byte("[]")
	}
	var b strings.Builder
	b.WriteString("Act as a senior Cloud Security Operations Center (SOC) analyst.\n")
	b.WriteString("Analyze the following security alert and provide a concise (2-3 paragraph) explanation of why this might be a credible insider threat or a potential false positive.\n\n")
	fmt.Fprintf(&b, "Alert Details:\n- User: %s (%s)\n- Alert Type: %s\n- Severity: %s\n- Description: %s\n- Risk Score: %d\n\n",
		alert.UserName, alert.UserID, alert.Type, alert.Severity, alert.Description, alert.RiskScore)
	fmt.Fprintf(&b, "Associated Audit Logs:\n%s\n\n", logsJSON)
	b.WriteString("Structure your response with:\n1. Threat Assessment (Likelihood of malicious intent)\n2. Potential Impact\n3. Recommended Next Steps for Investigation\n")
	return b.String()
}
