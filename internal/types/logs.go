// Package types defines shared API types for raw audit events, normalized
// logs, baselines, and alerts used by the controller HTTP API and internal
// processing.
package types

import "time"

// CloudProvider identifies the cloud vendor a log originated from.
type CloudProvider string

const (
	ProviderAWS   CloudProvider = "AWS"
	ProviderAzure CloudProvider = "Azure"
	ProviderGCP   CloudProvider = "GCP"
)

// UserIdentity is the identity descriptor on a raw audit event.
type UserIdentity struct {
	PrincipalID string `json:"principalId"`
	UserName    string `json:"userName"`
}

// RequestParameters carries the loosely-typed parameter bag of a raw event.
// Only the keys relevant to resource resolution are modeled; everything else
// is preserved in Extra for display.
type RequestParameters struct {
	BucketName string                 `json:"bucketName,omitempty"`
	ResourceID string                 `json:"resourceId,omitempty"`
	Extra      map[string]interface{} `json:"-"`
}

// AdditionalEventData holds optional vendor extras on a raw event.
type AdditionalEventData struct {
	BytesTransferred *int64 `json:"bytesTransferred,omitempty"`
}

// RawCloudLog is the vendor-shaped audit event as received at the ingest
// boundary. It is never modified after receipt.
type RawCloudLog struct {
	EventTime           string               `json:"eventTime"`
	UserIdentity        UserIdentity         `json:"userIdentity"`
	EventName           string               `json:"eventName"`
	RequestParameters   *RequestParameters   `json:"requestParameters,omitempty"`
	SourceIPAddress     string               `json:"sourceIPAddress"`
	UserAgent           string               `json:"userAgent"`
	AdditionalEventData *AdditionalEventData `json:"additionalEventData,omitempty"`
}

// UnknownResource is the sentinel used when a raw event carries no
// recognizable resource identifier.
const UnknownResource = "Unknown"

// CloudLog is the canonical normalized record produced from exactly one
// RawCloudLog. Immutable after normalization.
type CloudLog struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	UserID     string        `json:"user_id"`
	UserName   string        `json:"user_name"`
	Action     string        `json:"action"`
	Resource   string        `json:"resource"`
	Provider   CloudProvider `json:"provider"`
	Location   string        `json:"location"`
	IPAddress  string        `json:"ip_address"`
	DataVolume int64         `json:"data_volume_mb"`
	Raw        *RawCloudLog  `json:"raw,omitempty"`
}
