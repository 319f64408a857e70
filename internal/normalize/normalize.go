// Package normalize converts vendor-shaped raw audit events into canonical
// CloudLog records.
package normalize

import (
	"fmt"
	"math"
	"time"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

const bytesPerMB = 1024 * 1024

// MalformedInputError is returned when a raw event is missing the identity
// descriptor or carries a missing/unparsable timestamp. No partial record is
// produced; the event is dropped from processing.
type MalformedInputError struct {
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed raw event: field %s: %s", e.Field, e.Reason)
}

// Normalizer maps RawCloudLog records to CloudLog records. The zero value is
// not usable; construct with New.
type Normalizer struct {
	provider types.CloudProvider
	classify LocationClassifier
}

// New creates a Normalizer for the given provider using the default
// location classifier.
func New(provider types.CloudProvider) *Normalizer {
	return &Normalizer{provider: provider, classify: ClassifyByPrefix}
}

// WithLocationClassifier overrides the location heuristic, e.g. with a real
// geolocation lookup. The classifier must return a non-empty value from a
// bounded vocabulary comparable against baseline common locations.
func (n *Normalizer) WithLocationClassifier(c LocationClassifier) *Normalizer {
	n.classify = c
	return n
}

// Normalize converts one raw event into a canonical record. id must be
// unique; generation is the caller's concern. Normalize is pure: identical
// inputs yield identical records.
//
// Resource resolution prefers the bucket-style parameter over the generic
// resource id, falling back to the Unknown sentinel. The order is a
// vendor-shape precedence and must not be reordered.
func (n *Normalizer) Normalize(raw types.RawCloudLog, id string) (types.CloudLog, error) {
	if raw.UserIdentity.PrincipalID == "" {
		return types.CloudLog{}, &MalformedInputError{Field: "userIdentity.principalId", Reason: "missing"}
	}
	if raw.EventTime == "" {
		return types.CloudLog{}, &MalformedInputError{Field: "eventTime", Reason: "missing"}
	}
	ts, err := time.Parse(time.RFC3339, raw.EventTime)
	if err != nil {
		return types.CloudLog{}, &MalformedInputError{Field: "eventTime", Reason: err.Error()}
	}

	return types.CloudLog{
		ID:         id,
		Timestamp:  ts.UTC(),
		UserID:     raw.UserIdentity.PrincipalID,
		UserName:   raw.UserIdentity.UserName,
		Action:     raw.EventName,
		Resource:   resolveResource(raw.RequestParameters),
		Provider:   n.provider,
		Location:   n.classify(raw.SourceIPAddress),
		IPAddress:  raw.SourceIPAddress,
		DataVolume: dataVolumeMB(raw.AdditionalEventData),
		Raw:        &raw,
	}, nil
}

func resolveResource(params *types.RequestParameters) string {
	if params == nil {
		return types.UnknownResource
	}
	if params.BucketName != "" {
		return params.BucketName
	}
	if params.ResourceID != "" {
		return params.ResourceID
	}
	return types.UnknownResource
}

// dataVolumeMB converts the optional byte count to whole megabytes, rounding
// half away from zero. Absent byte counts normalize to zero volume.
func dataVolumeMB(extra *types.AdditionalEventData) int64 {
	if extra == nil || extra.BytesTransferred == nil {
		return 0
	}
	return int64(math.Round(float64(*extra.BytesTransferred) / float64(bytesPerMB)))
}
