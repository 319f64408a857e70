package normalize

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

func int64Ptr(n int64) *int64 { return &n }

func sampleRaw() types.RawCloudLog {
	return types.RawCloudLog{
		EventTime:           "2024-05-20T14:22:10Z",
		UserIdentity:        types.UserIdentity{PrincipalID: "u123", UserName: "Alice Smith"},
		EventName:           "PutObject",
		RequestParameters:   &types.RequestParameters{BucketName: "S3:PublicAssets"},
		SourceIPAddress:     "192.168.1.5",
		UserAgent:           "aws-sdk-go/1.44.0",
		AdditionalEventData: &types.AdditionalEventData{BytesTransferred: int64Ptr(12582912)},
	}
}

func TestNormalize_Basic(t *testing.T) {
	n := New(types.ProviderAWS)
	log, err := n.Normalize(sampleRaw(), "log-1")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if log.ID != "log-1" {
		t.Errorf("ID = %q", log.ID)
	}
	if log.UserID != "u123" || log.UserName != "Alice Smith" {
		t.Errorf("identity: UserID=%q UserName=%q", log.UserID, log.UserName)
	}
	if log.Action != "PutObject" {
		t.Errorf("Action = %q", log.Action)
	}
	if log.Resource != "S3:PublicAssets" {
		t.Errorf("Resource = %q", log.Resource)
	}
	if log.Provider != types.ProviderAWS {
		t.Errorf("Provider = %q", log.Provider)
	}
	if log.IPAddress != "192.168.1.5" {
		t.Errorf("IPAddress = %q", log.IPAddress)
	}
	// 12582912 bytes is exactly 12 MiB
	if log.DataVolume != 12 {
		t.Errorf("DataVolume = %d, want 12", log.DataVolume)
	}
	want := time.Date(2024, 5, 20, 14, 22, 10, 0, time.UTC)
	if !log.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", log.Timestamp, want)
	}
	if log.Raw == nil {
		t.Error("Raw reference should be preserved")
	}
}

func TestNormalize_ResourcePrecedence(t *testing.T) {
	n := New(types.ProviderAWS)
	tests := []struct {
		name   string
		params *types.RequestParameters
		want   string
	}{
		{"bucket wins over resource id", &types.RequestParameters{BucketName: "S3:Data", ResourceID: "RDS:Prod"}, "S3:Data"},
		{"resource id when no bucket", &types.RequestParameters{ResourceID: "RDS:Prod"}, "RDS:Prod"},
		{"sentinel when neither", &types.RequestParameters{}, types.UnknownResource},
		{"sentinel when params absent", nil, types.UnknownResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sampleRaw()
			raw.RequestParameters = tt.params
			log, err := n.Normalize(raw, "log-1")
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if log.Resource != tt.want {
				t.Errorf("Resource = %q, want %q", log.Resource, tt.want)
			}
		})
	}
}

func TestNormalize_DataVolume(t *testing.T) {
	n := New(types.ProviderAWS)
	tests := []struct {
		name  string
		bytes *int64
		want  int64
	}{
		{"absent means zero", nil, 0},
		{"zero bytes", int64Ptr(0), 0},
		{"exactly 1 MiB", int64Ptr(1024 * 1024), 1},
		{"exactly 160 MiB", int64Ptr(160 * 1024 * 1024), 160},
		{"rounds down below half", int64Ptr(1024*1024 + 1), 1},
		{"rounds up at half", int64Ptr(1024*1024 + 512*1024), 2},
		{"small counts round to zero", int64Ptr(100), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sampleRaw()
			if tt.bytes == nil {
				raw.AdditionalEventData = nil
			} else {
				raw.AdditionalEventData = &types.AdditionalEventData{BytesTransferred: tt.bytes}
			}
			log, err := n.Normalize(raw, "log-1")
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if log.DataVolume != tt.want {
				t.Errorf("DataVolume = %d, want %d", log.DataVolume, tt.want)
			}
		})
	}
}

func TestNormalize_ExactMiBBoundaries(t *testing.T) {
	n := New(types.ProviderAWS)
	for _, k := range []int64{1, 2, 12, 50, 160, 1000} {
		raw := sampleRaw()
		raw.AdditionalEventData = &types.AdditionalEventData{BytesTransferred: int64Ptr(k * 1024 * 1024)}
		log, err := n.Normalize(raw, "log-1")
		if err != nil {
			t.Fatalf("Normalize(%d MiB): %v", k, err)
		}
		if log.DataVolume != k {
			t.Errorf("DataVolume(%d MiB) = %d, want %d", k, log.DataVolume, k)
		}
	}
}

func TestNormalize_MalformedInput(t *testing.T) {
	n := New(types.ProviderAWS)
	tests := []struct {
		name   string
		mutate func(*types.RawCloudLog)
	}{
		{"missing principal id", func(r *types.RawCloudLog) { r.UserIdentity.PrincipalID = "" }},
		{"missing event time", func(r *types.RawCloudLog) { r.EventTime = "" }},
		{"unparsable event time", func(r *types.RawCloudLog) { r.EventTime = "yesterday at noon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sampleRaw()
			tt.mutate(&raw)
			log, err := n.Normalize(raw, "log-1")
			if err == nil {
				t.Fatal("expected error")
			}
			var malformed *MalformedInputError
			if !errors.As(err, &malformed) {
				t.Errorf("error type = %T, want *MalformedInputError", err)
			}
			if !reflect.DeepEqual(log, types.CloudLog{}) {
				t.Error("no partial record should be produced on failure")
			}
		})
	}
}

func TestNormalize_Pure(t *testing.T) {
	n := New(types.ProviderAWS)
	raw := sampleRaw()
	a, err := n.Normalize(raw, "log-1")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	b, err := n.Normalize(raw, "log-1")
	if err != nil {
		t.Fatalf("Normalize second: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Normalize is not pure: %+v vs %+v", a, b)
	}
}

func TestClassifyByPrefix(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"192.168.1.5", LocationHQ},
		{"10.0.4.2", LocationHQ},
		{"172.16.9.1", LocationHQ},
		{"51.140.22.7", LocationLondon},
		{"82.102.3.45", LocationUnknown},
		{"", LocationUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyByPrefix(tt.ip); got != tt.want {
			t.Errorf("ClassifyByPrefix(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

func TestClassifyByPrefix_NeverEmpty(t *testing.T) {
	for _, ip := range []string{"", "1.2.3.4", "not-an-ip", "2001:db8::1"} {
		if got := ClassifyByPrefix(ip); got == "" {
			t.Errorf("ClassifyByPrefix(%q) returned empty location", ip)
		}
	}
}

func TestNormalize_CustomClassifier(t *testing.T) {
	n := New(types.ProviderAWS).WithLocationClassifier(func(string) string { return "Office - Tokyo" })
	log, err := n.Normalize(sampleRaw(), "log-1")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if log.Location != "Office - Tokyo" {
		t.Errorf("Location = %q", log.Location)
	}
}
