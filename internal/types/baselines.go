package types

// UserBaseline is the per-identity behavioral profile the scorer compares
// against. It is owned by an external training process; the core only reads
// snapshots of it. Exactly zero or one baseline exists per identity.
type UserBaseline struct {
	UserID          string   `json:"user_id"`
	AvgDataVolume   int64    `json:"avg_data_volume_mb"`
	UsualLoginHour  int      `json:"usual_login_hour"`
	CommonLocations []string `json:"common_locations"`
	CommonResources []string `json:"common_resources"`
}

// Clone returns a deep copy so callers hold an immutable snapshot while the
// training process updates the store concurrently.
func (b UserBaseline) Clone() UserBaseline {
	out := b
	out.CommonLocations = append([]string(nil), b.CommonLocations...)
	out.CommonResources = append([]string(nil), b.CommonResources...)
	return out
}
