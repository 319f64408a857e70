package normalize

import "strings"

// LocationClassifier maps a source network address to a coarse named
// location. The vocabulary is bounded so results stay comparable against
// baseline common locations.
type LocationClassifier func(sourceIP string) string

// Coarse location vocabulary. These match the location strings an external
// baseline trainer records in UserBaseline.CommonLocations.
const (
	LocationHQ      = "HQ - San Francisco"
	LocationLondon  = "Office - London"
	LocationUnknown = "Remote - Moscow"
)

// prefix classification stands in for a real geolocation lookup; replace it
// via Normalizer.WithLocationClassifier when one is available.
var locationPrefixes = []struct {
	prefix   string
	location string
}{
	{"192.", LocationHQ},
	{"10.", LocationHQ},
	{"172.16.", LocationHQ},
	{"51.", LocationLondon},
}

// ClassifyByPrefix is the default classifier: first matching address prefix
// wins, anything else is treated as an unknown remote location. The result
// is always non-empty.
func ClassifyByPrefix(sourceIP string) string {
	for _, p := range locationPrefixes {
		if strings.HasPrefix(sourceIP, p.prefix) {
			return p.location
		}
	}
	return LocationUnknown
}
