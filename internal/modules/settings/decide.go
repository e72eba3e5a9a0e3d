package settings

import "strings"

// Decision is the Access Gate outcome for a route.
type Decision int

const (
	// DecisionAllow renders the real content.
	DecisionAllow Decision = iota
	// DecisionMaintenance renders the maintenance placeholder.
	DecisionMaintenance
)

// adminPrefixes are route subtrees that stay reachable while the site
// is gated, so an admin can always get in and toggle back.
var adminPrefixes = []string{
	"/admin",
	"/api/v1/admin",
	"/api/v1/auth",
}

// Decide is the Access Gate: evaluated before any public content is
// served. Missing/unloaded settings fail open.
func Decide(route string, snap Snapshot) Decision {
	if !snap.Loaded {
		return DecisionAllow
	}
	for _, p := range adminPrefixes {
		if strings.HasPrefix(route, p) {
			return DecisionAllow
		}
	}
	if !snap.MaintenanceMode {
		return DecisionAllow
	}
	return DecisionMaintenance
}
