package settings

import "testing"

func TestDecideFailsOpenWhenUnloaded(t *testing.T) {
	snap := Snapshot{Loaded: false, MaintenanceMode: true}
	if got := Decide("/api/v1/events", snap); got != DecisionAllow {
		t.Fatalf("unloaded settings must allow, got %v", got)
	}
}

func TestDecidePublicRoutes(t *testing.T) {
	tests := []struct {
		name        string
		route       string
		maintenance bool
		want        Decision
	}{
		{"active site serves content", "/api/v1/events", false, DecisionAllow},
		{"maintenance blocks content", "/api/v1/events", true, DecisionMaintenance},
		{"maintenance blocks root", "/", true, DecisionMaintenance},
		{"admin api stays open", "/api/v1/admin/settings", true, DecisionAllow},
		{"auth stays open", "/api/v1/auth/login", true, DecisionAllow},
		{"admin panel stays open", "/admin", true, DecisionAllow},
		{"admin subpath stays open", "/admin/dashboard", true, DecisionAllow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Loaded: true, MaintenanceMode: tt.maintenance}
			if got := Decide(tt.route, snap); got != tt.want {
				t.Fatalf("Decide(%q) = %v, want %v", tt.route, got, tt.want)
			}
		})
	}
}

func TestDecideSameRouteBothStates(t *testing.T) {
	// The decision depends only on the snapshot, never on the route,
	// for non-admin paths.
	route := "/api/v1/slides"
	if got := Decide(route, Snapshot{Loaded: true}); got != DecisionAllow {
		t.Fatalf("active: got %v", got)
	}
	if got := Decide(route, Snapshot{Loaded: true, MaintenanceMode: true}); got != DecisionMaintenance {
		t.Fatalf("maintenance: got %v", got)
	}
}
