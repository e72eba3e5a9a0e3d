package settings

import "errors"

var (
	// ErrVersionConflict means another admin modified the settings row
	// between our read and write.
	ErrVersionConflict = errors.New("settings were modified concurrently, reload and retry")
)

// UpdateDTO is the typed patch for maintenance settings.
type UpdateDTO struct {
	MaintenanceMessage *string `json:"maintenance_message"`
	MaintenanceImage   *string `json:"maintenance_image"`
	Version            int64   `json:"version"`
}

// Snapshot is the read-side view the Access Gate decides on.
// Loaded=false means the settings could not be resolved: the gate
// fails open in that case.
type Snapshot struct {
	Loaded          bool
	MaintenanceMode bool
	Message         string
	Image           string
}
