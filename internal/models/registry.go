package models

// VersionInfo describes one registered model version.
type VersionInfo struct {
	RunID     string             `json:"run_id"`
	Version   string             `json:"version"`
	Timestamp float64            `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// RegistryState tracks which run is currently served and which one it can
// roll back to. Only one level of history is kept: registering a new run
// discards the old previous.
type RegistryState struct {
	Current  string                 `json:"current"`
	Previous string                 `json:"previous,omitempty"`
	Versions map[string]VersionInfo `json:"versions"`
}

// NewRegistryState returns an empty state (nothing registered yet).
func NewRegistryState() *RegistryState {
	return &RegistryState{Versions: make(map[string]VersionInfo)}
}
