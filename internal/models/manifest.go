package models

import "fmt"

// DefaultModelVersion is used when a manifest does not carry an explicit
// semantic version.
const DefaultModelVersion = "v1.0.0"

// ManifestData records the provenance of one training run: what data went
// in, under which config, and diagnostic counters for debugging. Saved
// alongside the statistics so every served prediction is traceable to a run.
type ManifestData struct {
	RunID     string  `json:"run_id"`
	Version   string  `json:"version"`
	Timestamp float64 `json:"timestamp"`
	RowsCount int     `json:"rows_count"`
	Source    string  `json:"source"`

	// Free-form diagnostics: config echo, data-quality counters
	// (malformed_count, skipped_pct) and artifact shape counts.
	Config        map[string]any     `json:"config,omitempty"`
	DataQuality   map[string]float64 `json:"data_quality,omitempty"`
	ArtifactStats map[string]int     `json:"artifact_stats,omitempty"`
}

// NewManifestData builds a validated manifest. Version defaults to
// DefaultModelVersion when empty.
func NewManifestData(runID string, timestamp float64, rowsCount int, source string) (*ManifestData, error) {
	m := &ManifestData{
		RunID:     runID,
		Version:   DefaultModelVersion,
		Timestamp: timestamp,
		RowsCount: rowsCount,
		Source:    source,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the required manifest fields.
func (m *ManifestData) Validate() error {
	if m.RunID == "" {
		return fmt.Errorf("manifest missing run_id")
	}
	if m.Version == "" {
		return fmt.Errorf("manifest missing version")
	}
	if m.RowsCount <= 0 {
		return fmt.Errorf("invalid rows_count %d: must be > 0", m.RowsCount)
	}
	if m.Source == "" {
		return fmt.Errorf("manifest missing source")
	}
	return nil
}
