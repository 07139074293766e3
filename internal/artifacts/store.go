package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/models"
)

const (
	statsFileName    = "stats.json"
	manifestFileName = "manifest.json"
)

// Store reads and writes artifact bundles in run directories.
type Store struct {
	logger *zap.SugaredLogger
}

// NewStore creates a file-backed artifact store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger.Sugar()}
}

// Save writes the bundle's statistics and manifest into runDir, creating it
// if needed. The bundle is validated before anything touches disk.
func (s *Store) Save(runDir string, bundle *models.ArtifactBundle) error {
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("failed to create run dir %s: %w", runDir, err)
	}

	statsJSON, err := json.MarshalIndent(bundle.Stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	manifestJSON, err := json.MarshalIndent(bundle.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(runDir, statsFileName), statsJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, manifestFileName), manifestJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	s.logger.Infow("Saved artifacts",
		"runDir", runDir,
		"champions", len(bundle.Stats.GlobalWinrates),
		"rows", bundle.Manifest.RowsCount,
	)
	return nil
}

// Load reads and re-validates a bundle from runDir. Loading is strict:
// a missing file, unparseable JSON and schema-invalid content are three
// distinct error kinds.
func (s *Store) Load(runDir string) (*models.ArtifactBundle, error) {
	statsPath := filepath.Join(runDir, statsFileName)
	manifestPath := filepath.Join(runDir, manifestFileName)

	statsRaw, err := os.ReadFile(statsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrStatsFileMissing, statsPath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", statsPath, err)
	}
	manifestRaw, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestFileMissing, manifestPath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	var stats models.ArtifactStats
	if err := json.Unmarshal(statsRaw, &stats); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, statsPath, err)
	}
	var manifest models.ManifestData
	if err := json.Unmarshal(manifestRaw, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, manifestPath, err)
	}

	bundle := &models.ArtifactBundle{Stats: &stats, Manifest: &manifest}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, runDir, err)
	}

	s.logger.Infow("Loaded artifacts",
		"runDir", runDir,
		"champions", len(stats.GlobalWinrates),
		"rows", manifest.RowsCount,
	)
	return bundle, nil
}
