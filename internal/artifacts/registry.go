package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/models"
)

const (
	registryFileName = "registry.json"
	latestFileName   = "latest.json" // legacy single-pointer format
	runsDirName      = "runs"
)

// legacyPointer is the old latest.json format: just the run to serve.
type legacyPointer struct {
	Run string `json:"run"`
}

// Registry tracks which artifact run is current, keeps one level of rollback
// history, and resolves run IDs to loaded bundles. State mutations are
// read-modify-write on registry.json, guarded by an in-process mutex
// (single-writer discipline; this process owns the file).
type Registry struct {
	mu     sync.Mutex
	root   string
	store  *Store
	logger *zap.SugaredLogger
}

// NewRegistry creates a registry rooted at the artifacts directory,
// ensuring the runs subdirectory exists.
func NewRegistry(root string, store *Store, logger *zap.Logger) (*Registry, error) {
	if err := os.MkdirAll(filepath.Join(root, runsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create runs dir: %w", err)
	}
	return &Registry{
		root:   root,
		store:  store,
		logger: logger.Sugar(),
	}, nil
}

// RunDir returns the directory a run's artifacts live in.
func (r *Registry) RunDir(runID string) string {
	return filepath.Join(r.root, runsDirName, runID)
}

// loadState resolves registry state in order: structured registry.json,
// then the legacy latest.json pointer (synthesizing a minimal state), then
// empty.
func (r *Registry) loadState() (*models.RegistryState, error) {
	registryPath := filepath.Join(r.root, registryFileName)
	if raw, err := os.ReadFile(registryPath); err == nil {
		state := models.NewRegistryState()
		if err := json.Unmarshal(raw, state); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, registryPath, err)
		}
		if state.Versions == nil {
			state.Versions = make(map[string]models.VersionInfo)
		}
		return state, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", registryPath, err)
	}

	latestPath := filepath.Join(r.root, latestFileName)
	if raw, err := os.ReadFile(latestPath); err == nil {
		var ptr legacyPointer
		if err := json.Unmarshal(raw, &ptr); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, latestPath, err)
		}
		if ptr.Run != "" {
			state := models.NewRegistryState()
			state.Current = ptr.Run
			state.Versions[ptr.Run] = models.VersionInfo{
				RunID:     ptr.Run,
				Version:   models.DefaultModelVersion,
				Timestamp: float64(time.Now().Unix()),
			}
			return state, nil
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", latestPath, err)
	}

	return models.NewRegistryState(), nil
}

func (r *Registry) saveState(state *models.RegistryState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.root, registryFileName), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write registry state: %w", err)
	}
	r.logger.Infow("Saved registry state", "current", state.Current, "previous", state.Previous)
	return nil
}

// Register records a new model version and promotes it to current. The old
// current becomes previous; any older previous is discarded. Re-registering
// a known run_id overwrites its VersionInfo and rotates using whatever was
// current at call time.
func (r *Registry) Register(runID, version string, metrics map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.loadState()
	if err != nil {
		return err
	}

	if state.Current != "" {
		state.Previous = state.Current
	}
	state.Versions[runID] = models.VersionInfo{
		RunID:     runID,
		Version:   version,
		Timestamp: float64(time.Now().Unix()),
		Metrics:   metrics,
	}
	state.Current = runID

	if err := r.saveState(state); err != nil {
		return err
	}
	r.logger.Infow("Registered model version as current", "runID", runID, "version", version)
	return nil
}

// LoadLatest loads the bundle for the current model. Fails with
// ErrNoCurrentModel when nothing is registered.
func (r *Registry) LoadLatest() (*models.ArtifactBundle, error) {
	state, err := r.loadState()
	if err != nil {
		return nil, err
	}
	if state.Current == "" {
		return nil, ErrNoCurrentModel
	}
	return r.LoadVersion(state.Current)
}

// LoadVersion loads a specific run's bundle. Storage is the source of truth
// for loadability: a run_id known to the registry but absent on disk fails
// with ErrVersionNotFound.
func (r *Registry) LoadVersion(runID string) (*models.ArtifactBundle, error) {
	runDir := r.RunDir(runID)
	if _, err := os.Stat(runDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s at %s", ErrVersionNotFound, runID, runDir)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", runDir, err)
	}
	return r.store.Load(runDir)
}

// Rollback swaps current and previous. Single-step only: a second rollback
// toggles back, there is no deeper history.
func (r *Registry) Rollback() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.loadState()
	if err != nil {
		return err
	}
	if state.Previous == "" {
		return ErrNoPreviousModel
	}

	r.logger.Warnw("Rolling back model", "from", state.Current, "to", state.Previous)
	state.Current, state.Previous = state.Previous, state.Current
	return r.saveState(state)
}

// ListVersions returns all registered versions, newest first.
func (r *Registry) ListVersions() ([]models.VersionInfo, error) {
	state, err := r.loadState()
	if err != nil {
		return nil, err
	}
	versions := make([]models.VersionInfo, 0, len(state.Versions))
	for _, v := range state.Versions {
		versions = append(versions, v)
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Timestamp > versions[j].Timestamp
	})
	return versions, nil
}

// CurrentVersion returns info for the current model, or nil when nothing is
// registered.
func (r *Registry) CurrentVersion() (*models.VersionInfo, error) {
	state, err := r.loadState()
	if err != nil {
		return nil, err
	}
	if state.Current == "" {
		return nil, nil
	}
	if v, ok := state.Versions[state.Current]; ok {
		return &v, nil
	}
	return nil, nil
}
