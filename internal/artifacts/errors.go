// Package artifacts persists trained model bundles and tracks which run is
// currently served. A run directory holds exactly two JSON documents
// (stats.json, manifest.json); registry.json records current/previous and
// the version history.
package artifacts

import "errors"

// Failure kinds callers branch on with errors.Is. "Nothing registered yet",
// "requested version not found" and "can't roll back further" are distinct
// conditions; so are "file missing", "file unreadable" and "file readable
// but invalid".
var (
	ErrStatsFileMissing    = errors.New("stats file not found")
	ErrManifestFileMissing = errors.New("manifest file not found")
	ErrMalformedArtifact   = errors.New("artifact file contains invalid JSON")
	ErrInvalidArtifact     = errors.New("artifact failed schema validation")

	ErrNoCurrentModel  = errors.New("no current model registered")
	ErrNoPreviousModel = errors.New("no previous model to rollback to")
	ErrVersionNotFound = errors.New("model version not found")
)
