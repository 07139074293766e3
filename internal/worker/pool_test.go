package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/models"
)

func newTestPool(t *testing.T, cfg PoolConfig) (*Pool, string) {
	t.Helper()
	if cfg.DataDir == "" {
		cfg.DataDir = t.TempDir()
	}
	cfg.Logger = zap.NewNop()
	p := NewPool(cfg)
	p.Start(context.Background())
	return p, cfg.DataDir
}

func testMatch(id string) *models.RawMatch {
	return &models.RawMatch{
		MatchID:  id,
		BlueTeam: `[{"c":"Ahri","r":"MID"}]`,
		RedTeam:  `[{"c":"Zed","r":"MID"}]`,
		Winner:   "BLUE",
	}
}

// readPartitions decodes every partition file under dataDir.
func readPartitions(t *testing.T, dataDir string) []models.RawMatch {
	t.Helper()
	var all []models.RawMatch
	err := filepath.Walk(dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var batch []models.RawMatch
		if err := json.Unmarshal(raw, &batch); err != nil {
			t.Errorf("partition %s not a match array: %v", path, err)
			return nil
		}
		all = append(all, batch...)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dataDir, err)
	}
	return all
}

func waitForRecords(t *testing.T, dataDir string, want int) []models.RawMatch {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := readPartitions(t, dataDir); len(got) >= want {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	got := readPartitions(t, dataDir)
	t.Fatalf("timed out waiting for %d records, have %d", want, len(got))
	return got
}

func TestPoolDefaults(t *testing.T) {
	p := NewPool(PoolConfig{Logger: zap.NewNop()})
	if p.config.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4", p.config.WorkerCount)
	}
	if p.config.QueueSize != 10000 {
		t.Errorf("QueueSize = %d, want 10000", p.config.QueueSize)
	}
	if p.config.BatchSize != 500 {
		t.Errorf("BatchSize = %d, want 500", p.config.BatchSize)
	}
	if p.config.FlushInterval != time.Second {
		t.Errorf("FlushInterval = %v, want 1s", p.config.FlushInterval)
	}
}

func TestPoolFlushOnInterval(t *testing.T) {
	p, dataDir := newTestPool(t, PoolConfig{
		WorkerCount:   1,
		BatchSize:     100,
		FlushInterval: 20 * time.Millisecond,
	})
	defer p.Stop()

	if !p.Enqueue(testMatch("m1")) {
		t.Fatal("Enqueue returned false")
	}
	if !p.Enqueue(testMatch("m2")) {
		t.Fatal("Enqueue returned false")
	}

	got := waitForRecords(t, dataDir, 2)
	ids := map[string]bool{}
	for _, m := range got {
		ids[m.MatchID] = true
	}
	if !ids["m1"] || !ids["m2"] {
		t.Errorf("partitions hold %v, want m1 and m2", ids)
	}
}

func TestPoolFlushOnBatchSize(t *testing.T) {
	p, dataDir := newTestPool(t, PoolConfig{
		WorkerCount:   1,
		BatchSize:     3,
		FlushInterval: time.Hour, // only the size trigger may fire
	})
	defer p.Stop()

	for _, id := range []string{"a", "b", "c"} {
		if !p.Enqueue(testMatch(id)) {
			t.Fatalf("Enqueue %s returned false", id)
		}
	}

	waitForRecords(t, dataDir, 3)
}

func TestPoolStopFlushesPending(t *testing.T) {
	p, dataDir := newTestPool(t, PoolConfig{
		WorkerCount:   1,
		BatchSize:     100,
		FlushInterval: time.Hour,
	})

	if !p.Enqueue(testMatch("m1")) {
		t.Fatal("Enqueue returned false")
	}
	// Let the worker pull the job into its batch before shutdown.
	deadline := time.Now().Add(2 * time.Second)
	for p.QueueDepth() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	p.Stop()

	got := readPartitions(t, dataDir)
	if len(got) != 1 || got[0].MatchID != "m1" {
		t.Errorf("after stop partitions hold %v, want the pending record", got)
	}
}

func TestPoolDeduplicates(t *testing.T) {
	p, _ := newTestPool(t, PoolConfig{WorkerCount: 1})
	defer p.Stop()

	if !p.Enqueue(testMatch("same-id")) {
		t.Fatal("first Enqueue returned false")
	}
	if p.Enqueue(testMatch("same-id")) {
		t.Error("duplicate match ID accepted")
	}
	// Distinct IDs are unaffected.
	if !p.Enqueue(testMatch("other-id")) {
		t.Error("distinct match ID rejected")
	}
}

func TestPoolEnqueueAfterStop(t *testing.T) {
	p, _ := newTestPool(t, PoolConfig{WorkerCount: 1})
	p.Stop()

	// Must not panic; the record is dropped.
	if p.Enqueue(testMatch("late")) {
		t.Error("Enqueue after Stop returned true")
	}
}

func TestPoolDayPartitionLayout(t *testing.T) {
	p, dataDir := newTestPool(t, PoolConfig{
		WorkerCount:   1,
		BatchSize:     1,
		FlushInterval: time.Hour,
	})
	defer p.Stop()

	if !p.Enqueue(testMatch("m1")) {
		t.Fatal("Enqueue returned false")
	}
	waitForRecords(t, dataDir, 1)

	day := time.Now().UTC().Format("2006-01-02")
	entries, err := os.ReadDir(filepath.Join(dataDir, day))
	if err != nil {
		t.Fatalf("expected day partition %s: %v", day, err)
	}
	if len(entries) == 0 {
		t.Fatal("day partition dir empty")
	}
}

func TestNormalizeMatchID(t *testing.T) {
	// The same string always maps to the same ID.
	if normalizeMatchID("NA1_12345") != normalizeMatchID("NA1_12345") {
		t.Error("normalization not deterministic")
	}
	if normalizeMatchID("NA1_12345") == normalizeMatchID("NA1_99999") {
		t.Error("distinct IDs collided")
	}
	// A real UUID passes through unchanged.
	const raw = "7f9c24e8-3b12-4fef-91e0-56a2d5a3c618"
	if normalizeMatchID(raw).String() != raw {
		t.Errorf("UUID input rewritten: %s", normalizeMatchID(raw))
	}
}
