package featurecache

import (
	"context"
	"testing"
	"time"

	"emberpipe/internal/audio"
	"emberpipe/internal/testsupport"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(testsupport.NewConfig(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult() *audio.AnalysisResult {
	return &audio.AnalysisResult{
		Frames: []audio.FeatureFrame{
			{FrameIndex: 0, Amplitude: 0.5, BassLevel: 0.4, IsBeat: true},
			{FrameIndex: 1, TimeSeconds: 1.0 / 30, MidLevel: 0.2},
		},
		TotalFrames: 2,
		Duration:    2.0 / 30,
		FPS:         30,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := sampleResult()
	if err := store.Put(ctx, "k1", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.TotalFrames != want.TotalFrames || got.FPS != want.FPS || len(got.Frames) != len(want.Frames) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Frames[0].IsBeat || got.Frames[0].BassLevel != 0.4 {
		t.Fatalf("frame payload mismatch: %+v", got.Frames[0])
	}
}

func TestPutReplacesExisting(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := sampleResult()
	if err := store.Put(ctx, "k", first); err != nil {
		t.Fatalf("Put: %v", err)
	}
	second := sampleResult()
	second.TotalFrames = 99
	if err := store.Put(ctx, "k", second); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.TotalFrames != 99 {
		t.Fatalf("expected replacement, got TotalFrames=%d", got.TotalFrames)
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "old", sampleResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Jump the clock past the TTL.
	store.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	if _, ok, err := store.Get(ctx, "old"); err != nil || ok {
		t.Fatalf("expired entry should miss, got ok=%v err=%v", ok, err)
	}
}

func TestPruneDropsStaleRows(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "stale", sampleResult()); err != nil {
		t.Fatalf("Put stale: %v", err)
	}

	store.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if err := store.Put(ctx, "fresh", sampleResult()); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}

	dropped, err := store.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("Prune dropped %d rows, want 1", dropped)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 1 {
		t.Fatalf("Stats.Entries = %d, want 1", stats.Entries)
	}
}
