package export

import (
	"errors"
	"testing"

	"emberpipe/internal/services"
)

func TestParseKindRoundTrips(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if parsed != k {
			t.Fatalf("ParseKind(%q) = %v", k, parsed)
		}
	}
	if _, err := ParseKind("flat-720p"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("unknown tag: %v", err)
	}
}

func TestResolutionTable(t *testing.T) {
	cases := []struct {
		kind Kind
		w, h int
	}{
		{KindFlat1080pLandscape, 1920, 1080},
		{KindFlat1080pPortrait, 1080, 1920},
		{KindFlat4KLandscape, 3840, 2160},
		{KindFlat4KPortrait, 2160, 3840},
		{Kind360Mono4K, 4096, 2048},
		{Kind360Mono6K, 6144, 3072},
		{Kind360Mono8K, 8192, 4096},
		{Kind360Stereo8K, 8192, 8192},
	}
	for _, tc := range cases {
		w, h := tc.kind.Resolution()
		if w != tc.w || h != tc.h {
			t.Errorf("%s resolution %dx%d, want %dx%d", tc.kind, w, h, tc.w, tc.h)
		}
	}
}

func TestMonoKindsAreTwoToOne(t *testing.T) {
	for _, k := range Kinds() {
		if !k.Is360() || k.IsStereo() {
			continue
		}
		w, h := k.Resolution()
		if w != 2*h {
			t.Errorf("%s is %dx%d, want 2:1", k, w, h)
		}
		if k.PanoramaWidth() != w {
			t.Errorf("%s panorama width %d, want %d", k, k.PanoramaWidth(), w)
		}
	}
}

func TestStereoPanoramaWidth(t *testing.T) {
	if Kind360Stereo8K.PanoramaWidth() != 8192 {
		t.Fatalf("stereo panorama width = %d", Kind360Stereo8K.PanoramaWidth())
	}
	if KindFlat1080pLandscape.PanoramaWidth() != 0 {
		t.Fatal("flat kinds have no panorama width")
	}
}

func TestNeedsGPU(t *testing.T) {
	wantGPU := map[Kind]bool{
		KindFlat1080pLandscape: false,
		KindFlat1080pPortrait:  false,
		KindFlat4KLandscape:    true,
		KindFlat4KPortrait:     true,
		Kind360Mono4K:          true,
		Kind360Mono6K:          true,
		Kind360Mono8K:          true,
		Kind360Stereo8K:        true,
	}
	for k, want := range wantGPU {
		if k.NeedsGPU() != want {
			t.Errorf("%s NeedsGPU = %v, want %v", k, k.NeedsGPU(), want)
		}
	}
}

func TestProgressTrackerIsMonotonicAndClamped(t *testing.T) {
	var percents []float64
	var stages []string
	tr := newProgressTracker(func(p float64, stage string) {
		percents = append(percents, p)
		stages = append(stages, stage)
	})

	tr.report(StageAnalyze, 0)
	tr.report(StageAnalyze, 1)
	tr.report(StageRender, 0.5)
	tr.report(StageAnalyze, 0.2) // late low report must not walk back
	tr.report(StageRender, 2.0)  // over-reporting clamps to stage end
	tr.report(StageFinalize, 1)

	want := []float64{0, 10, 45, 45, 80, 100}
	if len(percents) != len(want) {
		t.Fatalf("got %d reports: %v", len(percents), percents)
	}
	for i := range want {
		if percents[i] != want[i] {
			t.Fatalf("report %d = %v, want %v (all: %v)", i, percents[i], want[i], percents)
		}
	}
	if stages[0] != "analyze" || stages[2] != "render" || stages[5] != "finalize" {
		t.Fatalf("stage labels: %v", stages)
	}
}

func TestProgressTrackerToleratesNilCallback(t *testing.T) {
	tr := newProgressTracker(nil)
	tr.report(StageRender, 0.5)
}
