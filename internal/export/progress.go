package export

// Stage labels the three phases of an export run.
type Stage int

const (
	StageAnalyze Stage = iota
	StageRender
	StageFinalize
)

func (s Stage) String() string {
	switch s {
	case StageAnalyze:
		return "analyze"
	case StageRender:
		return "render"
	case StageFinalize:
		return "finalize"
	}
	return "unknown"
}

// ProgressFunc receives cumulative progress in percent plus the stage label.
// It is called at least once per stage transition and periodically while
// rendering.
type ProgressFunc func(percent float64, stage string)

// Stage weights: analysis is quick, rendering dominates, finalization
// covers encoder flush and cleanup.
var stageSpans = map[Stage]struct{ base, span float64 }{
	StageAnalyze:  {0, 10},
	StageRender:   {10, 70},
	StageFinalize: {80, 20},
}

// progressTracker converts per-stage fractions into a monotonic cumulative
// percentage. Reported values never decrease and never leave [0, 100], so a
// stage re-reporting after a retry cannot walk the bar backward.
type progressTracker struct {
	cb   ProgressFunc
	last float64
}

func newProgressTracker(cb ProgressFunc) *progressTracker {
	return &progressTracker{cb: cb}
}

// report maps fraction (0..1 within stage) onto the cumulative scale.
func (t *progressTracker) report(stage Stage, fraction float64) {
	if t.cb == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	span := stageSpans[stage]
	percent := span.base + span.span*fraction
	if percent > 100 {
		percent = 100
	}
	if percent < t.last {
		percent = t.last
	}
	t.last = percent
	t.cb(percent, stage.String())
}
