package audio

import "math"

// FeatureFrame captures the audio features driving one output frame.
type FeatureFrame struct {
	FrameIndex  int     `json:"frame_index"`
	TimeSeconds float64 `json:"time_seconds"`
	Amplitude   float64 `json:"amplitude"`
	BassLevel   float64 `json:"bass_level"`
	MidLevel    float64 `json:"mid_level"`
	HighLevel   float64 `json:"high_level"`
	IsBeat      bool    `json:"is_beat"`
}

// Silent returns a feature frame with all levels zeroed for the given index.
// The stepper uses these to fill frames skipped during a forward jump.
func Silent(frameIndex int, fps int) FeatureFrame {
	return FeatureFrame{
		FrameIndex:  frameIndex,
		TimeSeconds: float64(frameIndex) / float64(fps),
	}
}

// AnalysisResult is the immutable product of analyzing one track at one fps.
type AnalysisResult struct {
	Frames      []FeatureFrame `json:"frames"`
	TotalFrames int            `json:"total_frames"`
	Duration    float64        `json:"duration"`
	FPS         int            `json:"fps"`
}

// FrameAt returns the feature frame for index, or a silent frame when the
// index falls outside the analyzed range.
func (r *AnalysisResult) FrameAt(index int) FeatureFrame {
	if r == nil || index < 0 || index >= len(r.Frames) {
		fps := 30
		if r != nil && r.FPS > 0 {
			fps = r.FPS
		}
		return Silent(index, fps)
	}
	return r.Frames[index]
}

// TotalFramesFor computes the dense frame count for a duration at fps.
func TotalFramesFor(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(duration * float64(fps)))
}
