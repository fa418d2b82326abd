package cubemap

import (
	"emberpipe/internal/frame"
	"emberpipe/internal/render"
)

// Face identifies one of the six cube faces by the axis it looks down.
type Face int

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
	faceCount
)

var faceNames = [faceCount]string{"+x", "-x", "+y", "-y", "+z", "-z"}

func (f Face) String() string {
	if f < 0 || f >= faceCount {
		return "invalid"
	}
	return faceNames[f]
}

// faceBases holds the forward/up pair for each face. Lateral faces share a
// world-up so the horizon stays level; the poles pick tangent axes.
var faceBases = [faceCount]struct {
	forward render.Vec3
	up      render.Vec3
}{
	FacePosX: {render.Vec3{X: 1}, render.Vec3{Y: 1}},
	FaceNegX: {render.Vec3{X: -1}, render.Vec3{Y: 1}},
	FacePosY: {render.Vec3{Y: 1}, render.Vec3{Z: -1}},
	FaceNegY: {render.Vec3{Y: -1}, render.Vec3{Z: 1}},
	FacePosZ: {render.Vec3{Z: 1}, render.Vec3{Y: 1}},
	FaceNegZ: {render.Vec3{Z: -1}, render.Vec3{Y: 1}},
}

// Basis returns the face's forward and up axes.
func (f Face) Basis() (forward, up render.Vec3) {
	b := faceBases[f]
	return b.forward, b.up
}

// FaceSet is one frame's worth of captured cube faces, all square at the
// same resolution.
type FaceSet struct {
	FrameNumber int
	Resolution  int
	Faces       [faceCount]*frame.PixelFrame
}

// Face returns the captured pixels for f.
func (s *FaceSet) Face(f Face) *frame.PixelFrame {
	return s.Faces[f]
}
