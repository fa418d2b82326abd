// Package cubemap captures a full sphere of scene pixels as six axis-aligned
// 90 degree faces, the intermediate form the equirectangular projector
// consumes. A stereo variant captures the sphere twice from laterally offset
// eye positions.
package cubemap
