// Package export drives complete frame export runs. An orchestrator walks
// the analyzed audio timeline frame by frame, advancing the scene through
// the stepper and routing each frame through the capture chain its export
// kind requires, handing finished frames to an encoder sink.
package export
