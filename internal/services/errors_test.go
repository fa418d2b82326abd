package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrDecode, "audio", "decode", "unreadable wav header", base)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
	for _, want := range []string{"audio", "decode", "unreadable wav header"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("message %q missing %q", err.Error(), want)
		}
	}
}

func TestWrapNilMarkerDefaultsToCapture(t *testing.T) {
	err := Wrap(nil, "frame", "readback", "", nil)
	if !errors.Is(err, ErrCapture) {
		t.Fatalf("nil marker should default to ErrCapture, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"aborted sentinel", Wrap(ErrAborted, "export", "render", "", nil), CategoryCancelled},
		{"context cancelled", context.Canceled, CategoryCancelled},
		{"validation", Wrap(ErrValidation, "stereo", "stack", "dimension mismatch", nil), CategoryInvalid},
		{"decode", Wrap(ErrDecode, "audio", "decode", "", nil), CategoryFailed},
		{"capture", Wrap(ErrCapture, "frame", "readback", "", nil), CategoryFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsAborted(t *testing.T) {
	if !IsAborted(context.DeadlineExceeded) {
		t.Fatal("deadline exceeded should count as aborted")
	}
	if IsAborted(Wrap(ErrCapture, "frame", "readback", "", nil)) {
		t.Fatal("capture failure must not count as aborted")
	}
}

func TestContextAnnotations(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithStage(ctx, "render")
	ctx = WithFrame(ctx, 42)

	if id, ok := RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id = %q, %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "render" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if frame, ok := FrameFromContext(ctx); !ok || frame != 42 {
		t.Fatalf("frame = %d, %v", frame, ok)
	}
	if _, ok := RunIDFromContext(context.Background()); ok {
		t.Fatal("empty context should have no run id")
	}
}
