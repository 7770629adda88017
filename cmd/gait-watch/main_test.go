package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teslashibe/go-gait/pkg/gait"
	"github.com/teslashibe/go-gait/pkg/session"
)

func TestFormat(t *testing.T) {
	assert.Contains(t, format(session.Snapshot{Running: true, Mode: gait.ModeStride}), "waiting for detection")

	line := format(session.Snapshot{
		Running:  true,
		Detected: true,
		Mode:     gait.ModeStride,
		Speed:    "10",
		Stride:   &gait.StrideResult{Cadence: 180, StrideLength: 92.6},
	})
	assert.Contains(t, line, "cadence=180.0 spm stride=92.6 cm speed=\"10\"")

	line = format(session.Snapshot{
		Detected:    true,
		Oscillation: &gait.OscillationResult{Calibrating: true, CalibrationFrame: 1, CalibrationFrames: 30},
	})
	assert.Contains(t, line, "calibrating 1/30")

	assert.Contains(t, format(session.Snapshot{Error: "boom"}), "⚠️  boom")
}
