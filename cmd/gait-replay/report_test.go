package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teslashibe/go-gait/pkg/gait"
	"github.com/teslashibe/go-gait/pkg/session"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want string
	}{
		{
			name: "no person",
			snap: session.Snapshot{Seq: 3},
			want: "no person",
		},
		{
			name: "error",
			snap: session.Snapshot{Seq: 3, Detected: true, Error: "pose: bad frame"},
			want: "pose: bad frame",
		},
		{
			name: "calibrating",
			snap: session.Snapshot{Seq: 3, Detected: true, Oscillation: &gait.OscillationResult{
				Calibrating: true, CalibrationFrame: 3, CalibrationFrames: 30,
			}},
			want: "calibrating 3/30",
		},
		{
			name: "oscillation",
			snap: session.Snapshot{Seq: 40, Detected: true, Oscillation: &gait.OscillationResult{
				Latest: [gait.NumChannels]float64{0, -4.3},
			}},
			want: "head_y=-4.3",
		},
		{
			name: "posture held",
			snap: session.Snapshot{Seq: 5, Detected: true, Posture: &gait.PostureResult{
				Angles: gait.Angles{Head: 12.5},
			}},
			want: "head=12.5° shoulder=0.0° hip=0.0° knee=0.0° (held)",
		},
		{
			name: "stride event",
			snap: session.Snapshot{Seq: 9, Detected: true, Stride: &gait.StrideResult{
				Cadence: 120, StrideLength: 138.9, Event: true,
				Strikes: []gait.Strike{{Type: gait.StrikeForefoot}},
			}},
			want: "cadence=120.0 spm stride=138.9 cm front=left strike=forefoot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, describe(tt.snap), tt.want)
		})
	}
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &reporter{out: &buf, every: 2}

	r.PublishSnapshot(session.Snapshot{}) // control snapshot, ignored
	for seq := uint64(1); seq <= 4; seq++ {
		r.PublishSnapshot(session.Snapshot{Seq: seq, Detected: seq > 1, Stride: &gait.StrideResult{Cadence: 100}})
	}

	assert.Equal(t, uint64(4), r.frames)
	assert.Equal(t, uint64(3), r.detected)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"), "every second frame printed")
	assert.NotNil(t, r.last.Stride)
}
