package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/teslashibe/go-gait/pkg/chart"
	"github.com/teslashibe/go-gait/pkg/gait"
	"github.com/teslashibe/go-gait/pkg/session"
)

// reporter is a session.Sink that prints snapshots and keeps the last result.
type reporter struct {
	out   io.Writer
	every int
	quiet bool

	frames   uint64
	detected uint64
	last     session.Snapshot // last snapshot carrying a result
}

func (r *reporter) PublishSnapshot(snap session.Snapshot) {
	if snap.Seq == 0 {
		return // control snapshot
	}
	r.frames++
	if snap.Detected {
		r.detected++
	}
	if snap.Result() != nil {
		r.last = snap
	}
	if r.quiet || (r.every > 1 && snap.Seq%uint64(r.every) != 0) {
		return
	}
	fmt.Fprintln(r.out, describe(snap))
}

func (r *reporter) PublishFrame(uint64, []byte) {}

// describe renders one snapshot as a single line.
func describe(snap session.Snapshot) string {
	prefix := fmt.Sprintf("%6d", snap.Seq)
	if snap.Error != "" {
		return prefix + " ⚠️  " + snap.Error
	}
	if !snap.Detected {
		return prefix + " ⏳ no person"
	}

	switch {
	case snap.Oscillation != nil:
		o := snap.Oscillation
		if o.Calibrating {
			return fmt.Sprintf("%s 🎯 calibrating %d/%d", prefix, o.CalibrationFrame, o.CalibrationFrames)
		}
		parts := make([]string, 0, gait.NumChannels)
		for c := gait.Channel(0); c < gait.NumChannels; c++ {
			parts = append(parts, fmt.Sprintf("%s=%+.1f", c, o.Latest[c]))
		}
		return prefix + " ↕️  " + strings.Join(parts, " ")

	case snap.Posture != nil:
		a := snap.Posture.Angles
		mark := ""
		if !snap.Posture.Updated {
			mark = " (held)"
		}
		return fmt.Sprintf("%s 📐 head=%.1f° shoulder=%.1f° hip=%.1f° knee=%.1f°%s",
			prefix, a.Head, a.Shoulder, a.Hip, a.Knee, mark)

	case snap.Stride != nil:
		st := snap.Stride
		line := fmt.Sprintf("%s 👟 cadence=%.1f spm stride=%.1f cm front=%s", prefix, st.Cadence, st.StrideLength, st.FrontFoot)
		if st.Event && len(st.Strikes) > 0 {
			line += " strike=" + st.Strikes[len(st.Strikes)-1].Type.String()
		}
		return line
	}
	return prefix
}

func (r *reporter) summary(elapsed time.Duration) {
	fmt.Fprintf(r.out, "\n✅ %d frames (%d with a person) in %s\n", r.frames, r.detected, elapsed.Round(time.Millisecond))

	switch {
	case r.last.Oscillation != nil:
		for _, s := range chart.Summarize(r.last.Oscillation.Displacements) {
			fmt.Fprintf(r.out, "   %-17s mean=%+6.1f sd=%5.1f range=%5.1f px\n", s.Channel, s.Mean, s.StdDev, s.Range)
		}
	case r.last.Posture != nil:
		a := r.last.Posture.Angles
		fmt.Fprintf(r.out, "   head=%.1f° shoulder=%.1f° hip=%.1f° knee=%.1f°\n", a.Head, a.Shoulder, a.Hip, a.Knee)
	case r.last.Stride != nil:
		st := r.last.Stride
		counts := chart.StrikeCounts(st.Strikes)
		fmt.Fprintf(r.out, "   cadence=%.1f spm stride=%.1f cm strikes: heel=%d midfoot=%d forefoot=%d\n",
			st.Cadence, st.StrideLength,
			counts[gait.StrikeHeel], counts[gait.StrikeMidfoot], counts[gait.StrikeForefoot])
	}
}

func (r *reporter) writeHTML(f *os.File) error {
	if r.last.Stride != nil {
		return chart.StrikesHTML(f, r.last.Stride.Strikes)
	}
	var d gait.Displacements
	if r.last.Oscillation != nil {
		d = r.last.Oscillation.Displacements
	}
	return chart.OscillationHTML(f, d)
}

func (r *reporter) writePNG(f *os.File) error {
	var d gait.Displacements
	if r.last.Oscillation != nil {
		d = r.last.Oscillation.Displacements
	}
	return chart.OscillationPNG(f, d, chart.DefaultWidth, chart.DefaultHeight)
}
