// gait-watch: tail a dashboard's /ws/metrics feed in the terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-gait/pkg/session"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "Dashboard host:port")
	raw := flag.Bool("raw", false, "Print raw JSON snapshots")
	retry := flag.Duration("retry", 2*time.Second, "Reconnect delay, 0 to exit on disconnect")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws/metrics"}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for {
		err := watch(ctx, u.String(), *raw)
		if ctx.Err() != nil {
			fmt.Println("\n👋 Goodbye!")
			return
		}
		fmt.Printf("⚠️  %v\n", err)
		if *retry <= 0 {
			os.Exit(1)
		}
		select {
		case <-time.After(*retry):
		case <-ctx.Done():
			return
		}
	}
}

// watch prints snapshots until the connection drops or ctx is cancelled.
func watch(ctx context.Context, addr string, raw bool) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	defer conn.Close()

	fmt.Printf("📡 Connected to %s\n", addr)

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	var lastRun string
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if raw {
			fmt.Println(string(data))
			continue
		}

		var snap session.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			fmt.Printf("⚠️  bad snapshot: %v\n", err)
			continue
		}
		if snap.RunID != lastRun {
			lastRun = snap.RunID
			if snap.RunID != "" {
				fmt.Printf("🏃 Run %s: %s (%s)\n", snap.RunID, snap.Source, snap.Mode.Title())
			}
		}
		fmt.Println(format(snap))
	}
}

// format renders a snapshot as one status line.
func format(snap session.Snapshot) string {
	state := "⏸️ "
	if snap.Running {
		state = "▶️ "
	}
	line := fmt.Sprintf("%s %-11s frame=%-6d", state, snap.Mode, snap.Seq)

	switch {
	case !snap.Detected && snap.Running:
		line += " ⏳ waiting for detection"
	case snap.Oscillation != nil && snap.Oscillation.Calibrating:
		line += fmt.Sprintf(" 🎯 calibrating %d/%d", snap.Oscillation.CalibrationFrame, snap.Oscillation.CalibrationFrames)
	case snap.Oscillation != nil:
		l := snap.Oscillation.Latest
		line += fmt.Sprintf(" head=(%+.1f, %+.1f) shoulders=(%+.1f, %+.1f) hips=(%+.1f, %+.1f)", l[0], l[1], l[2], l[3], l[4], l[5])
	case snap.Posture != nil:
		a := snap.Posture.Angles
		line += fmt.Sprintf(" head=%.1f° shoulder=%.1f° hip=%.1f° knee=%.1f°", a.Head, a.Shoulder, a.Hip, a.Knee)
	case snap.Stride != nil:
		line += fmt.Sprintf(" cadence=%.1f spm stride=%.1f cm speed=%q", snap.Stride.Cadence, snap.Stride.StrideLength, snap.Speed)
	}
	if snap.Error != "" {
		line += " ⚠️  " + snap.Error
	}
	return line
}
