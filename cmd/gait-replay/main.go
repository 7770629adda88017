// gait-replay: run a landmark recording through an analyzer without a camera.
// Prints one line per frame and can export charts, or push the recording to a
// running dashboard's /ws/landmarks endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-gait/internal/config"
	"github.com/teslashibe/go-gait/internal/log"
	"github.com/teslashibe/go-gait/pkg/debug"
	"github.com/teslashibe/go-gait/pkg/gait"
	"github.com/teslashibe/go-gait/pkg/ingest"
	"github.com/teslashibe/go-gait/pkg/pose"
	"github.com/teslashibe/go-gait/pkg/session"
	"github.com/teslashibe/go-gait/pkg/video"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	mode := flag.String("mode", "", "Analysis mode: oscillation, posture, stride")
	speed := flag.String("speed", "", "Treadmill speed in km/h")
	contact := flag.String("contact", "", "Contact policy: rising_edge or every_frame")
	pace := flag.Bool("pace", false, "Replay at the recorded rate")
	every := flag.Int("every", 1, "Print every Nth frame")
	quiet := flag.Bool("quiet", false, "Only print the final summary")
	htmlOut := flag.String("html", "", "Write the chart for the final result to this HTML file")
	pngOut := flag.String("png", "", "Write the oscillation plot to this PNG file")
	push := flag.String("push", "", "Push frames to a dashboard, e.g. ws://localhost:8080/ws/landmarks/replay")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	debugFrames := flag.Bool("debug-frames", false, "Enable per-frame traces")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: gait-replay [flags] recording.jsonl\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	log.Init(*logLevel)
	debug.Frames = *debugFrames

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *push != "" {
		if err := pushRecording(ctx, path, *push, *pace); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		return
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		if settings.Mode, err = gait.ParseMode(*mode); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	}
	if *contact != "" {
		if settings.Gait.ContactPolicy, err = gait.ParseContactPolicy(*contact); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	}
	if *speed != "" {
		settings.Speed = *speed
	}

	src, err := video.OpenReplaySource(path, *pace)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	rep := &reporter{out: os.Stdout, every: *every, quiet: *quiet}
	sess, err := session.New(session.Config{
		Mode:  settings.Mode,
		Gait:  settings.Gait,
		Speed: settings.Speed,
	}, nil, nil, rep)
	if err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("🎬 Replaying %s (%s)\n", path, settings.Mode.Title())
	start := time.Now()
	if err := sess.Run(ctx, src, path); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	rep.summary(time.Since(start))

	if *htmlOut != "" {
		if err := writeFile(*htmlOut, rep.writeHTML); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("📊 Chart: %s\n", *htmlOut)
	}
	if *pngOut != "" {
		if err := writeFile(*pngOut, rep.writePNG); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("📈 Plot: %s\n", *pngOut)
	}
}

// pushRecording streams a recording to a dashboard ingest endpoint.
func pushRecording(ctx context.Context, path, url string, pace bool) error {
	replay, err := pose.OpenReplay(path)
	if err != nil {
		return err
	}
	defer replay.Close()

	client, err := ingest.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("📡 Pushing %s to %s\n", path, url)

	sent := 0
	last := 0.0
	for ctx.Err() == nil {
		msg, err := replay.Next()
		if errors.Is(err, pose.ErrEndOfRecording) {
			break
		}
		if err != nil {
			return err
		}

		if pace && sent > 0 && msg.T > last {
			select {
			case <-time.After(time.Duration((msg.T - last) * float64(time.Second))):
			case <-ctx.Done():
				return nil
			}
		}
		last = msg.T

		if err := client.Send(msg.Frame(), msg.T, nil); err != nil {
			return fmt.Errorf("send frame %d: %w", sent+1, err)
		}
		sent++
		if sent%100 == 0 {
			fmt.Printf("\r📡 %d frames", sent)
		}
	}

	fmt.Printf("\r✅ Pushed %d frames\n", sent)
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
