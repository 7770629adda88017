// gait: live running-gait dashboard.
// Reads a camera, video file or landmark recording, runs the selected analyzer
// and serves metrics, charts and the annotated stream over HTTP.
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
	"github.com/teslashibe/go-gait/pkg/overlay"
	"github.com/teslashibe/go-gait/pkg/pose"
	"github.com/teslashibe/go-gait/pkg/pose/onnx"
	"github.com/teslashibe/go-gait/pkg/session"
	"github.com/teslashibe/go-gait/pkg/video/capture"
	"github.com/teslashibe/go-gait/pkg/web"
)

var version = "0.1.0"

func main() {
	settings, opts := parseFlags()
	log.Init(opts.logLevel)

	fmt.Println()
	fmt.Println("🏃 Gait v" + version)
	fmt.Printf("   Mode: %s | Contact: %s\n", settings.Mode.Title(), settings.Gait.ContactPolicy)
	fmt.Println()

	est, err := newEstimator(settings.Pose)
	if err != nil {
		fmt.Printf("❌ Pose estimator: %v\n", err)
		os.Exit(1)
	}
	defer est.Close()

	ing := ingest.NewHub(ingest.DefaultBuffer)
	if opts.noIngest {
		ing = nil
	}

	srv := web.NewServer(settings.Port, ing)
	sess, err := session.New(session.Config{
		Mode:       settings.Mode,
		Gait:       settings.Gait,
		Speed:      settings.Speed,
		MaxStrikes: session.DefaultConfig().MaxStrikes,
	}, est, overlay.New(settings.Capture.Quality), srv)
	if err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	srv.Bind(sess)
	srv.OpenSource = sourceOpener(settings.Capture)
	srv.OnListCameras = func() interface{} { return capture.Probe() }
	srv.StartAsync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if settings.Source != "" {
		src, err := srv.OpenSource(settings.Source)
		if err != nil {
			fmt.Printf("⚠️  Could not open %s: %v (start one from the dashboard)\n", settings.Source, err)
		} else if err := sess.Start(ctx, src, settings.Source); err != nil {
			fmt.Printf("⚠️  Could not start: %v\n", err)
		} else {
			fmt.Printf("📹 Source: %s\n", settings.Source)
		}
	}

	<-ctx.Done()
	fmt.Println("\n👋 Shutting down...")

	if err := sess.Stop(); err != nil && !errors.Is(err, session.ErrNotRunning) {
		log.Warn("stop failed", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", "error", err)
	}

	fmt.Println("✅ Goodbye!")
}

type cliOptions struct {
	logLevel string
	noIngest bool
}

// parseFlags loads the config file and environment, then applies any flags that were set.
func parseFlags() (config.Settings, cliOptions) {
	var opts cliOptions

	configPath := flag.String("config", "", "YAML config file")
	port := flag.String("port", "", "HTTP port (overrides GAIT_PORT)")
	source := flag.String("source", "", "Camera index, video file or .jsonl landmark recording")
	mode := flag.String("mode", "", "Analysis mode: oscillation, posture, stride")
	speed := flag.String("speed", "", "Treadmill speed in km/h")
	poseURL := flag.String("pose-url", "", "Pose sidecar endpoint")
	poseModel := flag.String("pose-model", "", "ONNX pose model (runs in-process instead of the sidecar)")
	preset := flag.String("preset", "", "Capture preset: default, 720p, 1080p, slowmo")
	contact := flag.String("contact", "", "Contact policy: rising_edge or every_frame")
	noSource := flag.Bool("no-source", false, "Start idle and wait for /api/start")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugFrames := flag.Bool("debug-frames", false, "Enable per-frame traces")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.noIngest, "no-ingest", false, "Disable the /ws/landmarks ingest endpoint")
	flag.Parse()

	debug.Enabled, debug.Frames = *debugFlag, *debugFrames
	if *debugFlag && opts.logLevel == "" {
		opts.logLevel = "debug"
	}

	s, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	if *port != "" {
		s.Port = *port
	}
	if *source != "" {
		s.Source = *source
	}
	if *noSource {
		s.Source = ""
	}
	if *speed != "" {
		s.Speed = *speed
	}
	if *poseURL != "" {
		s.Pose.URL = *poseURL
	}
	if *poseModel != "" {
		s.Pose.Model = *poseModel
	}
	if *mode != "" {
		m, err := gait.ParseMode(*mode)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		s.Mode = m
	}
	if *contact != "" {
		p, err := gait.ParseContactPolicy(*contact)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		s.Gait.ContactPolicy = p
	}
	if *preset != "" {
		p := capture.GetPreset(*preset)
		if p == nil {
			fmt.Printf("❌ unknown preset %q\n", *preset)
			os.Exit(1)
		}
		s.Capture.Width, s.Capture.Height, s.Capture.FPS = p.Width, p.Height, p.FPS
	}

	if err := s.Validate(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	debug.Log("⚙️  settings: %+v\n", s)
	return s, opts
}

// newEstimator prefers an in-process ONNX model and falls back to the HTTP sidecar.
func newEstimator(cfg config.Pose) (pose.Estimator, error) {
	if cfg.Model != "" {
		oc := onnx.DefaultConfig()
		oc.ModelPath = cfg.Model
		est, err := onnx.New(oc)
		if err != nil {
			return nil, err
		}
		fmt.Printf("🧠 Pose model: %s\n", cfg.Model)
		return est, nil
	}

	est, err := pose.NewHTTPEstimator(pose.HTTPConfig{URL: cfg.URL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	fmt.Printf("🧠 Pose sidecar: %s\n", cfg.URL)
	return est, nil
}
