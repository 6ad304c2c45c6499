package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/audio"
	"github.com/plus3/vrscene/config"
	"github.com/plus3/vrscene/debugsrv"
	"github.com/plus3/vrscene/debugui"
	"github.com/plus3/vrscene/interact"
	"github.com/plus3/vrscene/logging"
	"github.com/plus3/vrscene/render"
	"github.com/plus3/vrscene/session"
	"github.com/plus3/vrscene/viewport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type flags struct {
	config    string
	headless  bool
	ticks     int
	debugAddr string
	dev       bool
	noAudio   bool
	imgui     bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "Path to a TOML config file.")
	flag.BoolVar(&f.headless, "headless", false, "Run a scripted session without a window and print a report.")
	flag.IntVar(&f.ticks, "ticks", 600, "Number of ticks to run in headless mode.")
	flag.StringVar(&f.debugAddr, "debug-addr", "", "Serve /metrics, /scene and /stats on this address.")
	flag.BoolVar(&f.dev, "dev", false, "Human readable colored logs.")
	flag.BoolVar(&f.noAudio, "no-audio", false, "Disable audio output.")
	flag.BoolVar(&f.imgui, "imgui", false, "Show the ImGui inspector.")
	flag.Parse()

	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	applyFlags(&cfg, f)

	logger, err := logging.New(logging.Options{Dev: cfg.Log.Dev, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetRoot(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = logging.Context(ctx, logger)

	if f.headless {
		err = runHeadless(ctx, cfg, f.ticks)
	} else {
		err = runWindowed(ctx, cfg)
	}
	if err != nil {
		logger.Error("vrscene failed", zap.Error(err))
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, f flags) {
	if f.debugAddr != "" {
		cfg.Debug.Addr = f.debugAddr
	}
	if f.dev {
		cfg.Log.Dev = true
	}
	if f.noAudio || f.headless {
		cfg.Audio.Enabled = false
	}
	if f.imgui {
		cfg.Debug.Imgui = true
	}
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return reg
}

// serveDebug starts the debug HTTP server when an address is configured.
func serveDebug(ctx context.Context, cfg config.Config, sess *session.Session, gatherer prometheus.Gatherer) {
	if cfg.Debug.Addr == "" {
		return
	}
	publisher := debugsrv.NewPublisher(sess.ID.String(), sess.Driver, 10)
	sess.AddSystem("publisher", publisher)
	go func() {
		if err := debugsrv.New(publisher, gatherer).ListenAndServe(ctx, cfg.Debug.Addr); err != nil {
			logging.From(ctx).Error("Debug server failed", zap.Error(err))
		}
	}()
}

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

func runWindowed(ctx context.Context, cfg config.Config) error {
	log := logging.From(ctx)
	reg := newRegistry()

	var (
		output *audio.Output
		loader *audio.Loader
	)
	if cfg.Audio.Enabled {
		rate := beep.SampleRate(cfg.Audio.SampleRate)
		if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
			return fmt.Errorf("initializing speaker: %w", err)
		}
		output = audio.NewOutput(speakerLock{})
		speaker.Play(output.Streamer())

		metrics, err := audio.NewMetrics(reg)
		if err != nil {
			return err
		}
		loader = audio.NewLoader(rate, audio.WithLoaderLogger(log.Named("audio")), audio.WithLoaderMetrics(metrics))
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)
	if cfg.Animation.SyncWithDisplay {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	input := &debugui.CaptureFilter{PointerInput: interact.EbitenInput{}}
	tracker := interact.NewPointerTracker(input, nil)

	var (
		sess    *session.Session
		hostOps []render.HostOption
		overlay *debugui.Overlay
	)
	hostOps = append(hostOps, render.OnResize(func(w, h int) { sess.Resize(w, h) }))
	if cfg.Debug.Imgui {
		overlay = debugui.NewOverlay(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		hostOps = append(hostOps, render.WithOverlay(overlay))
	}
	host := render.NewHost(hostOps...)

	sess, err := session.New(ctx, session.Options{
		Config:     cfg,
		Tracker:    tracker,
		Loader:     loader,
		Output:     output,
		Logger:     log,
		Registerer: reg,
		Surfaces:   []viewport.Surface{host, tracker},
	})
	if err != nil {
		return err
	}
	tracker.SetCamera(sess.Camera)

	if overlay != nil {
		b := sess.Buttons
		inspector := debugui.NewInspector(sess.Driver, 120, b.Color, b.Stripes, b.Invert, b.Audio)
		sess.AddSystem("inspector", inspector)
		input.UI = inspector
	}
	serveDebug(ctx, cfg, sess, reg)

	go func() {
		<-ctx.Done()
		host.Terminate()
	}()

	if err := sess.Start(host); err != nil {
		return err
	}
	log.Info("Running", zap.String("session", sess.ID.String()))
	if err := ebiten.RunGame(host); err != nil {
		return err
	}
	return sess.Stop()
}

func runHeadless(ctx context.Context, cfg config.Config, ticks int) error {
	log := logging.From(ctx)
	reg := newRegistry()

	tracker := interact.NewScriptedTracker()
	rec := render.NewRecorder(cfg.Window.Width, cfg.Window.Height)
	sess, err := session.New(ctx, session.Options{
		Config:     cfg,
		Tracker:    tracker,
		Clock:      anim.NewManualClock(1.0 / 60.0),
		Logger:     log,
		Registerer: reg,
		Surfaces:   []viewport.Surface{rec},
	})
	if err != nil {
		return err
	}
	session.ScriptDemo(sess, tracker)
	serveDebug(ctx, cfg, sess, reg)

	log.Info("Running headless", zap.Int("ticks", ticks))
	if err := sess.Start(rec); err != nil {
		return err
	}
	start := time.Now()
	delivered := rec.Run(ticks)
	wall := time.Since(start)
	if err := sess.Stop(); err != nil {
		return err
	}

	report := NewReport(sess, rec, delivered, wall)
	fmt.Println("\n\n--- Scene Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}
