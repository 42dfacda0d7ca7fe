package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esimov/ascii-cloud/config"
	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/input"
	cloud "github.com/esimov/ascii-cloud/label-cloud"
	field "github.com/esimov/ascii-cloud/particle-field"
	"github.com/esimov/ascii-cloud/stats"
	"github.com/esimov/ascii-cloud/surface"
	"github.com/esimov/ascii-cloud/terminal"
)

// Rows reserved at the bottom of the terminal for the live stats.
const statsRows = 2

func main() {
	mode := flag.String("mode", "", "render mode: terminal or serve (overrides ASCIICLOUD_MODE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = *mode
		if err := cfg.Validate(); err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		slog.Error("open log", "error", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeTerminal:
		err = runTerminal(ctx, cfg, logger)
	case config.ModeServe:
		err = runServe(ctx, cfg, logger)
	}
	if err != nil {
		slog.Error("run", "mode", cfg.Mode, "error", err)
		closeLog()
		if cfg.Mode == config.ModeTerminal {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// newLogger writes to LogFile in terminal mode, where stderr belongs to the
// screen, and to stderr otherwise.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if cfg.Mode == config.ModeTerminal {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.LogFile, err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// newSampler seeds the particle randomness. A zero seed picks one from the clock.
func newSampler(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// engines groups the animated components sharing one frame loop.
type engines struct {
	field *field.Field
	cloud *cloud.Cloud
	board *stats.Board
}

func newEngines(cfg *config.Config, fieldCanvas, cloudCanvas surface.Canvas) *engines {
	fc := field.DefaultConfig()
	fc.Count = cfg.Particles

	cc := cloud.DefaultConfig()
	if len(cfg.Labels) > 0 {
		cc.Labels = cfg.Labels
	}
	cc.Stable = cfg.StableRotation

	return &engines{
		field: field.New(fieldCanvas, fc, newSampler(cfg.Seed)),
		cloud: cloud.New(cloudCanvas, cc),
		board: stats.NewBoard(stats.DefaultStats),
	}
}

func (e *engines) mount(src input.Source, s frame.Scheduler) {
	e.field.Mount(src, s)
	e.cloud.Mount(src, s)
}

// reveal starts the cloud and the stat counters. Only the first call counts.
func (e *engines) reveal(s frame.Scheduler) {
	e.cloud.Reveal()
	e.board.Start(s)
}

func (e *engines) teardown() {
	e.board.Stop()
	e.cloud.Teardown()
	e.field.Teardown()
}

func runTerminal(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	scr := terminal.New(cfg.CellWidth, cfg.CellHeight, logger)
	fieldLayer := scr.AddLayer("field", terminal.FullScreen)
	cloudLayer := scr.AddLayer("cloud", scr.CenterPanel(statsRows))
	statsLayer := scr.AddLayer("stats", terminal.BottomRows(statsRows))

	loop := frame.NewLoop(cfg.FPS)
	hub := input.NewHub()

	eng := newEngines(cfg, fieldLayer, cloudLayer)
	eng.mount(hub, loop)
	defer eng.teardown()

	paint := frame.Scope(ctx, loop, eng.board.Paint(statsLayer))
	defer paint.Stop()

	// The terminal is visible as soon as it is drawn on.
	eng.reveal(loop)

	logger.Info("terminal mode", "fps", cfg.FPS, "particles", cfg.Particles)
	return scr.Run(ctx, loop, hub)
}
