package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/glide/internal/config"
	"github.com/Versifine/glide/internal/cue"
	"github.com/Versifine/glide/internal/debug"
	"github.com/Versifine/glide/internal/hud"
	"github.com/Versifine/glide/internal/logger"
	"github.com/Versifine/glide/internal/sim"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
)

const defaultConfigPath = "configs/config.yaml"

func usage() {
	fmt.Fprintf(os.Stderr, `glide - fixed-step skating movement sandbox

Usage:
  glide run <script.yaml>    play a script headless and print a report
  glide hud <script.yaml>    play a script in real time with the speed HUD
  glide console              drive the skater from the keyboard
  glide check                validate the configuration

Config is read from $GLIDE_CONFIG (default %s).
`, defaultConfigPath)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	path := os.Getenv("GLIDE_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("Failed to load config", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "run":
		err = runScript(ctx, cfg, scriptArg())
	case "hud":
		err = runHUD(ctx, cfg, scriptArg())
	case "console":
		err = runConsole(ctx, cfg)
	case "check":
		err = check(cfg, path)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func scriptArg() string {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}
	return os.Args[2]
}

func initLogger(cfg *config.Config, output io.Writer) io.Closer {
	closer, err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Output: output,
	})
	if err != nil {
		slog.Error("Failed to init logger", "error", err)
		os.Exit(1)
	}
	return closer
}

func runScript(ctx context.Context, cfg *config.Config, scriptPath string) error {
	defer initLogger(cfg, os.Stdout).Close()

	script, err := sim.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	session, err := sim.NewSession(cfg, logger.L())
	if err != nil {
		return err
	}
	defer session.Close()

	rep, err := sim.NewRunner(session).Play(ctx, script, nil)
	if err != nil {
		return err
	}
	logReport(rep)
	return nil
}

func runHUD(ctx context.Context, cfg *config.Config, scriptPath string) error {
	// The terminal belongs to the HUD; logs go to the configured file or nowhere.
	defer initLogger(cfg, io.Discard).Close()

	script, err := sim.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	session, err := sim.NewSession(cfg, logger.L())
	if err != nil {
		return err
	}
	defer session.Close()

	if cfg.Audio.Enabled {
		board := cue.NewBoard(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Volume)
		defer board.Attach(session.Bus)()
		if err := board.Start(); err != nil {
			slog.Warn("Audio unavailable", "error", err)
		} else {
			defer board.Stop()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if key, ok := ev.(*tcell.EventKey); ok {
				if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q' {
					cancel()
					return
				}
			}
		}
	}()

	view := hud.NewView(screen)
	interval := cfg.Simulation.TickInterval()
	dt := cfg.Simulation.TickSeconds()
	rep, err := sim.NewRunner(session).PlayRealtime(ctx, script, interval, func(s sim.Sample) {
		if !cfg.HUD.Enabled {
			return
		}
		view.Draw(hud.Frame{
			Tick:        s.Tick,
			Speed:       s.TravelSpeed,
			State:       s.State.String(),
			WallRunning: s.WallRunning,
			WallSide:    s.WallSide,
			Grounded:    s.Grounded,
			Position:    s.Position,
		}, dt)
	})
	screen.Fini()
	logReport(rep)
	fmt.Printf("%s: %d ticks, max speed %s, jumps %d, dashes %d, wall-runs %d\n",
		rep.Script, rep.Ticks, hud.FormatSpeed(rep.MaxTravelSpeed), rep.Jumps, rep.Dashes, rep.WallRuns)
	return err
}

func runConsole(ctx context.Context, cfg *config.Config) error {
	defer initLogger(cfg, os.Stdout).Close()

	session, err := sim.NewSession(cfg, logger.L())
	if err != nil {
		return err
	}
	defer session.Close()

	console := debug.NewConsole(sim.NewRunner(session), session.Input, session.Body)
	console.SetTickInterval(cfg.Simulation.TickInterval())
	return console.Start(ctx)
}

func check(cfg *config.Config, path string) error {
	defer initLogger(cfg, os.Stdout).Close()

	if err := cfg.Validate(); err != nil {
		return err
	}
	course, err := cfg.Course.Build()
	if err != nil {
		return err
	}
	slog.Info("Config OK",
		"path", path,
		"cells", course.Len(),
		"tick_rate", cfg.Simulation.TickRate,
		"max_speed", cfg.Movement.MaxSpeed,
	)
	return nil
}

func logReport(rep sim.Report) {
	slog.Info("Script finished",
		"script", rep.Script,
		"ticks", rep.Ticks,
		"seconds", rep.Duration,
		"max_travel_speed", rep.MaxTravelSpeed,
		"jumps", rep.Jumps,
		"dashes", rep.Dashes,
		"wall_runs", rep.WallRuns,
		"dropped_inputs", rep.DroppedInputs,
		"final_position", rep.Final.Position,
		"final_state", rep.Final.State.String(),
	)
}
