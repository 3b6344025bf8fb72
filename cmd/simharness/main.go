// Command simharness runs the physics2d simulation core headlessly: it
// builds a world from a scene (generated or Lua-scripted), steps it at a
// fixed rate, and exposes read-only HTTP/WS diagnostics. There is no
// renderer and no input handling — everything observable about a running
// simulation goes through the diagnostics API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	quadphys "github.com/0x5844/quadphys"
	"github.com/0x5844/quadphys/internal/harness"
)

type cliFlags struct {
	configPath string
	sceneType  string
	scriptPath string
	bodyCount  int
	dt         float64
	httpAddr   string
	profileCPU string
	quiet      bool
}

func parseFlags() *cliFlags {
	f := &cliFlags{}

	flag.StringVar(&f.configPath, "config", "", "path to a TOML config file (optional, defaults are used otherwise)")
	flag.StringVar(&f.sceneType, "scene-type", "default", "scene generator: default, pyramid, rain, container, pendulum, mixed")
	flag.StringVar(&f.scriptPath, "scene-script", "", "Lua scene script to run instead of a built-in generator")
	flag.IntVar(&f.bodyCount, "bodies", 200, "number of dynamic bodies for generated scenes")
	flag.Float64Var(&f.dt, "timestep", 1.0/60.0, "physics time step in seconds")
	flag.StringVar(&f.httpAddr, "http-addr", ":8080", "diagnostics HTTP/WS bind address")
	flag.StringVar(&f.profileCPU, "profile-cpu", "", "write a CPU profile to this path")
	flag.BoolVar(&f.quiet, "quiet", false, "suppress startup/shutdown logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "quadphys simharness - headless 2D rigid-body simulation\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -bodies 500 -scene-type pyramid\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config sim.toml -scene-script scenes/rain.lua\n", os.Args[0])
	}

	flag.Parse()
	return f
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := parseFlags()

	var fileCfg *harness.FileConfig
	var err error
	if flags.configPath != "" {
		fileCfg, err = harness.LoadConfig(flags.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		fileCfg = harness.DefaultFileConfig()
	}

	log, err := harness.NewLogger(fileCfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	sessionID := uuid.New()
	log = log.With(zap.String("session", sessionID.String()))

	if flags.profileCPU != "" {
		f, err := os.Create(flags.profileCPU)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	physCfg := fileCfg.PhysicsConfig()

	reg := quadphys.NewRegistry()
	meshes, err := harness.RegisterStandardMeshes(reg, float32(physCfg.WorldWidth), float32(physCfg.WorldHeight))
	if err != nil {
		return fmt.Errorf("register meshes: %w", err)
	}

	world := quadphys.NewWorldWithConfig(reg, physCfg)

	explicit := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { explicit[fl.Name] = true })

	var script *harness.ScriptEngine
	sceneType := flags.sceneType
	if !explicit["scene-type"] && fileCfg.Scene.Type != "" {
		sceneType = fileCfg.Scene.Type
	}
	scriptPath := flags.scriptPath
	if scriptPath == "" {
		scriptPath = fileCfg.Scene.ScriptPath
	}
	bodyCount := flags.bodyCount
	if !explicit["bodies"] && fileCfg.Scene.BodyCount > 0 {
		bodyCount = fileCfg.Scene.BodyCount
	}

	if scriptPath != "" {
		script = harness.NewScriptEngine(world, meshes, log)
		if err := script.RunFile(scriptPath); err != nil {
			return fmt.Errorf("run scene script: %w", err)
		}
	} else {
		if err := harness.GenerateScene(world, meshes, sceneType, bodyCount); err != nil {
			return fmt.Errorf("generate scene: %w", err)
		}
	}

	threadCount := physCfg.ThreadCount
	if threadCount < 1 {
		threadCount = runtime.NumCPU()
	}
	engine := quadphys.NewEngine(world, reg, threadCount)
	defer engine.Close()

	stats := harness.NewStatsTracker()
	hub := harness.NewHub(log)
	server := harness.NewServer(world, sessionID, stats, hub, log)

	runner := harness.NewRunner(world, engine, reg, float32(flags.dt), physCfg.Gravity, stats, hub, script, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runner.Run(gctx)
	})

	httpAddr := flags.httpAddr
	if !explicit["http-addr"] && fileCfg.Server.HTTPAddr != "" {
		httpAddr = fileCfg.Server.HTTPAddr
	}
	g.Go(func() error {
		if err := server.Run(gctx, httpAddr); err != nil {
			log.Error("diagnostics server exited", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		select {
		case sig := <-sigChan:
			if !flags.quiet {
				log.Info("shutting down", zap.String("signal", sig.String()))
			}
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if !flags.quiet {
		log.Info("simulation started",
			zap.Int("bodies", world.Allocated()),
			zap.Int("workers", threadCount),
			zap.String("scene", sceneType),
		)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if !flags.quiet {
		log.Info("simulation stopped", zap.Int("steps", stats.Step))
	}
	return nil
}
