/*
objscale multiplies every vertex position of an OBJ file by a uniform factor.

	objscale [-factor f] [-report out.json] [-config objscale.toml] [-watch] <src> <dst>

The destination extension picks the writer: .obj (default), .mst, .gltf or .glb.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	objscale "github.com/flywave/go-objscale"
	"github.com/flywave/go-objscale/internal/config"
	"github.com/flywave/go-objscale/internal/core"
	"github.com/flywave/go-objscale/internal/watch"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "TOML file with defaults")
	factor := flag.Float64("factor", 0, "uniform scale factor for vertex positions")
	report := flag.String("report", "", "write a JSON or YAML report to this path")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	watchSrc := flag.Bool("watch", false, "rerun whenever the source changes")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <src> <dst>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	src, dst := flag.Arg(0), flag.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("reading config", "path", *configPath, "err", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "factor":
			cfg.Factor = *factor
		case "report":
			cfg.Report = *report
		case "log-level":
			cfg.LogLevel = *logLevel
		case "watch":
			cfg.Watch = *watchSrc
		}
	})

	if err := core.SetLevel(cfg.LogLevel); err != nil {
		core.LogFatal("bad log level", "level", cfg.LogLevel, "err", err)
	}
	if cfg.Factor == 0 {
		core.LogFatal("scale factor cannot be zero")
	}

	if err := run(src, dst, cfg); err != nil && !cfg.Watch {
		os.Exit(1)
	}
	if !cfg.Watch {
		return
	}

	if err := watchAndRun(src, dst, cfg); err != nil {
		core.LogFatal("watch", "err", err)
	}
}

func run(src, dst string, cfg config.Config) error {
	core.LogDebug("scaling", "src", src, "dst", dst, "factor", cfg.Factor)

	res, err := objscale.Scale(src, dst, cfg.Factor)
	if err != nil {
		core.LogError("scale failed", "err", err)
		return err
	}
	core.LogInfo("scaled", "dst", dst, "meshes", res.Meshes, "vertices", res.Vertices)

	if cfg.Report != "" {
		rep := objscale.NewReport(src, dst, cfg.Factor, res)
		if err := rep.WriteFile(cfg.Report); err != nil {
			core.LogError("writing report", "path", cfg.Report, "err", err)
			return err
		}
		core.LogInfo("report written", "path", cfg.Report, "id", rep.ID)
	}
	return nil
}

func watchAndRun(src, dst string, cfg config.Config) error {
	w, err := watch.New()
	if err != nil {
		return err
	}
	if err := w.Add(src); err != nil {
		w.Close()
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		core.LogInfo("stopping")
		w.Close()
	}()

	core.LogInfo("watching", "src", src)
	for {
		select {
		case _, ok := <-w.Changes:
			if !ok {
				return nil
			}
			_ = run(src, dst, cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			core.LogWarn("watch error", "err", err)
		}
	}
}
