// Command tilemap replays a lidar scan log over a tile grid.
//
// The log is loaded and every frame built before anything else happens; a
// malformed or unreadable log stops the command before any output.
//
// Usage:
//
//	tilemap -log run.log [-summary] [-plot map.png] [-serve]
//
// With none of -summary, -plot or -serve the summary is printed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/tilemap/internal/config"
	"github.com/banshee-data/tilemap/internal/fsutil"
	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/monitor"
	"github.com/banshee-data/tilemap/internal/replay"
	"github.com/banshee-data/tilemap/internal/security"
	"github.com/banshee-data/tilemap/internal/version"
)

var (
	logPath     = flag.String("log", "", "Path to the scan log (overrides log_path in -config)")
	configPath  = flag.String("config", "", "Path to a .json or .yaml replay config")
	listen      = flag.String("listen", ":8082", "Listen address for -serve")
	originX     = flag.Int("origin-x", grid.DefaultOriginX, "Tile column of the logged origin")
	originY     = flag.Int("origin-y", grid.DefaultOriginY, "Tile row of the logged origin")
	tileSize    = flag.Float64("tile-size", grid.DefaultTileSizeCm, "Tile edge in centimeters")
	fov         = flag.Float64("fov", grid.DefaultFieldOfViewDeg, "Lidar field of view in degrees")
	workers     = flag.Int("workers", 1, "Frames built concurrently")
	plotPath    = flag.String("plot", "", "Write the final tile map to this PNG file")
	showSummary = flag.Bool("summary", false, "Print the dataset summary as JSON")
	serve       = flag.Bool("serve", false, "Serve the replay over HTTP until interrupted")
	showVersion = flag.Bool("version", false, "Print version and exit")
	debug       = flag.Bool("debug", false, "Log per-frame diagnostics to stderr")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *debug {
		grid.SetDebugLogger(os.Stderr)
	}

	cfg, err := resolveConfig(*configPath, explicitFlags())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GetLogPath() == "" {
		log.Fatal("Error: -log flag (or log_path in -config) is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, actions{summary: *showSummary, plot: *plotPath, serve: *serve}, os.Stdout); err != nil {
		log.Fatalf("tilemap: %v", err)
	}
}

// explicitFlags returns the names of the flags set on the command line.
func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// resolveConfig loads path (when given) and applies the flags in set on
// top of it. Flags win over the file; the file wins over defaults.
func resolveConfig(path string, set map[string]bool) (*config.ReplayConfig, error) {
	cfg := config.EmptyReplayConfig()
	if path != "" {
		loaded, err := config.LoadReplayConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if set["log"] {
		cfg.LogPath = logPath
	}
	if set["listen"] {
		cfg.Listen = listen
	}
	if set["origin-x"] {
		cfg.OriginX = originX
	}
	if set["origin-y"] {
		cfg.OriginY = originY
	}
	if set["tile-size"] {
		cfg.TileSizeCm = tileSize
	}
	if set["fov"] {
		cfg.FieldOfViewDeg = fov
	}
	if set["workers"] {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type actions struct {
	summary bool
	plot    string
	serve   bool
}

// run loads the dataset and performs the requested actions in order:
// summary, plot, serve.
func run(ctx context.Context, cfg *config.ReplayConfig, act actions, stdout io.Writer) error {
	if act.plot != "" {
		if err := security.ValidateOutputPath(act.plot, ".png"); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}

	ds, err := replay.Load(ctx, fsutil.OSFileSystem{}, cfg.GetLogPath(), cfg.ToGridParams())
	if err != nil {
		return err
	}

	if act.summary || (act.plot == "" && !act.serve) {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds.Summary()); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if act.plot != "" {
		if ds.Len() == 0 {
			return fmt.Errorf("plot: %w", replay.ErrNoFrames)
		}
		plotter := monitor.NewMapPlotter(ds.Sequence(), cfg.MapSize())
		if err := plotter.SavePNG(fsutil.OSFileSystem{}, act.plot, ds.Len()-1); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		log.Printf("Wrote tile map to %s", act.plot)
	}

	if act.serve {
		ws, err := monitor.NewWebServer(monitor.WebServerConfig{
			Address: cfg.GetListen(),
			Dataset: ds,
			MapSize: cfg.MapSize(),
			FPS:     cfg.GetFPS(),
		})
		if err != nil {
			return err
		}
		return ws.Start(ctx)
	}
	return nil
}
