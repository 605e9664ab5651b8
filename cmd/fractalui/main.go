package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ui "github.com/Yeicor/fractal-ui"
	"github.com/Yeicor/fractal-ui/internal/config"
	"github.com/hajimehoshi/ebiten/v2"
)

// DESKTOP: go run ./cmd/fractalui -watch scene-preset.json,master-preset.json
func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	width := flag.Int("width", 0, "Window width (default: 1280)")
	height := flag.Int("height", 0, "Window height (default: 720)")
	quality := flag.String("quality", "", "Quality tier, 20% to 2000% (default: 100%)")
	mode := flag.String("mode", "", "Render mode, 2d or 3d (default: 2d)")
	presetDir := flag.String("presets", "", "Directory for preset files and captures (default: .)")
	watch := flag.String("watch", "", "Comma-separated preset files to reload on change")
	logLevel := flag.String("log", "", "Log level: debug, info, warn or error (default: info)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	var watched []string
	if *watch != "" {
		watched = strings.Split(*watch, ",")
	}
	cfg.Resolve(config.Flags{
		Width:      *width,
		Height:     *height,
		Quality:    *quality,
		RenderMode: *mode,
		PresetDir:  *presetDir,
		Watch:      watched,
		LogLevel:   *logLevel,
	})

	ui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	// Rendering configuration boilerplate
	ebiten.SetRunnableOnUnfocused(true)

	err := ui.NewRenderer(
		ui.OptMWindowSize(cfg.Width, cfg.Height),
		ui.OptMTitle(cfg.Title),
		ui.OptMTPS(cfg.TPS),
		ui.OptMIterations(cfg.IterationsBase),
		ui.OptMQuality(cfg.Quality),
		ui.OptMRenderMode(cfg.RenderMode),
		ui.OptMPresetDir(cfg.PresetDir),
		ui.OptMCaptureDir(cfg.CaptureDir),
		ui.OptMWatchFiles(cfg.Watch),
	).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
