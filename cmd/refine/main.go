// Command refine replays a scripted refinement session on a photo and its
// background-removed cut-out, and writes the refined cut-out as PNG.
//
// Usage:
//
//	refine -original photo.jpg -processed cutout.png -script strokes.yaml -output refined.png
//
// The script is YAML:
//
//	mode: comparison
//	steps:
//	  - tool: erase
//	    radius: 12
//	    points: [[40, 40], [120, 60]]
//	  - tool: restore
//	    points: [[300, 200]]
//	  - undo: 1
package main

import (
	"context"
	"errors"
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charactercut/refine"
	"github.com/charactercut/refine/config"
	"github.com/charactercut/refine/render"
)

// options holds the command-line flags.
type options struct {
	original, processed string
	configPath          string
	scriptPath          string
	output              string
	framePath           string
	frameWidth          int
	frameHeight         int
	verbose             bool
}

// parseFlags parses args into options using fs.
func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.original, "original", "", "original photo (PNG, JPEG, WEBP, BMP or TIFF)")
	fs.StringVar(&o.processed, "processed", "", "background-removed cut-out")
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&o.scriptPath, "script", "", "YAML stroke script to replay")
	fs.StringVar(&o.output, "output", "refined.png", "output PNG for the refined cut-out")
	fs.StringVar(&o.framePath, "frame", "", "optional PNG of the final rendered frame")
	fs.IntVar(&o.frameWidth, "frame-width", 1280, "frame width")
	fs.IntVar(&o.frameHeight, "frame-height", 800, "frame height")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.original == "" || o.processed == "" {
		return o, errors.New("-original and -processed are required")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Printf("refine: %v", err)
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	refine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := refine.NewSession(refine.WithConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer s.Close()

	origData, err := os.ReadFile(opts.original)
	if err != nil {
		log.Fatalf("Failed to read original: %v", err)
	}
	procData, err := os.ReadFile(opts.processed)
	if err != nil {
		log.Fatalf("Failed to read processed: %v", err)
	}
	if err := s.Load(ctx, origData, procData); err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}

	if opts.scriptPath != "" {
		sc, err := loadScript(opts.scriptPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := run(s, sc); err != nil {
			log.Fatalf("Script failed: %v", err)
		}
	}

	data, err := s.ExportPreview()
	if err != nil {
		log.Fatalf("Failed to export: %v", err)
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Refined cut-out saved to %s", opts.output)

	if opts.framePath != "" {
		if err := saveFrame(s, opts.framePath, opts.frameWidth, opts.frameHeight); err != nil {
			log.Fatalf("Failed to save frame: %v", err)
		}
		log.Printf("Frame saved to %s (%dx%d)", opts.framePath, opts.frameWidth, opts.frameHeight)
	}
}

func saveFrame(s *refine.Session, path string, w, h int) error {
	target := render.NewPixmapTarget(w, h)
	if err := s.Render(target); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, target.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
