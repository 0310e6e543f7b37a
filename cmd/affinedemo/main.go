// Command affinedemo renders one frame of a scene to a PNG file.
//
// Usage:
//
//	affinedemo -scene letter-f -width 800 -height 600 -output f.png
//	affinedemo -config scenes.yaml -scene spinner -time 1.5s
//	affinedemo -check-shaders
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/render"
	"github.com/gogpu/affine/scene"
)

func main() {
	var (
		name    = flag.String("scene", scene.TriangleScene, "scene to render")
		config  = flag.String("config", "", "YAML scene file")
		width   = flag.Float64("width", 800, "canvas width in CSS pixels")
		height  = flag.Float64("height", 600, "canvas height in CSS pixels")
		dpr     = flag.Float64("dpr", 1, "device pixel ratio")
		elapsed = flag.Duration("time", 0, "elapsed animation time")
		output  = flag.String("output", "frame.png", "output file")
		backend = flag.String("backend", "software", "backend: software or gpu-noop")
		debug   = flag.Bool("debug", false, "log per-frame diagnostics")
		check   = flag.Bool("check-shaders", false, "compile the built-in shaders to SPIR-V and exit")
		list    = flag.Bool("list", false, "list scenes and exit")
	)
	flag.Parse()

	if *debug {
		affine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if *check {
		if err := checkShaders(); err != nil {
			log.Fatalf("Shader check failed: %v", err)
		}
		return
	}

	reg, err := scene.LoadRegistry(*config)
	if err != nil {
		log.Fatalf("Failed to load scenes: %v", err)
	}
	if *list {
		for _, n := range reg.Names() {
			fmt.Println(n)
		}
		return
	}
	s, err := reg.Get(*name)
	if err != nil {
		log.Fatalf("Failed to find scene: %v", err)
	}

	w, h := render.DrawableSize(*width, *height, *dpr)
	b, img, err := newBackend(*backend, w, h)
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}
	defer b.Destroy()

	runner := scene.NewRunner(b, s)
	if err := runner.Init(); err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	c, err := runner.Step(scene.Frame{Elapsed: *elapsed, Width: w, Height: h})
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if *debug {
		log.Printf("Composed %s", c)
	}

	if err := render.NewPixmapTargetFromImage(img()).SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Frame saved to %s (%dx%d, t=%s)\n", *output, w, h, elapsed.Round(time.Millisecond))
}

// newBackend returns the backend and a function reading its frame back.
func newBackend(kind string, w, h int) (render.Backend, func() *image.RGBA, error) {
	switch kind {
	case "software":
		sw := render.NewSoftware(w, h, render.WithLogger(affine.Logger()))
		return sw, sw.Image, nil
	case "gpu-noop":
		return newNoopBackend(w, h)
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", kind)
	}
}

func checkShaders() error {
	for _, sh := range []struct {
		name, source string
	}{
		{"2d", render.Shader2D},
		{"3d", render.Shader3D},
	} {
		words, err := render.CompileSPIRV(sh.source)
		if err != nil {
			return fmt.Errorf("%s: %w", sh.name, err)
		}
		log.Printf("%s shader: %d SPIR-V words\n", sh.name, len(words))
	}
	return nil
}
