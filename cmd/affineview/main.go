// Command affineview shows an animated scene in a desktop window.
//
// The canvas tracks the window: every frame the drawable is resized to the
// window size times the monitor's device scale factor and the scene is
// recomposed for it.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/render"
	"github.com/gogpu/affine/scene"
)

func main() {
	var (
		name   = flag.String("scene", scene.LetterFScene, "scene to show")
		config = flag.String("config", "", "YAML scene file")
		width  = flag.Int("width", 800, "window width")
		height = flag.Int("height", 600, "window height")
		debug  = flag.Bool("debug", false, "log per-frame diagnostics")
	)
	flag.Parse()

	if *debug {
		affine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	reg, err := scene.LoadRegistry(*config)
	if err != nil {
		log.Fatalf("Failed to load scenes: %v", err)
	}
	s, err := reg.Get(*name)
	if err != nil {
		log.Fatalf("Failed to find scene: %v", err)
	}

	v, err := newViewer(s, *width, *height)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer v.backend.Destroy()

	ebiten.SetWindowTitle("affine: " + s.Name())
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatalf("Viewer failed: %v", err)
	}
}

type viewer struct {
	backend *render.Software
	runner  *scene.Runner
	start   time.Time
	canvas  *ebiten.Image

	// drawable is the backing size in device pixels.
	drawable [2]int
}

func newViewer(s scene.Scene, w, h int) (*viewer, error) {
	b := render.NewSoftware(w, h, render.WithLogger(affine.Logger()))
	r := scene.NewRunner(b, s)
	if err := r.Init(); err != nil {
		b.Destroy()
		return nil, err
	}
	return &viewer{backend: b, runner: r, start: time.Now(), drawable: [2]int{w, h}}, nil
}

func (v *viewer) Update() error {
	_, err := v.runner.Step(scene.Frame{
		Elapsed: time.Since(v.start),
		Width:   v.drawable[0],
		Height:  v.drawable[1],
	})
	return err
}

func (v *viewer) Draw(screen *ebiten.Image) {
	img := v.backend.Image()
	b := img.Bounds()
	if v.canvas == nil || v.canvas.Bounds().Dx() != b.Dx() || v.canvas.Bounds().Dy() != b.Dy() {
		if v.canvas != nil {
			v.canvas.Deallocate()
		}
		v.canvas = ebiten.NewImage(b.Dx(), b.Dy())
	}
	v.canvas.WritePixels(img.Pix)
	screen.DrawImage(v.canvas, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.drawable[0], v.drawable[1] = render.DrawableSize(
		float64(outsideWidth), float64(outsideHeight), ebiten.Monitor().DeviceScaleFactor())
	return v.drawable[0], v.drawable[1]
}
