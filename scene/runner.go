package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/render"
)

// ErrNotInitialized is returned by Step before Init succeeds.
var ErrNotInitialized = errors.New("scene: runner not initialized")

// Clock produces the next frame for Run.
type Clock func() Frame

// WallClock returns a Clock measuring elapsed wall time from the first
// call, at a fixed drawable size.
func WallClock(width, height int) Clock {
	var start time.Time
	return func() Frame {
		now := time.Now()
		if start.IsZero() {
			start = now
		}
		return Frame{Elapsed: now.Sub(start), Width: width, Height: height}
	}
}

// Runner drives one scene on one backend. Like the backend it is not safe
// for concurrent use.
type Runner struct {
	backend render.Backend
	scene   Scene
	log     *slog.Logger
	program render.ProgramID
	ready   bool
	frames  uint64
}

// NewRunner creates a runner for s on b.
func NewRunner(b render.Backend, s Scene) *Runner {
	return &Runner{backend: b, scene: s, log: affine.Logger()}
}

// Scene returns the scene being run.
func (r *Runner) Scene() Scene { return r.scene }

// Frames returns the number of frames stepped so far.
func (r *Runner) Frames() uint64 { return r.frames }

// Init compiles and links the scene's shaders.
func (r *Runner) Init() error {
	vsSrc, fsSrc := r.scene.Shaders()
	vs, err := r.backend.CompileShader(render.StageVertex, vsSrc)
	if err != nil {
		return fmt.Errorf("scene %q: vertex shader: %w", r.scene.Name(), err)
	}
	fs, err := r.backend.CompileShader(render.StageFragment, fsSrc)
	if err != nil {
		return fmt.Errorf("scene %q: fragment shader: %w", r.scene.Name(), err)
	}
	prog, err := r.backend.LinkProgram(vs, fs)
	if err != nil {
		return fmt.Errorf("scene %q: link: %w", r.scene.Name(), err)
	}
	r.program = prog
	r.ready = true
	r.log.Info("scene: initialized", "scene", r.scene.Name())
	return nil
}

// Step renders one frame. A frame with a non-positive size uses the
// backend's current size; otherwise the backend is resized to match
// before the projection is composed.
func (r *Runner) Step(f Frame) (Composed, error) {
	if !r.ready {
		return Composed{}, ErrNotInitialized
	}
	w, h := r.backend.Size()
	if f.Width <= 0 || f.Height <= 0 {
		f.Width, f.Height = w, h
	} else if f.Width != w || f.Height != h {
		if err := r.backend.Resize(f.Width, f.Height); err != nil {
			return Composed{}, fmt.Errorf("scene %q: %w", r.scene.Name(), err)
		}
	}

	r.backend.Clear(clearColor(r.scene))
	c := r.scene.Compose(f)
	if !c.IsFinite() {
		r.log.Warn("scene: non-finite composed matrix", "scene", r.scene.Name(),
			"elapsed", f.Elapsed, "width", f.Width, "height", f.Height)
	}
	r.log.Debug("scene: frame", "scene", r.scene.Name(), "frame", r.frames, "matrix", c)

	if err := c.Upload(r.backend, r.program, r.scene.Uniform()); err != nil {
		return c, fmt.Errorf("scene %q: upload: %w", r.scene.Name(), err)
	}
	if err := r.backend.Draw(r.program, r.scene.Mesh()); err != nil {
		return c, fmt.Errorf("scene %q: draw: %w", r.scene.Name(), err)
	}
	if err := r.backend.Flush(); err != nil {
		return c, fmt.Errorf("scene %q: flush: %w", r.scene.Name(), err)
	}
	r.frames++
	return c, nil
}

// Run steps a frame from clock every interval until ctx is done or a step
// fails. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context, interval time.Duration, clock Clock) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.Step(clock()); err != nil {
				return err
			}
		}
	}
}
