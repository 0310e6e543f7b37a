package scene

import (
	"bytes"
	"context"
	"image/color"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/render"
)

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 3 && d(a.G, b.G) <= 3 && d(a.B, b.B) <= 3
}

func countPainted(img *render.PixmapTarget) int {
	n := 0
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.Pixel(x, y) != white {
				n++
			}
		}
	}
	return n
}

func newRunner(t *testing.T, s Scene, w, h int) (*Runner, *render.Software) {
	t.Helper()
	b := render.NewSoftware(w, h)
	t.Cleanup(b.Destroy)
	r := NewRunner(b, s)
	require.NoError(t, r.Init())
	return r, b
}

func TestRunnerStepBeforeInit(t *testing.T) {
	r := NewRunner(render.NewSoftware(10, 10), NewTriangle())
	_, err := r.Step(Frame{})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRunnerTriangle(t *testing.T) {
	r, b := newRunner(t, NewTriangle(), 400, 300)
	c, err := r.Step(Frame{Width: 400, Height: 300})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Dim)
	assert.Equal(t, uint64(1), r.Frames())

	fill := NewTriangle().Mesh().Color
	assert.True(t, near(fill, b.Target().Pixel(20, 120)), "inside = %v", b.Target().Pixel(20, 120))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, b.Target().Pixel(20, 50))

	// Two seconds later the triangle has moved 300 px right.
	_, err = r.Step(Frame{Elapsed: 2 * time.Second, Width: 400, Height: 300})
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, b.Target().Pixel(20, 120))
	// 300 mod (400 - 200) = 100.
	assert.True(t, near(fill, b.Target().Pixel(120, 120)))
}

func TestRunnerResizes(t *testing.T) {
	r, b := newRunner(t, NewQuad(), 100, 100)
	_, err := r.Step(Frame{Width: 640, Height: 480})
	require.NoError(t, err)
	w, h := b.Size()
	assert.Equal(t, [2]int{640, 480}, [2]int{w, h})

	// A zero-size frame keeps the backend size.
	c, err := r.Step(Frame{})
	require.NoError(t, err)
	x, y := toPixel(c.M3, 0, 0, 640, 480)
	assert.InDelta(t, 100, x, 1e-6)
	assert.InDelta(t, 100, y, 1e-6)
	assert.True(t, near(NewQuad().Mesh().Color, b.Target().Pixel(300, 200)))
}

func TestRunnerLetterFCulling(t *testing.T) {
	culled := NewLetterF()
	r, b := newRunner(t, culled, 400, 300)
	_, err := r.Step(Frame{Width: 400, Height: 300})
	require.NoError(t, err)
	withCull := countPainted(b.Target())

	open := NewLetterF()
	open.Geometry.Cull = false
	r2, b2 := newRunner(t, open, 400, 300)
	_, err = r2.Step(Frame{Width: 400, Height: 300})
	require.NoError(t, err)
	withoutCull := countPainted(b2.Target())

	assert.Positive(t, withCull)
	assert.Greater(t, withoutCull, withCull)
}

// nanScene composes a non-finite matrix.
type nanScene struct{ *Definition }

func (s nanScene) Compose(Frame) Composed {
	nan := math.NaN()
	return Composed{Dim: 2, M3: m3.Matrix3{nan, 0, 0, 0, nan, 0, 0, 0, 1}}
}

func TestRunnerWarnsOnNonFinite(t *testing.T) {
	var buf bytes.Buffer
	affine.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	defer affine.SetLogger(nil)

	r, _ := newRunner(t, nanScene{NewTriangle()}, 50, 50)
	_, err := r.Step(Frame{Width: 50, Height: 50})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "non-finite composed matrix")
	assert.Contains(t, buf.String(), "scene=triangle")
}

func TestRunnerRun(t *testing.T) {
	r, _ := newRunner(t, NewTriangle(), 50, 50)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	clock := func() Frame {
		calls++
		if calls == 3 {
			cancel()
		}
		return Frame{Elapsed: time.Duration(calls) * time.Millisecond, Width: 50, Height: 50}
	}
	require.NoError(t, r.Run(ctx, time.Millisecond, clock))
	assert.GreaterOrEqual(t, r.Frames(), uint64(3))
}

func TestRunnerRunStopsOnError(t *testing.T) {
	b := render.NewSoftware(10, 10)
	r := NewRunner(b, NewTriangle())
	err := r.Run(context.Background(), time.Millisecond, WallClock(10, 10))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRunnerInitErrors(t *testing.T) {
	bad := NewTriangle()
	bad.VertexSource = "@fragment fn f() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }"
	r := NewRunner(render.NewSoftware(10, 10), bad)
	assert.ErrorIs(t, r.Init(), render.ErrStageMismatch)
}

func TestWallClock(t *testing.T) {
	clock := WallClock(30, 20)
	first := clock()
	assert.Zero(t, first.Elapsed)
	assert.Equal(t, 30, first.Width)
	time.Sleep(2 * time.Millisecond)
	assert.Greater(t, clock().Elapsed, time.Duration(0))
}
