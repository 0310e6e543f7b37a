package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/gogpu/affine/render"
	"github.com/gogpu/affine/scene"
)

var errBadQuery = errors.New("bad query")

// matrixMessage is the JSON form of one composed matrix.
type matrixMessage struct {
	Scene    string    `json:"scene"`
	Dim      int       `json:"dim"`
	Uniform  string    `json:"uniform"`
	Elapsed  float64   `json:"elapsed"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Finite   bool      `json:"finite"`
	Elements []float64 `json:"elements,omitempty"`
}

func newMatrixMessage(sc scene.Scene, f scene.Frame) matrixMessage {
	c := sc.Compose(f)
	msg := matrixMessage{
		Scene:   sc.Name(),
		Dim:     c.Dim,
		Uniform: sc.Uniform(),
		Elapsed: f.Seconds(),
		Width:   f.Width,
		Height:  f.Height,
		Finite:  c.IsFinite(),
	}
	// JSON has no NaN or Inf.
	if msg.Finite {
		msg.Elements = c.Elements()
	}
	return msg
}

func (s *Server) handleScenes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string][]string{"scenes": s.reg.Names()})
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	f, err := parseFrame(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, newMatrixMessage(sc, f))
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	f, err := parseFrame(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b := render.NewSoftware(f.Width, f.Height, render.WithLogger(s.log))
	defer b.Destroy()
	runner := scene.NewRunner(b, sc)
	if err := runner.Init(); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(err, "init scene"))
		return
	}
	if _, err := runner.Step(f); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(err, "render frame"))
		return
	}
	var buf bytes.Buffer
	if err := b.Target().EncodePNG(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Warn("server: write frame", "scene", sc.Name(), "err", err)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (scene.Scene, bool) {
	name := mux.Vars(r)["name"]
	sc, err := s.reg.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return sc, true
}

// parseFrame reads t (seconds), w and h.
func parseFrame(q url.Values) (scene.Frame, error) {
	t, err := queryFloat(q, "t", 0)
	if err != nil {
		return scene.Frame{}, err
	}
	width, err := queryInt(q, "w", defaultWidth, 1, maxDimension)
	if err != nil {
		return scene.Frame{}, err
	}
	height, err := queryInt(q, "h", defaultHeight, 1, maxDimension)
	if err != nil {
		return scene.Frame{}, err
	}
	return scene.Frame{
		Elapsed: time.Duration(t * float64(time.Second)),
		Width:   width,
		Height:  height,
	}, nil
}

func queryFloat(q url.Values, key string, def float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(errBadQuery, "%s=%q is not a finite number", key, raw)
	}
	return v, nil
}

func queryInt(q url.Values, key string, def, lo, hi int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, errors.Wrapf(errBadQuery, "%s=%q must be an integer in [%d, %d]", key, raw, lo, hi)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	data, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
