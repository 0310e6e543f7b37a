package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/gogpu/affine/scene"
)

// resizeRequest is the only message a stream client sends.
type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f, err := parseFrame(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fps, err := queryInt(q, "fps", defaultFPS, 1, maxFPS)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.log.Warn("server: websocket upgrade", "err", err)
		return
	}
	id := s.clientID()
	defer s.releaseClientID(id)
	s.log.Info("server: stream opened", "client", id, "scene", sc.Name(), "fps", fps)

	resize := make(chan resizeRequest, 1)
	done := make(chan struct{})
	go s.readPump(conn, id, resize, done)
	err = s.writePump(conn, sc, f, time.Second/time.Duration(fps), resize, done)
	if err != nil {
		s.log.Warn("server: stream dropped", "client", id, "err", err)
	} else {
		s.log.Info("server: stream closed", "client", id)
	}
}

// readPump handles resize requests until the connection fails.
func (s *Server) readPump(conn *websocket.Conn, id string, resize chan resizeRequest, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		var req resizeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.log.Warn("server: bad stream message", "client", id, "err", err)
			continue
		}
		if req.Width < 1 || req.Height < 1 || req.Width > maxDimension || req.Height > maxDimension {
			s.log.Warn("server: bad stream size", "client", id, "width", req.Width, "height", req.Height)
			continue
		}
		// Keep only the latest size.
		select {
		case <-resize:
		default:
		}
		resize <- req
	}
}

// writePump sends one matrix per tick and keeps the connection alive.
func (s *Server) writePump(conn *websocket.Conn, sc scene.Scene, f scene.Frame, interval time.Duration,
	resize <-chan resizeRequest, done <-chan struct{}) error {
	defer conn.Close()

	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()

	send := func() error {
		f.Elapsed = time.Since(start)
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return errors.Wrap(err, "set write deadline")
		}
		return errors.Wrap(conn.WriteJSON(newMatrixMessage(sc, f)), "write matrix")
	}
	if err := send(); err != nil {
		return err
	}
	for {
		select {
		case <-done:
			return nil
		case req := <-resize:
			f.Width, f.Height = req.Width, req.Height
			if err := send(); err != nil {
				return err
			}
		case <-ticker.C:
			if err := send(); err != nil {
				return err
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return errors.Wrap(err, "write ping")
			}
		}
	}
}
