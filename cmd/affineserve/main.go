// Command affineserve serves composed scene matrices and rendered frames
// over HTTP and WebSocket.
//
// Endpoints:
//
//	GET /api/scenes
//	GET /api/scenes/{name}/matrix?t=1.5&w=800&h=600
//	GET /api/scenes/{name}/frame.png?t=1.5&w=800&h=600
//	GET /api/scenes/{name}/stream?fps=30
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/internal/server"
	"github.com/gogpu/affine/scene"
)

func main() {
	var (
		addr   = flag.String("addr", ":8080", "listen address")
		config = flag.String("config", "", "YAML scene file")
		access = flag.Bool("access-log", true, "write an access log to stdout")
		debug  = flag.Bool("debug", false, "log per-frame diagnostics")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	affine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	reg, err := scene.LoadRegistry(*config)
	if err != nil {
		log.Fatalf("Failed to load scenes: %v", err)
	}

	opts := []server.Option{server.WithLogger(affine.Logger())}
	if *access {
		opts = append(opts, server.WithAccessLog(os.Stdout))
	}
	srv := server.New(reg, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Serving %d scenes on %s\n", reg.Len(), *addr)
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
