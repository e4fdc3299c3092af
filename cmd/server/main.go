package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"shipcal/internal/log"
	"shipcal/internal/store"
	"shipcal/internal/ws"
)

func main() {
	frontendDir := pflag.String("frontend-dir", "", "directory of static files to serve at /, none when empty")
	addr := pflag.String("addr", ":8080", "listen address")
	keep := pflag.Int("keep-runs", store.DefaultLimit, "number of finished runs kept in memory")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	handler := ws.NewHandler(ctx, hub, store.New(*keep))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newMux(handler, *frontendDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Shutdown: %v", err)
		}
	}()

	log.Infof("Starting server on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server: %v", err)
	}
	handler.Wait()
	log.Infof("Server stopped")
}

// newMux wires the health check, the WebSocket endpoint and, when
// frontendDir is set, a static file server.
func newMux(handler http.Handler, frontendDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)

	if frontendDir == "" {
		return mux
	}
	if _, err := os.Stat(frontendDir); err != nil {
		log.Warnf("Frontend directory: %v", err)
		return mux
	}
	log.Infof("Serving frontend from %s", frontendDir)
	mux.Handle("/", http.FileServer(http.Dir(frontendDir)))
	return mux
}
