package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/uplink/internal/server"
	"github.com/desertthunder/uplink/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the local upload receiver until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	mode := server.ReceiverMode(cmd.String("mode"))
	switch mode {
	case server.ModeJSON, server.ModeRedirect, server.ModePlain:
	default:
		return fmt.Errorf("%w: unknown mode %q", shared.ErrInvalidFlag, string(mode))
	}

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewReceiverHandler(mode, r.logger))

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	r.logger.Info("receiver listening", "addr", addr, "mode", string(mode))
	r.writePlain("Receiver listening on http://%s/upload (%s mode)\n", addr, string(mode))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("receiver failed: %w", err)
	}
	return nil
}
