// Package lifecycle adapts the teacher's tomb-supervised accept loop to
// this service's two long-lived goroutines: the HTTP server and the
// WebSocket hub's broadcast loop.
package lifecycle

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"

	"matchbook/internal/ws"
)

const shutdownGrace = 5 * time.Second

// Run starts srv and hub under a shared tomb and blocks until ctx is
// cancelled (SIGINT/SIGTERM), then drains in-flight HTTP requests and
// closes the hub before returning.
func Run(ctx context.Context, srv *http.Server, hub *ws.Hub, log zerolog.Logger) error {
	t, ctx := tomb.WithContext(ctx)

	hub.Start(t)

	t.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		err := srv.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})

	t.Go(func() error {
		<-t.Dying()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		log.Info().Msg("draining http server")
		return srv.Shutdown(shutdownCtx)
	})

	<-ctx.Done()
	t.Kill(nil)
	return t.Wait()
}
