// Package netx runs HTTP servers.
package netx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const ShutdownTimeout = 10 * time.Second

// Serve accepts connections on l until ctx is cancelled, then shuts srv
// down gracefully. It returns nil after a clean shutdown.
func Serve(ctx context.Context, srv *http.Server, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on srv.Addr and calls Serve.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	l, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, srv, l)
}
