package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	errFactory := errors.New()

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errFactory.Wrap(errors.ErrServeHTTP, err)
	}

	return r.serve(ctx, lis)
}

func (r *Recorder) serve(ctx context.Context, lis net.Listener) error {
	errFactory := errors.New()
	log := logger.New("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", lis.Addr().String()).Msg("Serving metrics")

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errFactory.Wrap(errors.ErrServeHTTP, err)
	}

	if err := <-done; err != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}
