package httpserver_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/httpserver"
)

// reserveAddr grabs a free loopback port and releases it again, so the
// server under test can bind it.
func reserveAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitListening(t *testing.T, addr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 3*time.Second, 20*time.Millisecond, "server never started listening")
}

func waitStopped(t *testing.T, done chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop in time")
	}
}

// startServer runs a server with a trivial 200 handler on a reserved port
// and blocks until the start hooks have fired.
func startServer(t *testing.T, ctx context.Context, opts ...httpserver.Option) (*httpserver.Server, string, chan error) {
	t.Helper()
	addr := reserveAddr(t)
	started := make(chan struct{})
	opts = append(opts,
		httpserver.WithAddr(addr),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
		httpserver.WithStartHook(func(*slog.Logger) { close(started) }),
	)
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
	}()
	<-started
	return srv, addr, done
}

func TestServer_Run(t *testing.T) {
	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv, addr, done := startServer(t, ctx)
		waitListening(t, addr)

		resp, err := http.Get("http://" + addr)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cancel()
		waitStopped(t, done)
		require.NoError(t, srv.Shutdown(context.Background()))
	})

	t.Run("stops on SIGTERM", func(t *testing.T) {
		_, addr, done := startServer(t, context.Background())
		waitListening(t, addr)

		p, err := os.FindProcess(os.Getpid())
		require.NoError(t, err)
		require.NoError(t, p.Signal(syscall.SIGTERM))
		waitStopped(t, done)
	})

	t.Run("rejects a second start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv, _, done := startServer(t, ctx)

		err := srv.Run(context.Background(), http.NewServeMux())
		require.Error(t, err)
		assert.ErrorIs(t, err, httpserver.ErrStart)

		cancel()
		waitStopped(t, done)
	})

	t.Run("wraps listener failures", func(t *testing.T) {
		srv := httpserver.New(httpserver.WithAddr(":invalid"))
		err := srv.Run(context.Background(), http.NewServeMux())
		require.Error(t, err)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("serves 404 without a handler", func(t *testing.T) {
		addr := reserveAddr(t)
		srv := httpserver.New(
			httpserver.WithAddr(addr),
			httpserver.WithShutdownTimeout(100*time.Millisecond),
		)
		done := make(chan error, 1)
		go func() { done <- srv.Run(context.Background(), nil) }()
		waitListening(t, addr)

		resp, err := http.Get("http://" + addr + "/anything")
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		require.NoError(t, srv.Shutdown(context.Background()))
		waitStopped(t, done)
	})
}

func TestServer_Shutdown(t *testing.T) {
	t.Run("stops a running server", func(t *testing.T) {
		srv, _, done := startServer(t, context.Background())
		require.NoError(t, srv.Shutdown(context.Background()))
		waitStopped(t, done)
	})

	t.Run("idempotent", func(t *testing.T) {
		srv, _, done := startServer(t, context.Background())
		require.NoError(t, srv.Shutdown(context.Background()))
		require.NoError(t, srv.Shutdown(context.Background()))
		waitStopped(t, done)
	})

	t.Run("no-op before start", func(t *testing.T) {
		srv := httpserver.New()
		require.NoError(t, srv.Shutdown(context.Background()))
	})
}

func TestServer_Hooks(t *testing.T) {
	var started, stopped atomic.Bool
	srv, _, done := startServer(t, context.Background(),
		httpserver.WithStartHook(func(*slog.Logger) { started.Store(true) }),
		httpserver.WithStopHook(func(*slog.Logger) { stopped.Store(true) }),
	)
	require.NoError(t, srv.Shutdown(context.Background()))
	waitStopped(t, done)

	assert.True(t, started.Load(), "start hook did not run")
	assert.True(t, stopped.Load(), "stop hook did not run")
}

func TestServer_Options(t *testing.T) {
	t.Run("configures a provided http.Server", func(t *testing.T) {
		addr := reserveAddr(t)
		hs := &http.Server{ReadTimeout: time.Minute}
		started := make(chan struct{})
		srv := httpserver.New(
			httpserver.WithServer(hs),
			httpserver.WithAddr(addr),
			httpserver.WithReadTimeout(time.Second),
			httpserver.WithWriteTimeout(2*time.Second),
			httpserver.WithIdleTimeout(3*time.Second),
			httpserver.WithShutdownTimeout(50*time.Millisecond),
			httpserver.WithStartHook(func(*slog.Logger) { close(started) }),
		)
		done := make(chan error, 1)
		go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
		<-started

		assert.Equal(t, addr, hs.Addr)
		assert.Equal(t, time.Minute, hs.ReadTimeout, "value set on the instance must win")
		assert.Equal(t, 2*time.Second, hs.WriteTimeout)
		assert.Equal(t, 3*time.Second, hs.IdleTimeout)
		assert.NotNil(t, hs.Handler)

		require.NoError(t, srv.Shutdown(context.Background()))
		waitStopped(t, done)
	})

	t.Run("passes the configured logger to hooks", func(t *testing.T) {
		l := slog.New(slog.NewTextHandler(io.Discard, nil))
		got := make(chan *slog.Logger, 1)
		srv, _, done := startServer(t, context.Background(),
			httpserver.WithLogger(l),
			httpserver.WithStartHook(func(lg *slog.Logger) { got <- lg }),
		)
		assert.Equal(t, l, <-got)
		require.NoError(t, srv.Shutdown(context.Background()))
		waitStopped(t, done)
	})

	t.Run("invalid values panic", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			fn   func()
		}{
			{"empty addr", func() { httpserver.WithAddr("") }},
			{"negative read timeout", func() { httpserver.WithReadTimeout(-time.Second) }},
			{"negative write timeout", func() { httpserver.WithWriteTimeout(-time.Second) }},
			{"negative idle timeout", func() { httpserver.WithIdleTimeout(-time.Second) }},
			{"negative shutdown timeout", func() { httpserver.WithShutdownTimeout(-time.Second) }},
			{"nil server", func() { httpserver.WithServer(nil) }},
			{"nil start hook", func() { httpserver.WithStartHook(nil) }},
			{"nil stop hook", func() { httpserver.WithStopHook(nil) }},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				assert.Panics(t, tt.fn)
			})
		}
	})

	t.Run("nil logger falls back to discard", func(t *testing.T) {
		t.Parallel()
		assert.NotPanics(t, func() { httpserver.New(httpserver.WithLogger(nil)) })
	})
}

func TestServer_NewFromConfig(t *testing.T) {
	addr := reserveAddr(t)
	hs := &http.Server{}
	cfg := httpserver.Config{
		Addr:            addr,
		ReadTimeout:     time.Second,
		WriteTimeout:    2 * time.Second,
		IdleTimeout:     3 * time.Second,
		ShutdownTimeout: 50 * time.Millisecond,
	}
	started := make(chan struct{})
	srv := httpserver.NewFromConfig(cfg,
		httpserver.WithServer(hs),
		httpserver.WithStartHook(func(*slog.Logger) { close(started) }),
	)
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	<-started

	assert.Equal(t, addr, hs.Addr)
	assert.Equal(t, time.Second, hs.ReadTimeout)
	assert.Equal(t, 2*time.Second, hs.WriteTimeout)
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitStopped(t, done)
}
