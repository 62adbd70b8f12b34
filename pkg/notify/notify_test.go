package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/notify"
)

func TestClient_SessionCreated(t *testing.T) {
	var gotPath string
	var gotPayload notify.CreatePayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL)
	require.NoError(t, err)

	err = client.SessionCreated(context.Background(), "sess-1", "fp-hash", "email")
	require.NoError(t, err)

	assert.Equal(t, "/auth/session/create", gotPath)
	assert.Equal(t, "sess-1", gotPayload.SessionID)
	assert.Equal(t, "fp-hash", gotPayload.DeviceFingerprint)
	assert.Equal(t, "email", gotPayload.LoginMethod)
}

func TestClient_SessionInvalidated(t *testing.T) {
	var gotPath string
	var gotPayload notify.InvalidatePayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.SessionInvalidated(context.Background(), "sess-1", "user_logout"))
	assert.Equal(t, "/auth/session/invalidate", gotPath)
	assert.Equal(t, "sess-1", gotPayload.SessionID)
	assert.Equal(t, "user_logout", gotPayload.Reason)
}

func TestClient_SessionRotated(t *testing.T) {
	var gotPath string
	var gotPayload notify.RotatePayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.SessionRotated(context.Background(), "old-1", "new-1"))
	assert.Equal(t, "/auth/session/rotate", gotPath)
	assert.Equal(t, "old-1", gotPayload.OldSessionID)
	assert.Equal(t, "new-1", gotPayload.NewSessionID)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL,
		notify.WithMaxRetries(3),
		notify.WithBackoff(notify.FixedBackoff{Interval: time.Millisecond}),
	)
	require.NoError(t, err)

	require.NoError(t, client.SessionCreated(context.Background(), "s", "fp", "email"))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_PermanentFailureStopsRetries(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL,
		notify.WithMaxRetries(3),
		notify.WithBackoff(notify.FixedBackoff{Interval: time.Millisecond}),
	)
	require.NoError(t, err)

	err = client.SessionCreated(context.Background(), "s", "fp", "email")
	assert.ErrorIs(t, err, notify.ErrPermanentFailure)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_RateLimitIsRetried(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL,
		notify.WithMaxRetries(2),
		notify.WithBackoff(notify.FixedBackoff{Interval: time.Millisecond}),
	)
	require.NoError(t, err)

	require.NoError(t, client.SessionCreated(context.Background(), "s", "fp", "email"))
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_ExhaustedRetriesReturnDeliveryFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL,
		notify.WithMaxRetries(1),
		notify.WithBackoff(notify.FixedBackoff{Interval: time.Millisecond}),
	)
	require.NoError(t, err)

	err = client.SessionCreated(context.Background(), "s", "fp", "email")
	assert.ErrorIs(t, err, notify.ErrDeliveryFailed)
}

func TestClient_SignsRequestsWhenConfigured(t *testing.T) {
	const secret = "test-secret"
	var verified atomic.Bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		sig, err := notify.ExtractSignatureHeaders(r.Header)
		require.NoError(t, err)
		require.NoError(t, notify.VerifySignature(secret, body, sig, time.Minute))

		verified.Store(true)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := notify.NewClient(server.URL, notify.WithSigningSecret(secret))
	require.NoError(t, err)

	require.NoError(t, client.SessionCreated(context.Background(), "s", "fp", "email"))
	assert.True(t, verified.Load())
}

func TestClient_CircuitBreakerBlocksAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	breaker := notify.NewCircuitBreaker(2, 1, time.Hour)
	client, err := notify.NewClient(server.URL,
		notify.WithMaxRetries(1),
		notify.WithBackoff(notify.FixedBackoff{Interval: time.Millisecond}),
		notify.WithCircuitBreaker(breaker),
	)
	require.NoError(t, err)

	ctx := context.Background()

	// Each call records two failures (first attempt + one retry)
	assert.Error(t, client.SessionCreated(ctx, "s", "fp", "email"))
	assert.Equal(t, notify.CircuitOpen, breaker.State())

	// Breaker now short-circuits without touching the network
	err = client.SessionCreated(ctx, "s", "fp", "email")
	assert.ErrorIs(t, err, notify.ErrCircuitOpen)
}

func TestClient_OnDeliveryHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var results []notify.DeliveryResult
	client, err := notify.NewClient(server.URL, notify.WithOnDelivery(func(r notify.DeliveryResult) {
		results = append(results, r)
	}))
	require.NoError(t, err)

	require.NoError(t, client.SessionRotated(context.Background(), "old", "new"))

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, "/auth/session/rotate", results[0].Endpoint)
	assert.Equal(t, 1, results[0].Attempt)
	assert.Equal(t, http.StatusOK, results[0].StatusCode)
}

func TestNewClient_ValidatesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"no scheme", "example.com"},
		{"ftp scheme", "ftp://example.com"},
		{"no host", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := notify.NewClient(tt.baseURL)
			assert.ErrorIs(t, err, notify.ErrInvalidBaseURL)
		})
	}
}

func TestNewClientFromConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := notify.NewClientFromConfig(notify.Config{
		BaseURL:    server.URL,
		Timeout:    time.Second,
		MaxRetries: 1,
	})
	require.NoError(t, err)

	assert.NoError(t, client.SessionInvalidated(context.Background(), "s", "timeout"))
}
