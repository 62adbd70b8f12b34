package notify_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/notify"
)

func TestSignRequest_VerifyRoundTrip(t *testing.T) {
	payload := []byte(`{"sessionId":"s-1"}`)

	sig, err := notify.SignRequest("secret", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, sig.Signature)
	assert.NotEmpty(t, sig.ID)
	assert.NotZero(t, sig.Timestamp)

	assert.NoError(t, notify.VerifySignature("secret", payload, sig, time.Minute))
}

func TestSignRequest_RequiresSecretAndPayload(t *testing.T) {
	_, err := notify.SignRequest("", []byte("x"))
	assert.ErrorIs(t, err, notify.ErrInvalidConfiguration)

	_, err = notify.SignRequest("secret", nil)
	assert.ErrorIs(t, err, notify.ErrInvalidConfiguration)
}

func TestVerifySignature_Failures(t *testing.T) {
	payload := []byte(`{"sessionId":"s-1"}`)
	sig, err := notify.SignRequest("secret", payload)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		err := notify.VerifySignature("other", payload, sig, time.Minute)
		assert.ErrorIs(t, err, notify.ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		err := notify.VerifySignature("secret", []byte(`{"sessionId":"s-2"}`), sig, time.Minute)
		assert.ErrorIs(t, err, notify.ErrInvalidSignature)
	})

	t.Run("expired timestamp", func(t *testing.T) {
		old := sig
		old.Timestamp = time.Now().Add(-10 * time.Minute).Unix()
		err := notify.VerifySignature("secret", payload, old, time.Minute)
		assert.ErrorIs(t, err, notify.ErrInvalidSignature)
	})

	t.Run("future timestamp", func(t *testing.T) {
		future := sig
		future.Timestamp = time.Now().Add(10 * time.Minute).Unix()
		err := notify.VerifySignature("secret", payload, future, time.Minute)
		assert.ErrorIs(t, err, notify.ErrInvalidSignature)
	})

	t.Run("zero max age skips timestamp check", func(t *testing.T) {
		// Re-sign so the signature matches the shifted timestamp
		err := notify.VerifySignature("secret", payload, sig, 0)
		assert.NoError(t, err)
	})
}

func TestExtractSignatureHeaders(t *testing.T) {
	t.Run("extracts all fields", func(t *testing.T) {
		h := http.Header{}
		h.Set(notify.HeaderSignature, "abc")
		h.Set(notify.HeaderTimestamp, "1700000000")
		h.Set(notify.HeaderID, "id-1")

		sig, err := notify.ExtractSignatureHeaders(h)
		require.NoError(t, err)
		assert.Equal(t, "abc", sig.Signature)
		assert.Equal(t, int64(1700000000), sig.Timestamp)
		assert.Equal(t, "id-1", sig.ID)
	})

	t.Run("missing headers", func(t *testing.T) {
		_, err := notify.ExtractSignatureHeaders(http.Header{})
		assert.ErrorIs(t, err, notify.ErrInvalidSignature)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		h := http.Header{}
		h.Set(notify.HeaderSignature, "abc")
		h.Set(notify.HeaderTimestamp, "not-a-number")

		_, err := notify.ExtractSignatureHeaders(h)
		assert.ErrorIs(t, err, notify.ErrInvalidSignature)
	})
}

func TestSignatureHeaders_Apply(t *testing.T) {
	h := http.Header{}
	notify.SignatureHeaders{Signature: "sig", Timestamp: 42, ID: "id"}.Apply(h)

	assert.Equal(t, "sig", h.Get(notify.HeaderSignature))
	assert.Equal(t, "42", h.Get(notify.HeaderTimestamp))
	assert.Equal(t, "id", h.Get(notify.HeaderID))
}
