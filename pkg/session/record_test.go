package session_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/session"
)

func TestRecord_JSONRoundTrip(t *testing.T) {
	now := time.UnixMilli(time.Now().UnixMilli())
	rec := session.Record{
		SessionID:             "abc123",
		UserID:                "user-1",
		DeviceFingerprintHash: "0123456789abcdef0123456789abcdef",
		CreatedAt:             now,
		LastActivity:          now.Add(5 * time.Minute),
		ExpiresAt:             now.Add(12 * time.Hour),
		IsActive:              true,
		LoginMethod:           "password",
		IPAddress:             "203.0.113.7",
		UserAgent:             "stayware-app/2.4",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var restored session.Record
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, rec, restored)
}

func TestRecord_TimestampsAreEpochMillis(t *testing.T) {
	now := time.UnixMilli(time.Now().UnixMilli())
	rec := session.Record{
		SessionID:    "abc123",
		UserID:       "user-1",
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(time.Hour),
		IsActive:     true,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, float64(now.UnixMilli()), raw["createdAt"])
	assert.Equal(t, float64(now.Add(time.Hour).UnixMilli()), raw["expiresAt"])
}

func TestRecord_OmitsEmptyOptionalFields(t *testing.T) {
	rec := session.Record{
		SessionID: "abc123",
		UserID:    "user-1",
		IsActive:  true,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "deviceFingerprintHash")
	assert.NotContains(t, raw, "loginMethod")
	assert.NotContains(t, raw, "ipAddress")
	assert.NotContains(t, raw, "userAgent")
}

func TestRecord_Clone(t *testing.T) {
	now := time.UnixMilli(time.Now().UnixMilli())
	rec := &session.Record{
		SessionID: "abc123",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
		IsActive:  true,
	}

	clone := rec.Clone()
	require.NotSame(t, rec, clone)
	assert.Equal(t, *rec, *clone)

	clone.SessionID = "changed"
	assert.Equal(t, "abc123", rec.SessionID)
}

func TestRecord_NilSafety(t *testing.T) {
	var rec *session.Record

	assert.True(t, rec.IsExpired())
	assert.Equal(t, time.Duration(0), rec.Age())
	assert.Nil(t, rec.Clone())
}

func TestRecord_IsExpired(t *testing.T) {
	now := time.UnixMilli(time.Now().UnixMilli())

	live := &session.Record{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, live.IsExpired())

	dead := &session.Record{ExpiresAt: now.Add(-time.Second)}
	assert.True(t, dead.IsExpired())
}
