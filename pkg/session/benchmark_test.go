package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stayware/sessionkit/pkg/keyvalue"
	"github.com/stayware/sessionkit/pkg/session"
)

func benchManager(b *testing.B) *session.Manager {
	b.Helper()

	manager := session.New(
		session.WithStores(keyvalue.NewTiered(keyvalue.NewMemory(), keyvalue.NewMemory())),
		session.WithFingerprinter(&fakeFingerprinter{hash: "bench-device-hash"}),
		session.WithLogger(quietLogger()),
		session.WithSessionTimeout(time.Hour),
		session.WithAutoRotate(false),
		session.WithDebounce(0, 0),
		session.WithActivityTracking(0),
	)
	b.Cleanup(func() { _ = manager.Close() })
	return manager
}

func BenchmarkManager_Create(b *testing.B) {
	manager := benchManager(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = manager.Create(ctx, "bench-user", "password")
	}
}

func BenchmarkManager_Validate(b *testing.B) {
	manager := benchManager(b)
	ctx := context.Background()

	_, _ = manager.Create(ctx, "bench-user", "password")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = manager.Validate(ctx)
	}
}

func BenchmarkManager_Current(b *testing.B) {
	manager := benchManager(b)
	ctx := context.Background()

	_, _ = manager.Create(ctx, "bench-user", "password")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = manager.Current(ctx)
	}
}

func BenchmarkRecord_JSON(b *testing.B) {
	now := time.UnixMilli(time.Now().UnixMilli())
	rec := session.Record{
		SessionID:             "bench-session-id",
		UserID:                "bench-user",
		DeviceFingerprintHash: "0123456789abcdef0123456789abcdef",
		CreatedAt:             now,
		LastActivity:          now,
		ExpiresAt:             now.Add(time.Hour),
		IsActive:              true,
		LoginMethod:           "password",
	}
	data, _ := json.Marshal(rec)

	b.Run("Marshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = json.Marshal(rec)
		}
	})

	b.Run("Unmarshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var restored session.Record
			_ = json.Unmarshal(data, &restored)
		}
	})
}
