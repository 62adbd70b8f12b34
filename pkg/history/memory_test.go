package history_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/history"
	"github.com/stayware/sessionkit/pkg/session"
)

func TestMemory_StoreBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("retains events in order", func(t *testing.T) {
		m := history.NewMemory(10)

		require.NoError(t, m.StoreBatch(ctx, []session.Event{
			event(session.EventCreated, "s1"),
			event(session.EventRotated, "s1"),
		}))
		require.NoError(t, m.StoreBatch(ctx, []session.Event{
			event(session.EventInvalidated, "s1"),
		}))

		events := m.Events()
		require.Len(t, events, 3)
		assert.Equal(t, session.EventCreated, events[0].Type)
		assert.Equal(t, session.EventInvalidated, events[2].Type)
		assert.Equal(t, 3, m.Len())
	})

	t.Run("trims oldest past capacity", func(t *testing.T) {
		m := history.NewMemory(2)

		require.NoError(t, m.StoreBatch(ctx, []session.Event{
			event(session.EventCreated, "s1"),
			event(session.EventCreated, "s2"),
			event(session.EventCreated, "s3"),
		}))

		events := m.Events()
		require.Len(t, events, 2)
		assert.Equal(t, "s2", events[0].SessionID)
		assert.Equal(t, "s3", events[1].SessionID)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		m := history.NewMemory(10)
		require.NoError(t, m.StoreBatch(ctx, []session.Event{
			event(session.EventCreated, "s1"),
		}))

		events := m.Events()
		events[0].SessionID = "tampered"

		assert.Equal(t, "s1", m.Events()[0].SessionID)
	})
}
