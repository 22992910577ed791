package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepmate/interview-server-go/internal/model"
	redisclient "github.com/prepmate/interview-server-go/internal/redis"
)

func newTestStore(t *testing.T) (SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSessionStore(&redisclient.Client{Client: client}, time.Hour), mr
}

func sampleSession() *model.LiveSession {
	return &model.LiveSession{
		History: []model.Turn{
			{Role: model.TurnRoleInterviewer, Content: "Explain database indexing."},
		},
		Profile: model.CandidateProfile{
			Skills:     []string{"Go", "Postgres"},
			Experience: "2 years",
			Role:       "Backend Engineer",
		},
		State: model.StateQuestion,
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", sampleSession()))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleSession(), got)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_TTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", sampleSession()))
	assert.Equal(t, time.Hour, mr.TTL(redisclient.SessionKey("sess-1")))

	t.Run("refreshed on every write", func(t *testing.T) {
		mr.FastForward(30 * time.Minute)
		require.NoError(t, store.Set(ctx, "sess-1", sampleSession()))
		assert.Equal(t, time.Hour, mr.TTL(redisclient.SessionKey("sess-1")))
	})

	t.Run("expiry drops the session", func(t *testing.T) {
		mr.FastForward(2 * time.Hour)

		got, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSessionStore_LastWriteWins(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := sampleSession()
	require.NoError(t, store.Set(ctx, "sess-1", first))

	second := sampleSession()
	second.History = append(second.History,
		model.Turn{Role: model.TurnRoleCandidate, Content: "I would use an index"},
		model.Turn{Role: model.TurnRoleInterviewer, Content: "Next?"},
	)
	require.NoError(t, store.Set(ctx, "sess-1", second))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, got.History, 3)
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", sampleSession()))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// idempotent
	assert.NoError(t, store.Delete(ctx, "sess-1"))
}
