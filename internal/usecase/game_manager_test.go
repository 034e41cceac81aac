package usecase

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
)

// lockedStore guards memoryStore for reads from the test goroutine.
type lockedStore struct {
	mu    sync.Mutex
	inner *memoryStore
}

func (that *lockedStore) Get(ctx context.Context, key string) (int, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.inner.Get(ctx, key)
}

func (that *lockedStore) Set(ctx context.Context, key string, value int) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.inner.Set(ctx, key, value)
}

func (that *lockedStore) Remove(ctx context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.inner.Remove(ctx, key)
}

func newTestManager(t *testing.T, settings entity.Settings) *GameManager {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loop, _ := startLoop(t)
	stats := service.NewStatsService(&lockedStore{inner: newMemoryStore()})

	session := NewSession(logger, settings, time.Millisecond, SessionDeps{
		Notifier:  &recordingNotifier{},
		Scheduler: loop,
		Stats:     stats,
		Bot:       service.NewBotService(rand.New(rand.NewSource(7))),
		Peer:      &recordingPeer{},
	})

	manager := NewGameManager(logger, loop, session, stats)
	require.NoError(t, manager.Start(context.Background()))

	return manager
}

func TestGameManager(t *testing.T) {
	t.Run("AI replies through the loop", func(t *testing.T) {
		// Given: a hard single game with the player on X
		manager := newTestManager(t, singleSettings(entity.DifficultyHard, entity.MarkX))

		// When: the player takes a corner
		require.NoError(t, manager.SubmitMove(context.Background(), 0))

		// Then: the AI eventually takes the center
		assert.Eventually(t, func() bool {
			snapshot, err := manager.Snapshot(context.Background())
			return err == nil && snapshot.Game.Board[4] == entity.MarkO && snapshot.Phase == PhaseWaiting
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Returns session errors", func(t *testing.T) {
		manager := newTestManager(t, localSettings())
		require.NoError(t, manager.SubmitMove(context.Background(), 0))

		err := manager.SubmitMove(context.Background(), 0)

		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Stats survive reset and clear on demand", func(t *testing.T) {
		manager := newTestManager(t, localSettings())
		for _, cell := range []int{0, 3, 1, 4, 2} {
			require.NoError(t, manager.SubmitMove(context.Background(), cell))
		}

		require.NoError(t, manager.Reset(context.Background()))
		stats, err := manager.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.Stats{Wins: 1}, stats)

		require.NoError(t, manager.ClearStats(context.Background()))
		stats, err = manager.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.Stats{}, stats)
	})

	t.Run("Queues peer messages in order", func(t *testing.T) {
		manager := newTestManager(t, onlineSettings(entity.MarkO))

		manager.ReceivePeerMessage(`{"type":"move","index":4}`)
		manager.ReceivePeerMessage(`{"type":"reset"}`)
		manager.ReceivePeerMessage(`{"type":"move","index":8}`)

		snapshot, err := manager.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.MarkEmpty, snapshot.Game.Board[4])
		assert.Equal(t, entity.MarkX, snapshot.Game.Board[8])
	})

	t.Run("Reconfigure switches mode", func(t *testing.T) {
		manager := newTestManager(t, localSettings())

		require.NoError(t, manager.Reconfigure(context.Background(), onlineSettings(entity.MarkX)))

		snapshot, err := manager.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.ModeOnline, snapshot.Settings.Mode)
	})
}
