package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type statsKeeper interface {
	Load(ctx context.Context) (entity.Stats, error)
	Clear(ctx context.Context) error
}

// Snapshot is a consistent copy of the session state taken on the loop.
type Snapshot struct {
	Game     entity.Game
	Phase    Phase
	Settings entity.Settings
}

// GameManager is the goroutine-safe entry point to a Session. Every call is serialized through the loop.
type GameManager struct {
	logger *slog.Logger

	loop    *Loop
	session *Session
	stats   statsKeeper
}

func NewGameManager(logger *slog.Logger, loop *Loop, session *Session, stats statsKeeper) *GameManager {
	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		loop:    loop,
		session: session,
		stats:   stats,
	}
}

func (that *GameManager) Start(ctx context.Context) error {
	return that.loop.Do(ctx, that.session.Start)
}

func (that *GameManager) SubmitMove(ctx context.Context, cell int) error {
	var moveErr error

	err := that.loop.Do(ctx, func(ctx context.Context) {
		moveErr = that.session.SubmitMove(ctx, cell)
	})
	if err != nil {
		return fmt.Errorf("failed to submit move: %w", err)
	}

	return moveErr
}

func (that *GameManager) Reset(ctx context.Context) error {
	if err := that.loop.Do(ctx, that.session.Reset); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return nil
}

func (that *GameManager) Reconfigure(ctx context.Context, settings entity.Settings) error {
	var settingsErr error

	err := that.loop.Do(ctx, func(ctx context.Context) {
		settingsErr = that.session.Reconfigure(ctx, settings)
	})
	if err != nil {
		return fmt.Errorf("failed to change settings: %w", err)
	}

	return settingsErr
}

// ReceivePeerMessage queues an inbound peer message without waiting for it to be applied.
func (that *GameManager) ReceivePeerMessage(text string) {
	if !that.loop.Post(func(ctx context.Context) {
		that.session.HandlePeerMessage(ctx, text)
	}) {
		that.logger.Warn("peer message dropped, loop stopped")
	}
}

func (that *GameManager) Snapshot(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot

	err := that.loop.Do(ctx, func(context.Context) {
		snapshot = Snapshot{
			Game:     that.session.Game(),
			Phase:    that.session.Phase(),
			Settings: that.session.Settings(),
		}
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to take snapshot: %w", err)
	}

	return snapshot, nil
}

func (that *GameManager) Stats(ctx context.Context) (entity.Stats, error) {
	stats, err := that.stats.Load(ctx)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to load stats: %w", err)
	}

	return stats, nil
}

// ClearStats zeroes all counters. It runs on the loop so it cannot interleave with a stats update.
func (that *GameManager) ClearStats(ctx context.Context) error {
	var clearErr error

	err := that.loop.Do(ctx, func(ctx context.Context) {
		clearErr = that.stats.Clear(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to clear stats: %w", err)
	}

	if clearErr != nil {
		return fmt.Errorf("failed to clear stats: %w", clearErr)
	}

	that.logger.Info("stats cleared")

	return nil
}
