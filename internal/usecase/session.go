package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/peersync"
)

// Notifier receives every observable change of a session. Calls happen on the loop goroutine.
type Notifier interface {
	BoardChanged(game entity.Game)
	MoveMade(mark entity.Mark, cell int)
	GameOver(outcome entity.Outcome)
	GameReset(game entity.Game)
}

// Scheduler runs task on the session's loop after delay.
type Scheduler interface {
	Schedule(delay time.Duration, task Task)
}

type statsRecorder interface {
	Record(ctx context.Context, result entity.StatResult) error
}

type moveChooser interface {
	ChooseMove(board entity.Board, botMark entity.Mark, difficulty entity.Difficulty) (int, error)
}

type peerPublisher interface {
	SendMove(cell int) error
	SendReset() error
}

type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseAIPending
	PhaseTerminal
)

func (that Phase) String() string {
	switch that {
	case PhaseWaiting:
		return "waiting"
	case PhaseAIPending:
		return "ai-pending"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

type SessionDeps struct {
	Notifier  Notifier
	Scheduler Scheduler
	Stats     statsRecorder
	Bot       moveChooser
	Peer      peerPublisher
}

// Session owns one game and its settings. It is not safe for concurrent use:
// every method must run on the same Loop.
type Session struct {
	id     string
	logger *slog.Logger

	settings entity.Settings
	aiDelay  time.Duration

	game  entity.Game
	phase Phase

	// generation changes on every reset so that AI turns scheduled for an older game are dropped.
	generation uint64

	notifier  Notifier
	scheduler Scheduler
	stats     statsRecorder
	bot       moveChooser
	peer      peerPublisher
}

func NewSession(logger *slog.Logger, settings entity.Settings, aiDelay time.Duration, deps SessionDeps) *Session {
	id := uuid.NewString()

	return &Session{
		id:        id,
		logger:    logger.With("component", "session", "sessionID", id),
		settings:  settings,
		aiDelay:   aiDelay,
		game:      entity.NewGame(),
		phase:     PhaseWaiting,
		notifier:  deps.Notifier,
		scheduler: deps.Scheduler,
		stats:     deps.Stats,
		bot:       deps.Bot,
		peer:      deps.Peer,
	}
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) Game() entity.Game {
	return that.game
}

func (that *Session) Phase() Phase {
	return that.phase
}

func (that *Session) Settings() entity.Settings {
	return that.settings
}

// Start renders the initial board and lets the AI open when it plays X.
func (that *Session) Start(_ context.Context) {
	that.logger.Info("session started",
		"mode", that.settings.Mode, "difficulty", that.settings.Difficulty, "playerMark", that.settings.PlayerMark)

	that.notifier.BoardChanged(that.game)
	that.scheduleAITurn()
}

// SubmitMove places the mark to move on cell on behalf of local input.
func (that *Session) SubmitMove(ctx context.Context, cell int) error {
	log := that.logger.With("method", "SubmitMove", "cell", cell)

	if err := that.checkLocalTurn(); err != nil {
		log.Debug("move rejected", "error", err)
		return fmt.Errorf("%w: %w", apperror.ErrMoveRejected, err)
	}

	mark := that.game.Turn

	next, err := that.game.MakeTurn(cell)
	if err != nil {
		log.Debug("move rejected", "error", err)
		return fmt.Errorf("%w: %w", apperror.ErrMoveRejected, err)
	}

	that.accept(ctx, next, mark, cell)

	if that.settings.IsOnline() {
		if err = that.peer.SendMove(cell); err != nil {
			log.Warn("failed to mirror move to peer", "error", err)
		}
	}

	return nil
}

// ApplyRemoteMove places the mark to move on cell on behalf of the peer. The move is not echoed back.
func (that *Session) ApplyRemoteMove(ctx context.Context, cell int) error {
	log := that.logger.With("method", "ApplyRemoteMove", "cell", cell)

	if !that.settings.IsOnline() {
		return fmt.Errorf("%w: %w", apperror.ErrMoveRejected, apperror.ErrNotOnline)
	}

	if that.phase == PhaseTerminal {
		return fmt.Errorf("%w: %w", apperror.ErrMoveRejected, apperror.ErrGameFinished)
	}

	mark := that.game.Turn

	next, err := that.game.MakeTurn(cell)
	if err != nil {
		log.Debug("remote move rejected", "error", err)
		return fmt.Errorf("%w: %w", apperror.ErrMoveRejected, err)
	}

	that.accept(ctx, next, mark, cell)

	return nil
}

// Reset starts a fresh game. Stats survive. In online mode the peer is told to reset as well.
func (that *Session) Reset(_ context.Context) {
	that.restart()

	if !that.settings.IsOnline() {
		return
	}

	if err := that.peer.SendReset(); err != nil {
		if errors.Is(err, apperror.ErrPeerNotConnected) {
			that.logger.Debug("reset not mirrored, no peer", "method", "Reset")
			return
		}

		that.logger.Warn("failed to mirror reset to peer", "method", "Reset", "error", err)
	}
}

// Reconfigure replaces the settings and starts a fresh game. Nothing is sent to the peer.
func (that *Session) Reconfigure(_ context.Context, settings entity.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	that.settings = settings
	that.logger.Info("settings changed",
		"mode", settings.Mode, "difficulty", settings.Difficulty, "playerMark", settings.PlayerMark)

	that.restart()

	return nil
}

// HandlePeerMessage applies one inbound message. Malformed or stale messages are logged and dropped.
func (that *Session) HandlePeerMessage(ctx context.Context, text string) {
	log := that.logger.With("method", "HandlePeerMessage")

	msg, err := peersync.Decode(text)
	if err != nil {
		log.Warn("dropping peer message", "error", err)
		return
	}

	if !that.settings.IsOnline() {
		log.Warn("dropping peer message, session is not online", "kind", msg.Kind)
		return
	}

	switch msg.Kind {
	case peersync.KindMove:
		// A move for an occupied cell was already applied here, a duplicate is not an error.
		if !that.game.Board.IsEmptyCell(msg.Cell) {
			log.Debug("ignoring move for occupied cell", "cell", msg.Cell)
			return
		}

		if err = that.ApplyRemoteMove(ctx, msg.Cell); err != nil {
			log.Warn("peer move not applied", "cell", msg.Cell, "error", err)
		}
	case peersync.KindReset:
		that.restart()
	}
}

func (that *Session) checkLocalTurn() error {
	switch that.phase {
	case PhaseTerminal:
		return apperror.ErrGameFinished
	case PhaseAIPending:
		return apperror.ErrAITurnPending
	}

	if !that.settings.CanMoveLocally(that.game.Turn) {
		return apperror.ErrNotYourTurn
	}

	return nil
}

func (that *Session) accept(ctx context.Context, next entity.Game, mark entity.Mark, cell int) {
	that.game = next

	that.notifier.MoveMade(mark, cell)
	that.notifier.BoardChanged(next)

	if next.Outcome.IsTerminal() {
		that.finish(ctx, next.Outcome)
		return
	}

	that.phase = PhaseWaiting
	that.scheduleAITurn()
}

func (that *Session) finish(ctx context.Context, outcome entity.Outcome) {
	that.phase = PhaseTerminal

	that.logger.Info("game over", "status", outcome.Status, "winner", outcome.Winner)

	if result, ok := that.settings.ResultOf(outcome); ok {
		if err := that.stats.Record(ctx, result); err != nil {
			that.logger.Error("failed to record stats", "result", result, "error", err)
		}
	}

	that.notifier.GameOver(outcome)
}

func (that *Session) restart() {
	that.generation++
	that.game = entity.NewGame()
	that.phase = PhaseWaiting

	that.logger.Debug("game reset", "generation", that.generation)

	that.notifier.GameReset(that.game)
	that.notifier.BoardChanged(that.game)

	that.scheduleAITurn()
}

func (that *Session) scheduleAITurn() {
	if !that.settings.IsSingle() || !that.game.Active || that.game.Turn != that.settings.AIMark() {
		return
	}

	that.phase = PhaseAIPending
	generation := that.generation

	that.scheduler.Schedule(that.aiDelay, func(ctx context.Context) {
		that.playAITurn(ctx, generation)
	})
}

func (that *Session) playAITurn(ctx context.Context, generation uint64) {
	log := that.logger.With("method", "playAITurn")

	if generation != that.generation || that.phase != PhaseAIPending {
		log.Debug("dropping stale ai turn", "generation", generation, "current", that.generation)
		return
	}

	mark := that.settings.AIMark()

	cell, err := that.bot.ChooseMove(that.game.Board, mark, that.settings.Difficulty)
	if err != nil {
		log.Error("failed to choose ai move", "error", err)
		that.phase = PhaseWaiting
		return
	}

	next, err := that.game.MakeTurn(cell)
	if err != nil {
		log.Error("ai chose an invalid move", "cell", cell, "error", err)
		that.phase = PhaseWaiting
		return
	}

	that.accept(ctx, next, mark, cell)
}
