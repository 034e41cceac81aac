package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const helpText = `Commands:
  0-8                          place a mark on a cell
  reset                        start a new game
  settings <mode> <diff> <X|O> change mode (single, local, online), difficulty (easy, hard) and mark
  stats                        show wins, losses and draws
  clear                        reset the stats
  help                         show this help
  quit                         leave
`

type gameManager interface {
	SubmitMove(ctx context.Context, cell int) error
	Reset(ctx context.Context) error
	Reconfigure(ctx context.Context, settings entity.Settings) error
	Stats(ctx context.Context) (entity.Stats, error)
	ClearStats(ctx context.Context) error
}

// Console reads commands line by line and forwards them to the game manager.
type Console struct {
	logger   *slog.Logger
	manager  gameManager
	renderer *Renderer
}

func New(logger *slog.Logger, manager gameManager, renderer *Renderer) *Console {
	return &Console{
		logger:   logger.With("component", "console"),
		manager:  manager,
		renderer: renderer,
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run processes commands from in until quit, EOF or ctx is done.
func (that *Console) Run(ctx context.Context, in io.Reader, interactive bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if interactive {
		that.renderer.Printf(helpText)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}

		readErr <- scanner.Err()
	}()

	for {
		if interactive {
			that.renderer.Printf("> ")
		}

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}

			if quit := that.execute(ctx, line); quit {
				return nil
			}
		}
	}
}

func (that *Console) execute(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	if cell, err := strconv.Atoi(fields[0]); err == nil {
		that.move(ctx, cell)
		return false
	}

	switch fields[0] {
	case "quit", "exit", "q":
		return true
	case "reset", "r":
		if err := that.manager.Reset(ctx); err != nil {
			that.fail("reset", err)
		}
	case "settings", "set":
		that.reconfigure(ctx, fields[1:])
	case "stats":
		that.showStats(ctx)
	case "clear":
		if err := that.manager.ClearStats(ctx); err != nil {
			that.fail("clear", err)
			return false
		}
		that.renderer.Printf("Stats cleared.\n")
	case "help", "?":
		that.renderer.Printf(helpText)
	default:
		that.renderer.Printf("Unknown command %q, type help.\n", fields[0])
	}

	return false
}

func (that *Console) move(ctx context.Context, cell int) {
	err := that.manager.SubmitMove(ctx, cell)
	if err == nil {
		return
	}

	if errors.Is(err, apperror.ErrMoveRejected) {
		that.renderer.Printf("Move rejected: %s.\n", rejectReason(err))
		return
	}

	that.fail("move", err)
}

func (that *Console) reconfigure(ctx context.Context, args []string) {
	if len(args) != 3 {
		that.renderer.Printf("Usage: settings <mode> <difficulty> <X|O>\n")
		return
	}

	settings, err := entity.ParseSettings(args[0], args[1], strings.ToUpper(args[2]))
	if err != nil {
		that.renderer.Printf("Invalid settings: %v.\n", err)
		return
	}

	if err = that.manager.Reconfigure(ctx, settings); err != nil {
		that.fail("settings", err)
	}
}

func (that *Console) showStats(ctx context.Context) {
	stats, err := that.manager.Stats(ctx)
	if err != nil {
		that.fail("stats", err)
		return
	}

	that.renderer.Printf("Wins: %d  Losses: %d  Draws: %d\n", stats.Wins, stats.Losses, stats.Draws)
}

func (that *Console) fail(command string, err error) {
	that.logger.Error("command failed", "command", command, "error", err)
	that.renderer.Printf("Could not %s, see log.\n", command)
}

func rejectReason(err error) string {
	reasons := []struct {
		target error
		text   string
	}{
		{apperror.ErrInvalidCell, "pick a cell from 0 to 8"},
		{apperror.ErrCellOccupied, "that cell is taken"},
		{apperror.ErrGameFinished, "the game is over, type reset"},
		{apperror.ErrAITurnPending, "wait for the computer"},
		{apperror.ErrNotYourTurn, "it's not your turn"},
	}

	for _, reason := range reasons {
		if errors.Is(err, reason.target) {
			return reason.text
		}
	}

	return "not allowed"
}
