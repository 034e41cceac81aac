package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

type Mode string

const (
	ModeSingle Mode = "single"
	ModeLocal  Mode = "local"
	ModeOnline Mode = "online"
)

type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyHard Difficulty = "hard"
)

// Settings are read when a session is created and whenever it is reconfigured.
type Settings struct {
	Mode       Mode
	Difficulty Difficulty
	PlayerMark Mark
}

func DefaultSettings() Settings {
	return Settings{
		Mode:       ModeSingle,
		Difficulty: DifficultyEasy,
		PlayerMark: MarkX,
	}
}

func ParseSettings(mode, difficulty, playerMark string) (Settings, error) {
	settings := Settings{
		Mode:       Mode(mode),
		Difficulty: Difficulty(difficulty),
		PlayerMark: Mark(playerMark),
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func (that Settings) Validate() error {
	switch that.Mode {
	case ModeSingle, ModeLocal, ModeOnline:
	default:
		return fmt.Errorf("%w: mode %q", apperror.ErrInvalidSettings, that.Mode)
	}

	switch that.Difficulty {
	case DifficultyEasy, DifficultyHard:
	default:
		return fmt.Errorf("%w: difficulty %q", apperror.ErrInvalidSettings, that.Difficulty)
	}

	if !that.PlayerMark.IsPlayer() {
		return fmt.Errorf("%w: player mark %q", apperror.ErrInvalidSettings, that.PlayerMark)
	}

	return nil
}

func (that Settings) IsOnline() bool {
	return that.Mode == ModeOnline
}

func (that Settings) IsSingle() bool {
	return that.Mode == ModeSingle
}

// AIMark - the mark played by the computer in single mode.
func (that Settings) AIMark() Mark {
	return that.PlayerMark.Opponent()
}

// CanMoveLocally reports whether local input may place the mark that is to move.
// In local mode both marks belong to the keyboard.
func (that Settings) CanMoveLocally(turn Mark) bool {
	if that.Mode == ModeLocal {
		return true
	}

	return turn == that.PlayerMark
}

// ResultOf maps a terminal outcome to the stats counter it increments.
// In local mode X is counted as the player.
func (that Settings) ResultOf(outcome Outcome) (StatResult, bool) {
	switch outcome.Status {
	case OutcomeDraw:
		return ResultDraw, true
	case OutcomeWin:
		player := that.PlayerMark
		if that.Mode == ModeLocal {
			player = MarkX
		}

		if outcome.Winner == player {
			return ResultWin, true
		}

		return ResultLoss, true
	default:
		return 0, false
	}
}
