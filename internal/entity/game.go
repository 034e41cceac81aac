package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

// Game is an immutable snapshot of one match. Every transition returns a new value.
type Game struct {
	Board   Board   `json:"board"`
	Turn    Mark    `json:"turn"`
	Active  bool    `json:"active"`
	Outcome Outcome `json:"-"`
}

// NewGame - empty board, X to move.
func NewGame() Game {
	return Game{
		Turn:   MarkX,
		Active: true,
	}
}

// MakeTurn places the mark of the player to move, flips the turn and evaluates the board.
func (that Game) MakeTurn(cell int) (Game, error) {
	if !that.Active {
		return that, apperror.ErrGameFinished
	}

	board, err := that.Board.ApplyMove(cell, that.Turn)
	if err != nil {
		return that, err
	}

	next := Game{
		Board: board,
		Turn:  that.Turn.Opponent(),
	}

	next.Outcome = board.Evaluate()
	next.Active = !next.Outcome.IsTerminal()

	return next, nil
}

func (that Game) IsFinished() bool {
	return !that.Active
}

// StatusText - the line shown under the board.
func (that Game) StatusText() string {
	switch that.Outcome.Status {
	case OutcomeWin:
		return fmt.Sprintf("Player %s Wins!", that.Outcome.Winner)
	case OutcomeDraw:
		return "It's a Draw!"
	default:
		return fmt.Sprintf("Player %s's turn", that.Turn)
	}
}
