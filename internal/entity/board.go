package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

const BoardSize = 9

// WinCombos - rows, columns and diagonals, in the order they are scanned.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other playing mark. The empty mark has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

func (that Mark) IsPlayer() bool {
	return that == MarkX || that == MarkO
}

func ParseMark(value string) (Mark, error) {
	mark := Mark(value)
	if !mark.IsPlayer() {
		return MarkEmpty, fmt.Errorf("%w: mark %q", apperror.ErrInvalidSettings, value)
	}

	return mark, nil
}

// Board is a 3x3 grid stored row-major: index = row*3 + col.
type Board [BoardSize]Mark

// ApplyMove returns a copy of the board with mark placed at index.
func (that Board) ApplyMove(index int, mark Mark) (Board, error) {
	if index < 0 || index >= BoardSize {
		return that, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrInvalidCell, index)
	}

	if that[index] != MarkEmpty {
		return that, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, index)
	}

	that[index] = mark

	return that, nil
}

func (that Board) IsEmptyCell(index int) bool {
	return index >= 0 && index < BoardSize && that[index] == MarkEmpty
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == MarkEmpty {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == MarkEmpty {
			return false
		}
	}

	return true
}

// Evaluate - checks win combos first, then whether the board is full.
func (that Board) Evaluate() Outcome {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != MarkEmpty && a == b && b == c {
			return Outcome{Status: OutcomeWin, Winner: a, Combo: combo}
		}
	}

	if that.IsFull() {
		return Outcome{Status: OutcomeDraw}
	}

	return Outcome{Status: OutcomeInProgress}
}

type OutcomeStatus int

const (
	OutcomeInProgress OutcomeStatus = iota
	OutcomeWin
	OutcomeDraw
)

func (that OutcomeStatus) String() string {
	switch that {
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome - result of a board evaluation. Winner and Combo are set only for OutcomeWin.
type Outcome struct {
	Status OutcomeStatus
	Winner Mark
	Combo  [3]int
}

func (that Outcome) IsTerminal() bool {
	return that.Status != OutcomeInProgress
}
