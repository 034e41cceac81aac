package tictactoe

import (
	"math"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	scoreWin  = 10
	scoreLoss = -10
	scoreDraw = 0
)

// BestMove - returns the optimal cell for aiMark using full minimax.
// Scores are not discounted by depth: any forced win is preferred over a draw,
// but a faster win is not preferred over a slower one.
// Ties resolve to the lowest cell index.
func BestMove(board entity.Board, aiMark entity.Mark) (int, error) {
	if board.IsFull() {
		return -1, apperror.ErrNoAvailableMoves
	}

	search := &minimax{
		board:    board,
		aiMark:   aiMark,
		opponent: aiMark.Opponent(),
	}

	bestVal, move := math.MinInt, -1
	for i := range search.board {
		if search.board[i] != entity.MarkEmpty {
			continue
		}

		search.board[i] = aiMark
		val := search.score(false)
		search.board[i] = entity.MarkEmpty

		if val > bestVal {
			bestVal, move = val, i
		}
	}

	return move, nil
}

// RandomMove - picks uniformly among empty cells.
func RandomMove(board entity.Board, rng *rand.Rand) (int, error) {
	cells := board.EmptyCells()
	if len(cells) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	return cells[rng.Intn(len(cells))], nil
}

// minimax owns a private copy of the board and mutates-and-undoes cells while searching.
type minimax struct {
	board    entity.Board
	aiMark   entity.Mark
	opponent entity.Mark
}

func (that *minimax) score(maximizing bool) int {
	switch outcome := that.board.Evaluate(); outcome.Status {
	case entity.OutcomeWin:
		if outcome.Winner == that.aiMark {
			return scoreWin
		}
		return scoreLoss
	case entity.OutcomeDraw:
		return scoreDraw
	case entity.OutcomeInProgress:
	}

	mark, best := that.opponent, math.MaxInt
	if maximizing {
		mark, best = that.aiMark, math.MinInt
	}

	for i := range that.board {
		if that.board[i] != entity.MarkEmpty {
			continue
		}

		that.board[i] = mark
		val := that.score(!maximizing)
		that.board[i] = entity.MarkEmpty

		if maximizing {
			best = max(best, val)
		} else {
			best = min(best, val)
		}
	}

	return best
}
