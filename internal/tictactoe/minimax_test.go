package tictactoe

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.MarkX
	o = entity.MarkO
	e = entity.MarkEmpty
)

func TestBestMove(t *testing.T) {
	t.Run("Takes an immediate win", func(t *testing.T) {
		// Given: X holds cells 0 and 1
		board := entity.Board{x, x, e, e, e, e, e, e, e}

		// When: the engine plays X
		move, err := BestMove(board, x)

		// Then: it completes the row
		require.NoError(t, err)
		assert.Equal(t, 2, move)
	})

	t.Run("Blocks the opponent when it cannot win", func(t *testing.T) {
		// Given: X threatens the top row, O holds the center
		board := entity.Board{
			x, x, e,
			e, o, e,
			e, e, e,
		}

		// When: the engine plays O
		move, err := BestMove(board, o)

		// Then: it blocks on cell 2
		require.NoError(t, err)
		assert.Equal(t, 2, move)
	})

	t.Run("Blocks even when lower cells are free", func(t *testing.T) {
		// Given: X threatens the bottom row
		board := entity.Board{
			e, e, e,
			e, o, e,
			x, x, e,
		}

		// When: the engine plays O
		move, err := BestMove(board, o)

		// Then: it blocks on cell 8
		require.NoError(t, err)
		assert.Equal(t, 8, move)
	})

	t.Run("Leaves the board unchanged", func(t *testing.T) {
		board := entity.Board{x, e, e, e, o, e, e, e, e}
		snapshot := board

		_, err := BestMove(board, x)
		require.NoError(t, err)

		assert.Equal(t, snapshot, board)
	})

	t.Run("Full board reports no move", func(t *testing.T) {
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		move, err := BestMove(board, o)

		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
		assert.Equal(t, -1, move)
	})

	t.Run("Empty board opens on the lowest best cell", func(t *testing.T) {
		// every opening draws under perfect play, so the first scanned cell is kept
		move, err := BestMove(entity.Board{}, x)

		require.NoError(t, err)
		assert.Equal(t, 0, move)
	})
}

func TestBestMove_SelfPlayDraws(t *testing.T) {
	// Given: an empty game
	game := entity.NewGame()

	// When: the engine plays both sides
	for game.Active {
		move, err := BestMove(game.Board, game.Turn)
		require.NoError(t, err)

		game, err = game.MakeTurn(move)
		require.NoError(t, err)
	}

	// Then: the game is a draw
	assert.Equal(t, entity.OutcomeDraw, game.Outcome.Status)
}

func TestBestMove_NeverLoses(t *testing.T) {
	for _, aiMark := range []entity.Mark{x, o} {
		t.Run("engine plays "+string(aiMark), func(t *testing.T) {
			// Given: an opponent that tries every legal reply
			var explore func(game entity.Game)
			explore = func(game entity.Game) {
				if !game.Active {
					// Then: no line ends with the opponent winning
					require.False(t,
						game.Outcome.Status == entity.OutcomeWin && game.Outcome.Winner != aiMark,
						"engine lost on %v", game.Board)
					return
				}

				if game.Turn == aiMark {
					move, err := BestMove(game.Board, aiMark)
					require.NoError(t, err)

					next, err := game.MakeTurn(move)
					require.NoError(t, err)
					explore(next)
					return
				}

				for _, cell := range game.Board.EmptyCells() {
					next, err := game.MakeTurn(cell)
					require.NoError(t, err)
					explore(next)
				}
			}

			explore(entity.NewGame())
		})
	}
}

func TestRandomMove(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) //nolint: gosec // deterministic test source

	t.Run("Always picks an empty cell", func(t *testing.T) {
		board := entity.Board{x, o, e, x, e, o, e, x, o}

		for i := 0; i < 50; i++ {
			move, err := RandomMove(board, rng)
			require.NoError(t, err)
			assert.Contains(t, []int{2, 4, 6}, move)
		}
	})

	t.Run("Full board reports no move", func(t *testing.T) {
		_, err := RandomMove(entity.Board{x, o, x, x, o, o, o, x, x}, rng)

		assert.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})
}
