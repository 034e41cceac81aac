package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	t.Run("Accepts known values", func(t *testing.T) {
		settings, err := ParseSettings("online", "hard", "O")

		require.NoError(t, err)
		assert.Equal(t, Settings{Mode: ModeOnline, Difficulty: DifficultyHard, PlayerMark: MarkO}, settings)
	})

	t.Run("Rejects unknown mode", func(t *testing.T) {
		_, err := ParseSettings("arcade", "hard", "X")

		assert.ErrorIs(t, err, apperror.ErrInvalidSettings)
	})

	t.Run("Rejects unknown difficulty", func(t *testing.T) {
		_, err := ParseSettings("single", "insane", "X")

		assert.ErrorIs(t, err, apperror.ErrInvalidSettings)
	})

	t.Run("Rejects empty player mark", func(t *testing.T) {
		_, err := ParseSettings("single", "easy", "")

		assert.ErrorIs(t, err, apperror.ErrInvalidSettings)
	})
}

func TestSettings_ResultOf(t *testing.T) {
	xWins := Outcome{Status: OutcomeWin, Winner: MarkX, Combo: [3]int{0, 1, 2}}
	oWins := Outcome{Status: OutcomeWin, Winner: MarkO, Combo: [3]int{0, 1, 2}}
	draw := Outcome{Status: OutcomeDraw}

	tests := []struct {
		name     string
		settings Settings
		outcome  Outcome
		expect   StatResult
	}{
		{"single, player wins", Settings{Mode: ModeSingle, PlayerMark: MarkO}, oWins, ResultWin},
		{"single, ai wins", Settings{Mode: ModeSingle, PlayerMark: MarkO}, xWins, ResultLoss},
		{"single, draw", Settings{Mode: ModeSingle, PlayerMark: MarkX}, draw, ResultDraw},
		{"local, X counts as the player", Settings{Mode: ModeLocal, PlayerMark: MarkO}, xWins, ResultWin},
		{"local, O win is a loss", Settings{Mode: ModeLocal, PlayerMark: MarkO}, oWins, ResultLoss},
		{"local, draw", Settings{Mode: ModeLocal, PlayerMark: MarkX}, draw, ResultDraw},
		{"online, local mark wins", Settings{Mode: ModeOnline, PlayerMark: MarkO}, oWins, ResultWin},
		{"online, remote mark wins", Settings{Mode: ModeOnline, PlayerMark: MarkO}, xWins, ResultLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := tt.settings.ResultOf(tt.outcome)

			require.True(t, ok)
			assert.Equal(t, tt.expect, result)
		})
	}

	t.Run("In progress records nothing", func(t *testing.T) {
		_, ok := DefaultSettings().ResultOf(Outcome{Status: OutcomeInProgress})

		assert.False(t, ok)
	})
}

func TestSettings_CanMoveLocally(t *testing.T) {
	assert.True(t, Settings{Mode: ModeLocal, PlayerMark: MarkX}.CanMoveLocally(MarkO))
	assert.True(t, Settings{Mode: ModeOnline, PlayerMark: MarkO}.CanMoveLocally(MarkO))
	assert.False(t, Settings{Mode: ModeOnline, PlayerMark: MarkO}.CanMoveLocally(MarkX))
	assert.False(t, Settings{Mode: ModeSingle, PlayerMark: MarkX}.CanMoveLocally(MarkO))
}
