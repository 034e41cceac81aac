package service

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

type BotService interface {
	ChooseMove(board entity.Board, botMark entity.Mark, difficulty entity.Difficulty) (int, error)
}

type botService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewBotService(rng *rand.Rand) BotService {
	return &botService{
		rng: rng,
	}
}

// ChooseMove - "hard" runs the full minimax search, anything else picks a random empty cell.
func (that *botService) ChooseMove(board entity.Board, botMark entity.Mark, difficulty entity.Difficulty) (int, error) {
	if difficulty == entity.DifficultyHard {
		cell, err := tictactoe.BestMove(board, botMark)
		if err != nil {
			return -1, fmt.Errorf("bot failed to find best move: %w", err)
		}

		return cell, nil
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	cell, err := tictactoe.RandomMove(board, that.rng)
	if err != nil {
		return -1, fmt.Errorf("bot failed to pick random move: %w", err)
	}

	return cell, nil
}
