package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// Renderer draws session changes as text.
type Renderer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (that *Renderer) BoardChanged(game entity.Game) {
	that.print(FormatBoard(game.Board) + game.StatusText() + "\n")
}

func (that *Renderer) MoveMade(mark entity.Mark, cell int) {
	that.print(fmt.Sprintf("%s -> %d\n", mark, cell))
}

func (that *Renderer) GameOver(outcome entity.Outcome) {
	if outcome.Status != entity.OutcomeWin {
		that.print("Game over.\n")
		return
	}

	that.print(fmt.Sprintf("Game over, winning line %d-%d-%d.\n", outcome.Combo[0], outcome.Combo[1], outcome.Combo[2]))
}

func (that *Renderer) GameReset(entity.Game) {
	that.print("New game.\n")
}

// Printf writes a free-form line between notifications.
func (that *Renderer) Printf(format string, args ...any) {
	that.print(fmt.Sprintf(format, args...))
}

func (that *Renderer) print(text string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, _ = io.WriteString(that.out, text)
}

// FormatBoard draws the grid, empty cells show their index.
func FormatBoard(board entity.Board) string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			index := row*3 + col
			cells[col] = strconv.Itoa(index)
			if board[index] != entity.MarkEmpty {
				cells[col] = string(board[index])
			}
		}

		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			sb.WriteString("---+---+---\n")
		}
	}

	return sb.String()
}
