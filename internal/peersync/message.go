package peersync

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type Kind string

const (
	KindMove  Kind = "move"
	KindReset Kind = "reset"
)

// Message mirrors a move or a reset between two sessions. Cell is meaningful only for KindMove.
type Message struct {
	Kind Kind
	Cell int
}

func MoveMessage(cell int) Message {
	return Message{Kind: KindMove, Cell: cell}
}

func ResetMessage() Message {
	return Message{Kind: KindReset}
}

// wireMessage is the JSON shape exchanged over the channel: {"type":"move","index":4} or {"type":"reset"}.
type wireMessage struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"`
}

func Encode(msg Message) (string, error) {
	wire := wireMessage{Type: string(msg.Kind)}

	switch msg.Kind {
	case KindMove:
		if msg.Cell < 0 || msg.Cell >= entity.BoardSize {
			return "", fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, msg.Cell)
		}
		cell := msg.Cell
		wire.Index = &cell
	case KindReset:
	default:
		return "", fmt.Errorf("%w: unknown kind %q", apperror.ErrMalformedMessage, msg.Kind)
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("failed to marshal peer message: %w", err)
	}

	return string(data), nil
}

func Decode(text string) (Message, error) {
	var wire wireMessage
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Message{}, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	switch Kind(wire.Type) {
	case KindMove:
		if wire.Index == nil {
			return Message{}, fmt.Errorf("%w: move without index", apperror.ErrMalformedMessage)
		}

		if *wire.Index < 0 || *wire.Index >= entity.BoardSize {
			return Message{}, fmt.Errorf("%w: index %d out of range", apperror.ErrMalformedMessage, *wire.Index)
		}

		return MoveMessage(*wire.Index), nil
	case KindReset:
		return ResetMessage(), nil
	default:
		return Message{}, fmt.Errorf("%w: unknown type %q", apperror.ErrMalformedMessage, wire.Type)
	}
}
