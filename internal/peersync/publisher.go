package peersync

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

// Channel is an already established, reliable and ordered link to the other session.
type Channel interface {
	Send(text string) error
}

// Publisher encodes outbound messages onto the attached channel.
// There is no acknowledgement or retry: a message lost after Send returns leaves the peers out of sync.
type Publisher struct {
	logger *slog.Logger

	mu      sync.RWMutex
	channel Channel
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{
		logger: logger.With("component", "peersync"),
	}
}

func (that *Publisher) Attach(channel Channel) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.channel = channel
}

func (that *Publisher) Detach() {
	that.Attach(nil)
}

func (that *Publisher) IsAttached() bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.channel != nil
}

func (that *Publisher) SendMove(cell int) error {
	return that.publish(MoveMessage(cell))
}

func (that *Publisher) SendReset() error {
	return that.publish(ResetMessage())
}

func (that *Publisher) publish(msg Message) error {
	that.mu.RLock()
	channel := that.channel
	that.mu.RUnlock()

	if channel == nil {
		return apperror.ErrPeerNotConnected
	}

	text, err := Encode(msg)
	if err != nil {
		return err
	}

	if err = channel.Send(text); err != nil {
		that.logger.Warn("peer message not delivered, peers may be out of sync", "kind", msg.Kind, "error", err)
		return fmt.Errorf("failed to send %s message: %w", msg.Kind, err)
	}

	return nil
}
