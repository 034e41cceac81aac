package apperror

import "errors"

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")

	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrAITurnPending = errors.New("ai turn is pending")
	ErrMoveRejected  = errors.New("move rejected")
	ErrNotOnline     = errors.New("session is not in online mode")

	ErrNoAvailableMoves = errors.New("no available moves")

	ErrMalformedMessage = errors.New("malformed peer message")

	ErrInvalidSettings = errors.New("invalid settings")

	ErrNotFound             = errors.New("not found")
	ErrPeerAlreadyConnected = errors.New("peer already connected")
	ErrPeerNotConnected     = errors.New("peer not connected")

	ErrLoopStopped = errors.New("event loop stopped")
)
