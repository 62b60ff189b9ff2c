package agent

import (
	"errors"

	"github.com/danmuck/mapcctl/internal/protocol"
)

var (
	ErrNameRequired = errors.New("agent: name required")

	ErrUnknownMessageType = errors.New("agent: unknown message type")
	ErrAuthRejected       = errors.New("agent: authentication rejected")
	ErrUnusedAction       = errors.New("agent: action id was not used")
	ErrNoPendingAction    = errors.New("agent: no action to skip")
	ErrUnhandledMessage   = errors.New("agent: unhandled message kind")
)

func warningKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownMessageType):
		return "unknown_message_type"
	case errors.Is(err, ErrAuthRejected):
		return "auth_rejected"
	case errors.Is(err, ErrUnusedAction):
		return "unused_action"
	case errors.Is(err, ErrNoPendingAction):
		return "no_pending_action"
	case errors.Is(err, protocol.ErrMalformedMessage):
		return "malformed_message"
	case errors.Is(err, ErrUnhandledMessage):
		return "unhandled_message"
	default:
		return "other"
	}
}
