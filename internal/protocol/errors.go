package protocol

import "errors"

var (
	// ErrMalformedMessage marks a frame that is not well-formed XML. The
	// frame is dropped; the connection survives.
	ErrMalformedMessage = errors.New("protocol: malformed message")

	// ErrMissingField and ErrInvalidField mark server data that does not
	// match the protocol. Both are fatal for the connection.
	ErrMissingField = errors.New("protocol: missing field")
	ErrInvalidField = errors.New("protocol: invalid field")
)
