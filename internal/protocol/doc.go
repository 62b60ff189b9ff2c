// Package protocol owns the simulation server wire contract.
//
// Ownership boundary:
// - XML element tree parsing
// - inbound message union (auth-response, sim-start, sim-end, request-action)
// - outbound message encoding (auth-request, action)
//
// Framing lives in the frame subpackage; the socket lifecycle lives in
// the session subpackage.
package protocol
