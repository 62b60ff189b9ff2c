// Package agent owns one agent's connection to the simulation server.
//
// Ownership boundary:
// - connection state (identity, transport, pending action id)
// - message dispatch to typed handlers
// - belief reconciliation against the reasoning engine
// - the zero-argument actions the engine may invoke (skip, disconnect,
//   stopProcess)
//
// Lifecycle order:
// - dial -> auth-request -> (frame -> dispatch -> schedule)* -> lost
//
// - every dispatched message is followed by exactly one scheduling pass.
//
// - on loss connected(name) is retracted and the engine gets one final
//   scheduling pass. There is no reconnection.
//
// All connection state is owned by the goroutine running Serve. Engine
// actions run inside Engine.Schedule on that same goroutine.
package agent
