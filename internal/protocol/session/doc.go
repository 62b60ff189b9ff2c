// Package session owns the socket lifecycle of one simulation server
// connection.
//
// Ownership boundary:
// - dialing and wrapping the TCP connection
// - feeding received bytes through the frame decoder
// - ordered frame delivery, closing Frames on loss
// - framed, fire-and-forget sends
//
// A session never reconnects. Once Frames has been closed or Close has
// been called the Conn is spent; Err reports why.
package session
