package relay

// Frame is an encoded event ready for the transport to write.
type Frame []byte

// Conn is the outbound endpoint of one live client connection.
// Owned by the adapter; the adapter must Close() it. TrySend must not
// block: a full or closed outbound buffer returns an error and the
// frame is dropped.
type Conn interface {
	TrySend(Frame) error
}
