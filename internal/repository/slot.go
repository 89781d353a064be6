package repository

import "context"

// Slot is one named piece of durable storage holding the encoded vote list.
type Slot interface {
	// Load returns nil data and no error when the slot was never written.
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, data []byte) error
	// Watch signals changes made by any writer, including other processes.
	// Each receive is one change; a non-nil value means change detection
	// failed and changes may be missed. The channel is closed once ctx is done.
	Watch(ctx context.Context) (<-chan error, error)
	Close() error
}
