package gauge

import "context"

// Watcher observes a source of raw edit text and emits it on a channel.
// Implementations should emit the current contents immediately upon Watch
// being called.
type Watcher interface {
	// Watch begins observing the source and returns a channel of raw bytes.
	// The channel is closed when the context is canceled or the source is
	// exhausted.
	Watch(ctx context.Context) (<-chan []byte, error)
}
