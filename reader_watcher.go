package gauge

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"
)

// ReaderWatcher emits each line of a stream as a separate edit. It serves
// stdin and pipes, where there is no file to re-read on change.
type ReaderWatcher struct {
	r io.Reader

	mu  sync.Mutex
	err error
}

// NewReaderWatcher creates a ReaderWatcher over r.
func NewReaderWatcher(r io.Reader) *ReaderWatcher {
	return &ReaderWatcher{r: r}
}

// Watch starts reading r. The channel closes at end of input, on a read
// error or when ctx is canceled. A Read blocked inside r is not interrupted
// by ctx; close r to release it.
func (w *ReaderWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(w.r)
		for sc.Scan() {
			select {
			case out <- bytes.Clone(sc.Bytes()):
			case <-ctx.Done():
				return
			}
		}
		w.mu.Lock()
		w.err = sc.Err()
		w.mu.Unlock()
	}()
	return out, nil
}

// Err returns the read error that ended the stream, or nil at end of input.
// It is valid once the Watch channel has closed.
func (w *ReaderWatcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
