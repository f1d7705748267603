package season

import "sync"

// tickMu serializes Tick invocations within this process. Cross-process
// safety still comes from the repository's compare-and-set updates;
// this mutex just avoids two goroutines in the same process racing to
// read state before either writes.
var tickMu sync.Mutex

// WithLock runs fn while holding the process-wide tick lock.
func WithLock(fn func() (Result, error)) (Result, error) {
	tickMu.Lock()
	defer tickMu.Unlock()
	return fn()
}
