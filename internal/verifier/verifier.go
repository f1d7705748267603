// Package verifier lets any client independently confirm a completed
// game's randomness was not tampered with: replay the HMAC draw chain
// from the revealed server seed and confirm it hashes to the
// previously published commitment.
package verifier

import (
	"gridblitz.dev/platform/internal/rng"
)

// batchSize bounds how many HMAC draws are replayed per loop
// iteration, keeping the verifier responsive in single-threaded hosts.
const batchSize = 100

// Result is the outcome of a verification run.
type Result struct {
	Verified   bool `json:"verified"`
	TotalEvents int `json:"totalEvents"`
}

// Verify replays exactly expectedEvents HMAC draws starting at startNonce,
// confirms each derived float lies in [0,1), and confirms the revealed
// serverSeed hashes to publishedHash.
func Verify(serverSeed, clientSeed string, startNonce, expectedEvents int, publishedHash string) Result {
	if !rng.VerifyCommit(serverSeed, publishedHash) {
		return Result{Verified: false, TotalEvents: expectedEvents}
	}

	gen := rng.New(serverSeed, clientSeed, startNonce)
	remaining := expectedEvents
	for remaining > 0 {
		batch := remaining
		if batch > batchSize {
			batch = batchSize
		}
		for i := 0; i < batch; i++ {
			v := gen.Random()
			if v < 0 || v >= 1 {
				return Result{Verified: false, TotalEvents: expectedEvents}
			}
		}
		remaining -= batch
	}

	return Result{Verified: true, TotalEvents: expectedEvents}
}
