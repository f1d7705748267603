package rng

import (
	"crypto/sha256"
	"encoding/hex"
)

// CommitHash computes the SHA-256 commitment published before a game
// begins. The server seed itself stays secret until the game completes.
func CommitHash(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// VerifyCommit reports whether serverSeed hashes to the previously
// published commitment.
func VerifyCommit(serverSeed, publishedHash string) bool {
	return CommitHash(serverSeed) == publishedHash
}
