package verifier

import (
	"testing"

	"gridblitz.dev/platform/internal/rng"
)

func TestVerifyRoundTrip(t *testing.T) {
	seed := "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2"
	hash := rng.CommitHash(seed)

	result := Verify(seed, "test-client-seed-12345", 0, 150, hash)
	if !result.Verified {
		t.Fatal("expected verification to succeed")
	}
	if result.TotalEvents != 150 {
		t.Fatalf("expected totalEvents=150, got %d", result.TotalEvents)
	}
}

func TestVerifyRejectsMutatedSeed(t *testing.T) {
	seed := "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2"
	hash := rng.CommitHash(seed)
	mutated := "b1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2"

	result := Verify(mutated, "test-client-seed-12345", 0, 150, hash)
	if result.Verified {
		t.Fatal("expected verification to fail for mutated seed")
	}
}

func TestVerifyBoundedBatches(t *testing.T) {
	seed := "seed"
	hash := rng.CommitHash(seed)
	result := Verify(seed, "client", 0, 237, hash)
	if !result.Verified {
		t.Fatal("expected verification across a non-multiple-of-100 event count to succeed")
	}
}
