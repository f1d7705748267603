package rng

import "testing"

func TestDeterminism(t *testing.T) {
	g1 := New("server-seed", "client-seed", 0)
	g2 := New("server-seed", "client-seed", 0)
	for i := 0; i < 50; i++ {
		a, b := g1.Random(), g2.Random()
		if a != b {
			t.Fatalf("draw %d diverged: %v != %v", i, a, b)
		}
	}
}

func TestRandomRange(t *testing.T) {
	g := New("seed", "client", 0)
	for i := 0; i < 1000; i++ {
		v := g.Random()
		if v < 0 || v >= 1 {
			t.Fatalf("random() out of range: %v", v)
		}
	}
}

func TestRandomIntRange(t *testing.T) {
	g := New("seed", "client", 0)
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		v := g.RandomInt(1, 6)
		if v < 1 || v > 6 {
			t.Fatalf("randomInt out of [1,6]: %v", v)
		}
		seen[v] = true
	}
	for i := 1; i <= 6; i++ {
		if !seen[i] {
			t.Fatalf("value %d never reached over 5000 draws", i)
		}
	}
}

func TestProbabilityEdges(t *testing.T) {
	g := New("seed", "client", 0)
	for i := 0; i < 10; i++ {
		if g.Probability(0) {
			t.Fatal("probability(0) must always be false")
		}
	}
	for i := 0; i < 10; i++ {
		if !g.Probability(1) {
			t.Fatal("probability(1) must always be true")
		}
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	g := New("seed", "client", 0)
	original := []int{1, 2, 3, 4, 5, 6, 7, 8}
	shuffled := Shuffle(g, original)

	if len(shuffled) != len(original) {
		t.Fatalf("length changed: %d != %d", len(shuffled), len(original))
	}
	counts := map[int]int{}
	for _, v := range original {
		counts[v]++
	}
	for _, v := range shuffled {
		counts[v]--
	}
	for v, c := range counts {
		if c != 0 {
			t.Fatalf("value %d count mismatch after shuffle", v)
		}
	}
	if original[0] != 1 {
		t.Fatal("shuffle mutated the original slice")
	}
}

func TestCommitmentRoundTrip(t *testing.T) {
	seed := "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2"
	hash := CommitHash(seed)
	if !VerifyCommit(seed, hash) {
		t.Fatal("expected verification to succeed for unmodified seed")
	}
	mutated := "b1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2"
	if VerifyCommit(mutated, hash) {
		t.Fatal("expected verification to fail for a mutated seed")
	}
}
