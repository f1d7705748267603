package broadcast

import (
	"context"
	"testing"
)

func TestNewFanoutNilClientDisables(t *testing.T) {
	if f := NewFanout(nil); f != nil {
		t.Fatal("expected NewFanout(nil) to return a nil *Fanout")
	}
}

func TestNilFanoutIsANoOp(t *testing.T) {
	var f *Fanout
	f.NotifyAppended(context.Background(), "g1")

	ch, cancel := f.Subscribe(context.Background(), "g1")
	defer cancel()

	select {
	case <-ch:
		t.Fatal("expected no pings from a disabled fanout")
	default:
	}
}

func TestGameChannelNamespacesByGame(t *testing.T) {
	if got, want := gameChannel("g1"), "gridblitz:broadcast:g1"; got != want {
		t.Fatalf("gameChannel: got %q, want %q", got, want)
	}
}
