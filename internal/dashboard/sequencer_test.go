package dashboard

import (
	"context"
	"testing"
)

func TestSequencerLatestWins(t *testing.T) {
	seq := NewSequencer()
	first := seq.Begin(context.Background(), "s1:brands")
	second := seq.Begin(context.Background(), "s1:brands")

	if first.Current() {
		t.Fatalf("expected superseded ticket to be stale")
	}
	if first.Context().Err() == nil {
		t.Fatalf("expected superseded ticket to be cancelled")
	}
	if !second.Current() || second.Context().Err() != nil {
		t.Fatalf("expected newest ticket to stay live")
	}
	if second.Seq() <= first.Seq() {
		t.Fatalf("expected increasing sequence, got %d then %d", first.Seq(), second.Seq())
	}

	first.Done()
	if seq.Pending() != 1 {
		t.Fatalf("stale ticket must not release the newer one, pending=%d", seq.Pending())
	}
	second.Done()
	if seq.Pending() != 0 {
		t.Fatalf("expected no pending loads, got %d", seq.Pending())
	}
}

func TestSequencerKeysAreIndependent(t *testing.T) {
	seq := NewSequencer()
	a := seq.Begin(context.Background(), "s1:brands")
	b := seq.Begin(context.Background(), "s2:brands")
	defer a.Done()
	defer b.Done()

	if !a.Current() || !b.Current() {
		t.Fatalf("expected tickets for different keys to coexist")
	}
}

func TestTicketFollowsParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ticket := NewSequencer().Begin(parent, "s1:overview")
	defer ticket.Done()

	cancel()
	if ticket.Context().Err() == nil {
		t.Fatalf("expected ticket context to end with its request")
	}
}
