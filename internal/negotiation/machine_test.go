package negotiation

import (
	"testing"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

func TestCanInitiateRound(t *testing.T) {
	open := &repository.NegotiationSession{
		SupplierID:   "sup-a",
		Status:       repository.SessionNegotiating,
		CurrentRound: 1,
		MaxRounds:    3,
	}

	t.Run("allows next round when idle", func(t *testing.T) {
		if err := CanInitiateRound(open, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects double initiation while a round is pending", func(t *testing.T) {
		pending := &repository.NegotiationRound{RoundNumber: 1, Status: repository.RoundPending}
		err := CanInitiateRound(open, pending)
		if err == nil {
			t.Fatal("expected error")
		}
		if errors.CodeOf(err) != errors.ErrCodeConcurrentRound {
			t.Errorf("code = %v, want CONCURRENT_ROUND", errors.CodeOf(err))
		}
	})

	t.Run("rejects terminal session", func(t *testing.T) {
		done := &repository.NegotiationSession{Status: repository.SessionCompleted, CurrentRound: 2, MaxRounds: 3}
		if err := CanInitiateRound(done, nil); errors.CodeOf(err) != errors.ErrCodeConflict {
			t.Errorf("expected CONFLICT, got %v", err)
		}
	})

	t.Run("rejects when round cap reached", func(t *testing.T) {
		capped := &repository.NegotiationSession{Status: repository.SessionNegotiating, CurrentRound: 3, MaxRounds: 3}
		if err := CanInitiateRound(capped, nil); errors.CodeOf(err) != errors.ErrCodeConflict {
			t.Errorf("expected CONFLICT, got %v", err)
		}
	})
}

func TestStatusAfterReply(t *testing.T) {
	if got := StatusAfterReply(Ask{Strategy: repository.StrategySkip}, false); got != repository.SessionCompleted {
		t.Errorf("skip → %s, want COMPLETED", got)
	}
	if got := StatusAfterReply(Ask{Strategy: repository.StrategyPriceMatch}, true); got != repository.SessionAccepted {
		t.Errorf("accepted → %s, want ACCEPTED", got)
	}
	if got := StatusAfterReply(Ask{Strategy: repository.StrategyPriceMatch}, false); got != repository.SessionAwaitingReply {
		t.Errorf("price_match → %s, want AWAITING_REPLY", got)
	}
}

func TestSessionStatusTerminal(t *testing.T) {
	terminal := []repository.SessionStatus{
		repository.SessionAccepted,
		repository.SessionCompleted,
		repository.SessionTimedOut,
		repository.SessionAbandoned,
	}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	active := []repository.SessionStatus{
		repository.SessionInitiated,
		repository.SessionAwaitingReply,
		repository.SessionNegotiating,
	}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
