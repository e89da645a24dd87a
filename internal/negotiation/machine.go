package negotiation

import (
	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

// CanInitiateRound checks the single-flight guarantee for a session: a new
// round may only be opened when the session is non-terminal and no round is
// pending. The existing round is left untouched on violation.
func CanInitiateRound(sess *repository.NegotiationSession, pending *repository.NegotiationRound) error {
	if sess.Status.Terminal() {
		return errors.Newf(errors.ErrCodeConflict,
			"negotiation for supplier %s is terminal (status: %s)", sess.SupplierID, sess.Status)
	}
	if pending != nil {
		return errors.Newf(errors.ErrCodeConcurrentRound,
			"round %d is still awaiting a reply for supplier %s", pending.RoundNumber, sess.SupplierID)
	}
	if sess.CurrentRound >= sess.MaxRounds {
		return errors.Newf(errors.ErrCodeConflict,
			"round cap (%d) reached for supplier %s", sess.MaxRounds, sess.SupplierID)
	}
	return nil
}

// StatusAfterReply maps a strategy decision taken after a reply to the next
// session status. A skip or an acceptance is terminal; anything else loops
// back to AWAITING_REPLY once the follow-up round is opened.
func StatusAfterReply(ask Ask, accepted bool) repository.SessionStatus {
	if accepted {
		return repository.SessionAccepted
	}
	if ask.Strategy == repository.StrategySkip {
		return repository.SessionCompleted
	}
	return repository.SessionAwaitingReply
}
