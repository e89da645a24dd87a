package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded error", New(ErrCodeConflict, "busy"), ErrCodeConflict},
		{"wrapped coded error", Wrap(stderrors.New("db down"), ErrCodeInternal, "query failed"), ErrCodeInternal},
		{"plain error", stderrors.New("boom"), ErrCodeInternal},
		{"not found helper", NotFound("quote", "q-1"), ErrCodeNotFound},
		{"invalid input helper", InvalidInput("raw_text", "must not be empty"), ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf_NestedChain(t *testing.T) {
	inner := New(ErrCodeConcurrentRound, "round 2 already pending")
	outer := Wrap(inner, ErrCodeConcurrentRound, "cannot initiate round")
	if !HasCode(outer, ErrCodeConcurrentRound) {
		t.Error("expected CONCURRENT_ROUND in chain")
	}
	if !stderrors.Is(stderrors.Unwrap(outer), inner) {
		t.Error("expected Unwrap to return the inner error")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeNoEligibleSupplier, "no candidates"), http.StatusNotFound},
		{New(ErrCodeConcurrentRound, "pending round"), http.StatusConflict},
		{New(ErrCodeInvalidConfiguration, "weights"), http.StatusBadRequest},
		{New(ErrCodeConflict, "non-terminal"), http.StatusConflict},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
