package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	base := New(CodeWrongState, "contest is not ready")
	other := New(CodeWrongState, "different message, same code")

	if !errors.Is(base, other) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(base, New(CodeNotAuthorized, "nope")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := Wrap(CodeLedgerFailure, "release failed", cause)

	if !errors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to unwrap to cause")
	}
	if GetCode(wrapped) != CodeLedgerFailure {
		t.Fatalf("expected ledger failure code, got %q", GetCode(wrapped))
	}
}

func TestGetCodeFromWrappedChain(t *testing.T) {
	inner := New(CodeAlreadyVoted, "arbiter voted already")
	outer := fmt.Errorf("vote rejected: %w", inner)

	if GetCode(outer) != CodeAlreadyVoted {
		t.Fatalf("expected already-voted code through the chain, got %q", GetCode(outer))
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Fatal("expected unknown code for plain errors")
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeWrongDeposit, "deposit mismatch", map[string]string{
		"expected": "100",
		"actual":   "50",
	})
	meta := GetMetadata(err)
	if meta["expected"] != "100" || meta["actual"] != "50" {
		t.Fatalf("unexpected metadata: %v", meta)
	}
	if GetMetadata(errors.New("plain")) != nil {
		t.Fatal("expected nil metadata for plain errors")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeInvalidStake, http.StatusBadRequest},
		{CodeZeroStake, http.StatusBadRequest},
		{CodeWrongDeposit, http.StatusBadRequest},
		{CodeWrongState, http.StatusConflict},
		{CodeTimedOutUseTimeoutPath, http.StatusConflict},
		{CodeNotYetTimedOut, http.StatusConflict},
		{CodeAlreadyVoted, http.StatusConflict},
		{CodeDisputeWindowClosed, http.StatusConflict},
		{CodeNotAuthorized, http.StatusForbidden},
		{CodeNotAParticipant, http.StatusForbidden},
		{CodeInsufficientFunds, http.StatusPaymentRequired},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.status {
			t.Errorf("code %s: expected status %d, got %d", tt.code, tt.status, got)
		}
	}
}
