// Package errors provides structured error handling for the arena engine.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Contest errors
	CodeInvalidStake           Code = "CONTEST_INVALID_STAKE"
	CodeZeroStake              Code = "CONTEST_ZERO_STAKE"
	CodeWrongState             Code = "CONTEST_WRONG_STATE"
	CodeWrongDeposit           Code = "CONTEST_WRONG_DEPOSIT"
	CodeInvalidWinner          Code = "CONTEST_INVALID_WINNER"
	CodeTimedOutUseTimeoutPath Code = "CONTEST_TIMED_OUT_USE_TIMEOUT_PATH"
	CodeNotYetTimedOut         Code = "CONTEST_NOT_YET_TIMED_OUT"

	// Dispute errors
	CodeAlreadyVoted        Code = "DISPUTE_ALREADY_VOTED"
	CodeDisputeWindowClosed Code = "DISPUTE_WINDOW_CLOSED"
	CodeNotAParticipant     Code = "DISPUTE_NOT_A_PARTICIPANT"

	// Authorization errors
	CodeNotAuthorized Code = "NOT_AUTHORIZED"

	// Arbiter roster errors
	CodeArbiterPermanent Code = "ARBITER_PERMANENT"
	CodeArbiterExists    Code = "ARBITER_EXISTS"

	// Ledger errors
	CodeInsufficientFunds Code = "LEDGER_INSUFFICIENT_FUNDS"
	CodeLedgerFailure     Code = "LEDGER_FAILURE"

	// Account errors
	CodeInvalidAccount Code = "ACCOUNT_INVALID"

	// Settings errors
	CodeInvalidSetting Code = "SETTINGS_INVALID_VALUE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes for the REST front door.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidStake,
		CodeZeroStake,
		CodeWrongDeposit,
		CodeInvalidWinner,
		CodeInvalidAccount,
		CodeInvalidSetting:
		return http.StatusBadRequest

	// Conflict - state doesn't allow the operation
	case CodeWrongState,
		CodeTimedOutUseTimeoutPath,
		CodeNotYetTimedOut,
		CodeAlreadyVoted,
		CodeDisputeWindowClosed,
		CodeArbiterPermanent,
		CodeArbiterExists:
		return http.StatusConflict

	// Forbidden - caller lacks the required role
	case CodeNotAuthorized,
		CodeNotAParticipant:
		return http.StatusForbidden

	// Payment required - escrow could not cover the movement
	case CodeInsufficientFunds:
		return http.StatusPaymentRequired

	// Not found - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
