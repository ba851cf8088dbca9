package domain

import apperrors "github.com/crucible-games/arena/internal/platform/errors"

var (
	// ErrInvalidStake indicates a non-positive stake on contest creation.
	ErrInvalidStake = apperrors.New(apperrors.CodeInvalidStake, "stake must be positive")
	// ErrZeroStake indicates a non-positive stake offered to the matchmaker.
	ErrZeroStake = apperrors.New(apperrors.CodeZeroStake, "offered stake must be positive")
	// ErrWrongState indicates an operation invalid for the contest's current state.
	ErrWrongState = apperrors.New(apperrors.CodeWrongState, "operation not allowed in current contest state")
	// ErrWrongDeposit indicates a deposit that does not match the contest stake.
	ErrWrongDeposit = apperrors.New(apperrors.CodeWrongDeposit, "deposit must equal the contest stake")
	// ErrInvalidWinner indicates a winner that is not a contest participant.
	ErrInvalidWinner = apperrors.New(apperrors.CodeInvalidWinner, "winner must be a contest participant")
	// ErrNotAuthorized indicates the caller lacks the required role.
	ErrNotAuthorized = apperrors.New(apperrors.CodeNotAuthorized, "caller is not authorized")
	// ErrTimedOutUseTimeoutPath indicates a ruling attempted after the timeout window.
	ErrTimedOutUseTimeoutPath = apperrors.New(apperrors.CodeTimedOutUseTimeoutPath, "contest timed out; resolve via the timeout path")
	// ErrNotYetTimedOut indicates a timeout resolution attempted inside the play window.
	ErrNotYetTimedOut = apperrors.New(apperrors.CodeNotYetTimedOut, "contest has not timed out yet")
	// ErrAlreadyVoted indicates an arbiter casting a second vote on one contest.
	ErrAlreadyVoted = apperrors.New(apperrors.CodeAlreadyVoted, "arbiter has already voted on this contest")
	// ErrDisputeWindowClosed indicates a dispute opened after the window expired.
	ErrDisputeWindowClosed = apperrors.New(apperrors.CodeDisputeWindowClosed, "dispute window has closed")
	// ErrNotAParticipant indicates a dispute opened by a non-participant.
	ErrNotAParticipant = apperrors.New(apperrors.CodeNotAParticipant, "caller is not a contest participant")
	// ErrContestNotFound indicates an unknown contest id.
	ErrContestNotFound = apperrors.New(apperrors.CodeNotFound, "contest not found")
	// ErrArbiterPermanent indicates an attempt to remove the authority from the roster.
	ErrArbiterPermanent = apperrors.New(apperrors.CodeArbiterPermanent, "the authority is a permanent roster member")
	// ErrArbiterExists indicates an arbiter added twice.
	ErrArbiterExists = apperrors.New(apperrors.CodeArbiterExists, "arbiter is already on the roster")
	// ErrArbiterNotFound indicates a roster removal for an unknown arbiter.
	ErrArbiterNotFound = apperrors.New(apperrors.CodeNotFound, "arbiter is not on the roster")
	// ErrInvalidAccount indicates an empty or malformed account identifier.
	ErrInvalidAccount = apperrors.New(apperrors.CodeInvalidAccount, "account id is required")
	// ErrInvalidSetting indicates a settings value outside its allowed range.
	ErrInvalidSetting = apperrors.New(apperrors.CodeInvalidSetting, "setting value is out of range")
)
