package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crucible-games/arena/internal/services/arena/domain"
	"github.com/crucible-games/arena/internal/services/arena/ledger"
	"github.com/crucible-games/arena/internal/services/arena/storage"
)

const tracerName = "github.com/crucible-games/arena/internal/services/arena/engine"

// Config carries the engine's collaborators and initial settings.
type Config struct {
	// Authority is the privileged account permitted to rule, cancel,
	// resolve timeouts, manage the roster, and change settings. It is the
	// permanent first member of the arbiter roster.
	Authority domain.AccountID
	// Settings seed the process-wide parameters; the zero value selects
	// domain.DefaultSettings.
	Settings domain.Settings
	// Ledger is the escrow/payout capability. Required.
	Ledger ledger.Ledger
	// History receives outcome, settlement, and stats rows after commit.
	// Optional; a nil store disables archiving.
	History storage.HistoryStore
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
}

// Engine owns the contest registry, stats, roster, and settings, and
// drives the Ledger. All state-changing operations serialize on one lock.
type Engine struct {
	mu sync.RWMutex

	authority domain.AccountID
	settings  domain.Settings
	registry  *domain.Registry
	stats     *domain.StatsStore
	roster    *domain.Roster

	ledger  ledger.Ledger
	history storage.HistoryStore
	clock   func() time.Time
	tracer  trace.Tracer
}

// New builds an engine with empty state.
func New(cfg Config) (*Engine, error) {
	if cfg.Authority == "" {
		return nil, domain.ErrInvalidAccount
	}
	if cfg.Ledger == nil {
		return nil, errors.New("ledger is required")
	}
	settings := cfg.Settings
	if settings == (domain.Settings{}) {
		settings = domain.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		authority: cfg.Authority,
		settings:  settings,
		registry:  domain.NewRegistry(),
		stats:     domain.NewStatsStore(),
		roster:    domain.NewRoster(cfg.Authority),
		ledger:    cfg.Ledger,
		history:   cfg.History,
		clock:     clock,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// Authority returns the privileged account.
func (e *Engine) Authority() domain.AccountID {
	return e.authority
}

// Settings returns the current process-wide parameters.
func (e *Engine) Settings() domain.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// Create allocates a Waiting contest with zero participants.
func (e *Engine) Create(ctx context.Context, stake int64) (int64, error) {
	_, span := e.tracer.Start(ctx, "engine.Create")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	contest, err := e.registry.Create(stake, e.clock())
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("contest.id", contest.ID))
	return contest.ID, nil
}

// Join seats the caller into a Waiting contest after escrowing the deposit.
// The second join flips the contest to Ready and stamps readyAt.
func (e *Engine) Join(ctx context.Context, id int64, caller domain.AccountID, deposit int64) error {
	ctx, span := e.tracer.Start(ctx, "engine.Join",
		trace.WithAttributes(attribute.Int64("contest.id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.join(ctx, id, caller, deposit)
}

// join is the lock-held seat path shared with the matchmaker.
func (e *Engine) join(ctx context.Context, id int64, caller domain.AccountID, deposit int64) error {
	if caller == "" {
		return domain.ErrInvalidAccount
	}
	contest, ok := e.registry.Get(id)
	if !ok {
		return domain.ErrContestNotFound
	}
	if contest.State != domain.ContestStateWaiting {
		return domain.ErrWrongState
	}
	if deposit != contest.Stake {
		return domain.ErrWrongDeposit
	}

	// Escrow first; a failed hold leaves the contest untouched.
	if _, err := e.ledger.Hold(ctx, id, caller, deposit); err != nil {
		return err
	}

	full := contest.Seat(caller)
	e.registry.RecordMembership(caller, id)
	if full {
		contest.State = domain.ContestStateReady
		readyAt := e.clock()
		contest.ReadyAt = &readyAt
	}
	return nil
}

// Rule records the authority's winner for a Ready contest inside the play
// window, takes the platform fee, and pays out the remainder of the pot.
func (e *Engine) Rule(ctx context.Context, id int64, caller, winner domain.AccountID) error {
	ctx, span := e.tracer.Start(ctx, "engine.Rule",
		trace.WithAttributes(attribute.Int64("contest.id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.authority {
		return domain.ErrNotAuthorized
	}
	contest, ok := e.registry.Get(id)
	if !ok {
		return domain.ErrContestNotFound
	}
	if contest.State != domain.ContestStateReady {
		return domain.ErrWrongState
	}
	now := e.clock()
	if now.After(contest.ReadyAt.Add(e.settings.MatchTimeout)) {
		return domain.ErrTimedOutUseTimeoutPath
	}
	if !contest.HasParticipant(winner) {
		return domain.ErrInvalidWinner
	}

	fee, payout := domain.SplitPot(contest.Stake, e.settings.FeePercent)
	receipts, err := e.ledger.Settle(ctx, id, []ledger.Movement{
		{Destination: e.authority, Amount: fee},
		{Destination: winner, Amount: payout},
	})
	if err != nil {
		return err
	}

	loser := contest.Opponent(winner)
	contest.Fee = fee
	contest.RuledWinner = winner
	contest.State = domain.ContestStateCompleted
	e.registry.RemoveActive(id)
	e.stats.CreditWin(winner)
	e.stats.CreditLoss(loser)

	e.archiveOutcome(ctx, contest, "completed", now)
	e.archiveSettlements(ctx, receipts)
	e.archiveStats(ctx, now, winner, loser)
	return nil
}

// ResolveTimeout closes a Ready contest that outlived the play window,
// refunding 95% of each stake and paying the authority the remainder.
func (e *Engine) ResolveTimeout(ctx context.Context, id int64, caller domain.AccountID) error {
	ctx, span := e.tracer.Start(ctx, "engine.ResolveTimeout",
		trace.WithAttributes(attribute.Int64("contest.id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.authority {
		return domain.ErrNotAuthorized
	}
	contest, ok := e.registry.Get(id)
	if !ok {
		return domain.ErrContestNotFound
	}
	if contest.State != domain.ContestStateReady {
		return domain.ErrWrongState
	}
	now := e.clock()
	if !now.After(contest.ReadyAt.Add(e.settings.MatchTimeout)) {
		return domain.ErrNotYetTimedOut
	}

	refund, share := domain.SplitTimeoutRefund(contest.Stake)
	receipts, err := e.ledger.Settle(ctx, id, []ledger.Movement{
		{Destination: contest.ParticipantA, Amount: refund},
		{Destination: e.authority, Amount: share},
		{Destination: contest.ParticipantB, Amount: refund},
		{Destination: e.authority, Amount: share},
	})
	if err != nil {
		return err
	}

	contest.State = domain.ContestStateTimedOut
	e.registry.RemoveActive(id)
	e.stats.CreditTimeout(contest.ParticipantA)
	e.stats.CreditTimeout(contest.ParticipantB)

	e.archiveOutcome(ctx, contest, "timed_out", now)
	e.archiveSettlements(ctx, receipts)
	e.archiveStats(ctx, now, contest.ParticipantA, contest.ParticipantB)
	return nil
}

// Cancel closes a Waiting contest without play, refunding every filled
// seat at full stake with no fee.
func (e *Engine) Cancel(ctx context.Context, id int64, caller domain.AccountID) error {
	ctx, span := e.tracer.Start(ctx, "engine.Cancel",
		trace.WithAttributes(attribute.Int64("contest.id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.authority {
		return domain.ErrNotAuthorized
	}
	contest, ok := e.registry.Get(id)
	if !ok {
		return domain.ErrContestNotFound
	}
	if contest.State != domain.ContestStateWaiting {
		return domain.ErrWrongState
	}

	var refunds []ledger.Movement
	for _, seat := range []domain.AccountID{contest.ParticipantA, contest.ParticipantB} {
		if seat != "" {
			refunds = append(refunds, ledger.Movement{Destination: seat, Amount: contest.Stake})
		}
	}
	receipts, err := e.ledger.Settle(ctx, id, refunds)
	if err != nil {
		return err
	}

	contest.State = domain.ContestStateCompleted
	e.registry.RemoveActive(id)

	now := e.clock()
	e.archiveOutcome(ctx, contest, "cancelled", now)
	e.archiveSettlements(ctx, receipts)
	return nil
}

func (e *Engine) archiveOutcome(ctx context.Context, contest *domain.Contest, outcome string, resolvedAt time.Time) {
	if e.history == nil {
		return
	}
	record := storage.OutcomeRecord{
		ContestID:    contest.ID,
		ParticipantA: string(contest.ParticipantA),
		ParticipantB: string(contest.ParticipantB),
		Stake:        contest.Stake,
		Fee:          contest.Fee,
		Outcome:      outcome,
		RuledWinner:  string(contest.RuledWinner),
		Disputed:     contest.DisputeInitiatedAt != nil,
		CreatedAt:    contest.CreatedAt,
		ResolvedAt:   resolvedAt,
	}
	if err := e.history.RecordOutcome(ctx, record); err != nil {
		log.Printf("arena engine: archive outcome for contest %d: %v", contest.ID, err)
	}
}

func (e *Engine) archiveSettlements(ctx context.Context, receipts []ledger.Receipt) {
	if e.history == nil {
		return
	}
	for _, receipt := range receipts {
		record := storage.SettlementRecord{
			ReceiptID:   receipt.ID,
			ContestID:   receipt.ContestID,
			Destination: string(receipt.Account),
			Amount:      receipt.Amount,
			Kind:        string(receipt.Kind),
			SettledAt:   receipt.At,
		}
		if err := e.history.RecordSettlement(ctx, record); err != nil {
			log.Printf("arena engine: archive settlement %s: %v", receipt.ID, err)
		}
	}
}

func (e *Engine) archiveStats(ctx context.Context, now time.Time, accounts ...domain.AccountID) {
	if e.history == nil {
		return
	}
	for _, account := range accounts {
		stats := e.stats.Get(account)
		record := storage.PlayerStatsRecord{
			Account:           string(account),
			Wins:              stats.Wins,
			Losses:            stats.Losses,
			Played:            stats.Played,
			Timeouts:          stats.Timeouts,
			DisputesInitiated: stats.DisputesInitiated,
			UpdatedAt:         now,
		}
		if err := e.history.UpsertPlayerStats(ctx, record); err != nil {
			log.Printf("arena engine: archive stats for %s: %v", account, err)
		}
	}
}
