package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crucible-games/arena/internal/services/arena/domain"
	"github.com/crucible-games/arena/internal/services/arena/storage"
)

type contestView struct {
	ID           int64      `json:"id"`
	State        string     `json:"state"`
	Stake        int64      `json:"stake"`
	Fee          int64      `json:"fee,omitempty"`
	ParticipantA string     `json:"participant_a,omitempty"`
	ParticipantB string     `json:"participant_b,omitempty"`
	RuledWinner  string     `json:"ruled_winner,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ReadyAt      *time.Time `json:"ready_at,omitempty"`
	DisputedAt   *time.Time `json:"disputed_at,omitempty"`
}

func toContestView(c domain.Contest) contestView {
	return contestView{
		ID:           c.ID,
		State:        c.State.String(),
		Stake:        c.Stake,
		Fee:          c.Fee,
		ParticipantA: string(c.ParticipantA),
		ParticipantB: string(c.ParticipantB),
		RuledWinner:  string(c.RuledWinner),
		CreatedAt:    c.CreatedAt,
		ReadyAt:      c.ReadyAt,
		DisputedAt:   c.DisputeInitiatedAt,
	}
}

func contestID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid contest id")
	}
	return id, nil
}

type createContestRequest struct {
	Stake int64 `json:"stake"`
}

func (s *Server) createContest(c echo.Context) error {
	var req createContestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Stake == 0 {
		req.Stake = s.engine.Settings().DefaultStake
	}
	id, err := s.engine.Create(c.Request().Context(), req.Stake)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

type matchRequest struct {
	Account string `json:"account"`
	Stake   int64  `json:"stake"`
}

func (s *Server) findOrJoin(c echo.Context) error {
	var req matchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Stake == 0 {
		req.Stake = s.engine.Settings().DefaultStake
	}
	id, err := s.engine.FindOrJoin(c.Request().Context(), domain.AccountID(req.Account), req.Stake)
	if err != nil {
		return httpError(err)
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

type joinRequest struct {
	Account string `json:"account"`
	Deposit int64  `json:"deposit"`
}

func (s *Server) joinContest(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	var req joinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.engine.Join(c.Request().Context(), id, domain.AccountID(req.Account), req.Deposit); err != nil {
		return httpError(err)
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

type ruleRequest struct {
	Caller string `json:"caller"`
	Winner string `json:"winner"`
}

func (s *Server) ruleContest(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	var req ruleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.engine.Rule(c.Request().Context(), id, domain.AccountID(req.Caller), domain.AccountID(req.Winner)); err != nil {
		return httpError(err)
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

type callerRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) resolveTimeout(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	var req callerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.engine.ResolveTimeout(c.Request().Context(), id, domain.AccountID(req.Caller)); err != nil {
		return httpError(err)
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

func (s *Server) cancelContest(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	var req callerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.engine.Cancel(c.Request().Context(), id, domain.AccountID(req.Caller)); err != nil {
		return httpError(err)
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

func (s *Server) getContest(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

type contestClockView struct {
	TimedOut  bool  `json:"timed_out"`
	Remaining int64 `json:"remaining_seconds"`
}

func (s *Server) contestClock(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	info, err := s.engine.ContestClock(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, contestClockView{
		TimedOut:  info.TimedOut,
		Remaining: int64(info.Remaining.Seconds()),
	})
}

type listView struct {
	Contests []contestView `json:"contests"`
	Total    int           `json:"total"`
}

func (s *Server) listActive(c echo.Context) error {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	contests, total := s.engine.ListActive(offset, limit)
	view := listView{Contests: make([]contestView, 0, len(contests)), Total: total}
	for _, contest := range contests {
		view.Contests = append(view.Contests, toContestView(contest))
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) listByParticipant(c echo.Context) error {
	account := domain.AccountID(c.Param("account"))
	contests := s.engine.ListByParticipant(account)
	view := listView{Contests: make([]contestView, 0, len(contests)), Total: len(contests)}
	for _, contest := range contests {
		view.Contests = append(view.Contests, toContestView(contest))
	}
	return c.JSON(http.StatusOK, view)
}

type statsView struct {
	Account           string `json:"account"`
	Wins              int64  `json:"wins"`
	Losses            int64  `json:"losses"`
	Played            int64  `json:"played"`
	Timeouts          int64  `json:"timeouts"`
	DisputesInitiated int64  `json:"disputes_initiated"`
}

func (s *Server) playerStats(c echo.Context) error {
	account := c.Param("account")
	stats := s.engine.PlayerStats(domain.AccountID(account))
	return c.JSON(http.StatusOK, statsView{
		Account:           account,
		Wins:              stats.Wins,
		Losses:            stats.Losses,
		Played:            stats.Played,
		Timeouts:          stats.Timeouts,
		DisputesInitiated: stats.DisputesInitiated,
	})
}

func (s *Server) initiateDispute(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	var req callerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.engine.InitiateDispute(c.Request().Context(), id, domain.AccountID(req.Caller)); err != nil {
		return httpError(err)
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

type voteRequest struct {
	Arbiter string `json:"arbiter"`
	Winner  string `json:"winner"`
	Reason  string `json:"reason"`
}

func (s *Server) castVote(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.engine.Vote(c.Request().Context(), id, domain.AccountID(req.Arbiter), domain.AccountID(req.Winner), req.Reason); err != nil {
		return httpError(err)
	}
	contest, err := s.engine.GetContest(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toContestView(contest))
}

type disputeInfoView struct {
	ContestID   int64      `json:"contest_id"`
	State       string     `json:"state"`
	Initiator   string     `json:"initiator"`
	InitiatedAt *time.Time `json:"initiated_at"`
	RuledWinner string     `json:"ruled_winner"`
	TallyA      int        `json:"tally_a"`
	TallyB      int        `json:"tally_b"`
	VotesCast   int        `json:"votes_cast"`
	RosterSize  int        `json:"roster_size"`
}

func (s *Server) getDisputeInfo(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	info, err := s.engine.GetDisputeInfo(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, disputeInfoView{
		ContestID:   info.ContestID,
		State:       info.State.String(),
		Initiator:   string(info.Initiator),
		InitiatedAt: info.InitiatedAt,
		RuledWinner: string(info.RuledWinner),
		TallyA:      info.TallyA,
		TallyB:      info.TallyB,
		VotesCast:   info.VotesCast,
		RosterSize:  info.RosterSize,
	})
}

type voteView struct {
	Arbiter string `json:"arbiter"`
	Winner  string `json:"winner"`
	Reason  string `json:"reason,omitempty"`
}

func (s *Server) getVoteDetails(c echo.Context) error {
	id, err := contestID(c)
	if err != nil {
		return err
	}
	votes, err := s.engine.GetVoteDetails(id)
	if err != nil {
		return httpError(err)
	}
	views := make([]voteView, 0, len(votes))
	for _, v := range votes {
		views = append(views, voteView{
			Arbiter: string(v.Arbiter),
			Winner:  string(v.Winner),
			Reason:  v.Reason,
		})
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) listArbiters(c echo.Context) error {
	roster := s.engine.Arbiters()
	accounts := make([]string, 0, len(roster))
	for _, member := range roster {
		accounts = append(accounts, string(member))
	}
	return c.JSON(http.StatusOK, accounts)
}

type arbiterRequest struct {
	Caller  string `json:"caller"`
	Arbiter string `json:"arbiter"`
}

func (s *Server) addArbiter(c echo.Context) error {
	var req arbiterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.engine.AddArbiter(c.Request().Context(), domain.AccountID(req.Caller), domain.AccountID(req.Arbiter)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) removeArbiter(c echo.Context) error {
	var req callerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	arbiter := domain.AccountID(c.Param("account"))
	if err := s.engine.RemoveArbiter(c.Request().Context(), domain.AccountID(req.Caller), arbiter); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type settingsView struct {
	FeePercent           int64 `json:"fee_percent"`
	DefaultStake         int64 `json:"default_stake"`
	MatchTimeoutSeconds  int64 `json:"match_timeout_seconds"`
	DisputeWindowSeconds int64 `json:"dispute_window_seconds"`
}

func (s *Server) getSettings(c echo.Context) error {
	settings := s.engine.Settings()
	return c.JSON(http.StatusOK, settingsView{
		FeePercent:           settings.FeePercent,
		DefaultStake:         settings.DefaultStake,
		MatchTimeoutSeconds:  int64(settings.MatchTimeout.Seconds()),
		DisputeWindowSeconds: int64(settings.DisputeWindow.Seconds()),
	})
}

type updateSettingsRequest struct {
	Caller               string `json:"caller"`
	FeePercent           int64  `json:"fee_percent"`
	DefaultStake         int64  `json:"default_stake"`
	MatchTimeoutSeconds  int64  `json:"match_timeout_seconds"`
	DisputeWindowSeconds int64  `json:"dispute_window_seconds"`
}

func (s *Server) updateSettings(c echo.Context) error {
	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	settings := domain.Settings{
		FeePercent:    req.FeePercent,
		DefaultStake:  req.DefaultStake,
		MatchTimeout:  time.Duration(req.MatchTimeoutSeconds) * time.Second,
		DisputeWindow: time.Duration(req.DisputeWindowSeconds) * time.Second,
	}
	if err := s.engine.UpdateSettings(c.Request().Context(), domain.AccountID(req.Caller), settings); err != nil {
		return httpError(err)
	}
	return s.getSettings(c)
}

func (s *Server) listOutcomes(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history not configured")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}
	outcomes, err := s.history.ListOutcomes(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, outcomes)
}

func (s *Server) listSettlements(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history not configured")
	}
	id, err := contestID(c)
	if err != nil {
		return err
	}
	settlements, err := s.history.ListSettlements(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, settlements)
}

func (s *Server) historicalStats(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history not configured")
	}
	record, err := s.history.GetPlayerStats(c.Request().Context(), c.Param("account"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no stats recorded")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record)
}
