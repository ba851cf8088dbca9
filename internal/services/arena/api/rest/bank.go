package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crucible-games/arena/internal/services/arena/domain"
)

// Bank is the account-funding surface the durable ledger exposes on top of
// the engine's hold/release capability. Deposits credit player balances;
// top-ups inject platform float into the escrow pool for dispute
// corrections.
type Bank interface {
	Deposit(ctx context.Context, account domain.AccountID, amount int64) error
	TopUp(ctx context.Context, amount int64) error
	Balance(ctx context.Context, account domain.AccountID) (int64, error)
	PoolBalance(ctx context.Context) (int64, error)
}

func (s *Server) bankRoutes(api *echo.Group) {
	accounts := api.Group("/accounts")
	accounts.POST("/:account/deposits", s.deposit)
	accounts.GET("/:account/balance", s.accountBalance)

	pool := api.Group("/pool")
	pool.GET("", s.poolBalance)
	pool.POST("/topups", s.topUp)
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) deposit(c echo.Context) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}
	account := domain.AccountID(c.Param("account"))
	if err := s.bank.Deposit(c.Request().Context(), account, req.Amount); err != nil {
		return httpError(err)
	}
	return s.accountBalance(c)
}

type balanceView struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

func (s *Server) accountBalance(c echo.Context) error {
	account := domain.AccountID(c.Param("account"))
	balance, err := s.bank.Balance(c.Request().Context(), account)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, balanceView{Account: string(account), Balance: balance})
}

type topUpRequest struct {
	Caller string `json:"caller"`
	Amount int64  `json:"amount"`
}

func (s *Server) topUp(c echo.Context) error {
	var req topUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if domain.AccountID(req.Caller) != s.engine.Authority() {
		return httpError(domain.ErrNotAuthorized)
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}
	if err := s.bank.TopUp(c.Request().Context(), req.Amount); err != nil {
		return httpError(err)
	}
	return s.poolBalance(c)
}

type poolView struct {
	Balance int64 `json:"balance"`
}

func (s *Server) poolBalance(c echo.Context) error {
	balance, err := s.bank.PoolBalance(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, poolView{Balance: balance})
}
