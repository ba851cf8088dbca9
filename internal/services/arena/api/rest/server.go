// Package rest exposes the arena engine over HTTP. Every handler maps a
// single engine operation; error codes translate to HTTP statuses through
// the platform error taxonomy.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "github.com/crucible-games/arena/internal/platform/errors"
	"github.com/crucible-games/arena/internal/services/arena/engine"
	"github.com/crucible-games/arena/internal/services/arena/storage"
)

// Server wraps an echo instance with the arena routes registered.
type Server struct {
	echo    *echo.Echo
	engine  *engine.Engine
	history storage.HistoryStore
	bank    Bank
	port    int
}

// NewServer builds the HTTP front door. History and bank are optional;
// their routes are registered only when a backend is configured.
func NewServer(eng *engine.Engine, history storage.HistoryStore, bank Bank, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${id} ${remote_ip} ${status} ${method} ${path} ${error} ${latency_human}\n",
	}))
	e.Use(middleware.Recover())

	s := &Server{echo: e, engine: eng, history: history, bank: bank, port: port}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	contests := api.Group("/contests")
	contests.POST("", s.createContest)
	contests.POST("/match", s.findOrJoin)
	contests.GET("", s.listActive)
	contests.GET("/:id", s.getContest)
	contests.POST("/:id/join", s.joinContest)
	contests.POST("/:id/rule", s.ruleContest)
	contests.POST("/:id/timeout", s.resolveTimeout)
	contests.POST("/:id/cancel", s.cancelContest)
	contests.GET("/:id/clock", s.contestClock)

	contests.POST("/:id/dispute", s.initiateDispute)
	contests.POST("/:id/votes", s.castVote)
	contests.GET("/:id/dispute", s.getDisputeInfo)
	contests.GET("/:id/votes", s.getVoteDetails)

	players := api.Group("/players")
	players.GET("/:account/contests", s.listByParticipant)
	players.GET("/:account/stats", s.playerStats)

	arbiters := api.Group("/arbiters")
	arbiters.GET("", s.listArbiters)
	arbiters.POST("", s.addArbiter)
	arbiters.DELETE("/:account", s.removeArbiter)

	settings := api.Group("/settings")
	settings.GET("", s.getSettings)
	settings.PUT("", s.updateSettings)

	history := api.Group("/history")
	history.GET("/outcomes", s.listOutcomes)
	history.GET("/contests/:id/settlements", s.listSettlements)
	history.GET("/players/:account/stats", s.historicalStats)

	if s.bank != nil {
		s.bankRoutes(api)
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Handler exposes the underlying mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// httpError converts a domain error into an echo HTTP error carrying the
// structured code alongside the message.
func httpError(err error) error {
	code := apperrors.GetCode(err)
	return echo.NewHTTPError(code.HTTPStatus(), map[string]string{
		"code":    string(code),
		"message": err.Error(),
	})
}
