// Package app wires the arena runtime: durable ledger, history store,
// engine, and the HTTP front door.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/crucible-games/arena/internal/services/arena/api/rest"
	"github.com/crucible-games/arena/internal/services/arena/domain"
	"github.com/crucible-games/arena/internal/services/arena/engine"
	"github.com/crucible-games/arena/internal/services/arena/ledger/boltledger"
	"github.com/crucible-games/arena/internal/services/arena/storage"
	storagesqlite "github.com/crucible-games/arena/internal/services/arena/storage/sqlite"
)

// Options configure the arena runtime.
type Options struct {
	Port      int
	DataDir   string
	Authority domain.AccountID
	Settings  domain.Settings
}

// Server hosts the arena service.
type Server struct {
	rest    *rest.Server
	funds   *boltledger.Ledger
	history storage.HistoryStore
}

// New opens the durable stores and builds a configured server.
func New(opts Options) (*Server, error) {
	if opts.DataDir == "" {
		opts.DataDir = filepath.Join(os.TempDir(), "arena")
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	funds, err := boltledger.Open(filepath.Join(opts.DataDir, "ledger.db"))
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	history, err := storagesqlite.Open(filepath.Join(opts.DataDir, "history.db"))
	if err != nil {
		_ = funds.Close()
		return nil, fmt.Errorf("open history store: %w", err)
	}

	eng, err := engine.New(engine.Config{
		Authority: opts.Authority,
		Settings:  opts.Settings,
		Ledger:    funds,
		History:   history,
	})
	if err != nil {
		_ = funds.Close()
		_ = history.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	return &Server{
		rest:    rest.NewServer(eng, history, funds, opts.Port),
		funds:   funds,
		history: history,
	}, nil
}

// Run builds a server from the options and serves until the context ends.
func Run(ctx context.Context, opts Options) error {
	server, err := New(opts)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve blocks until the listener fails or the context ends, then drains
// in-flight requests and closes the stores.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStores()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.rest.Start()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.rest.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-serveErr
		return nil
	}
}

func (s *Server) closeStores() {
	if err := s.funds.Close(); err != nil {
		log.Printf("close ledger: %v", err)
	}
	if err := s.history.Close(); err != nil {
		log.Printf("close history store: %v", err)
	}
}
