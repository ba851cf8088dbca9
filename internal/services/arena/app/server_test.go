package app

import (
	"context"
	"testing"
	"time"

	"github.com/crucible-games/arena/internal/services/arena/domain"
)

func TestNewOpensStores(t *testing.T) {
	server, err := New(Options{
		Port:      0,
		DataDir:   t.TempDir(),
		Authority: "authority",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	server.closeStores()
}

func TestNewRejectsMissingAuthority(t *testing.T) {
	if _, err := New(Options{Port: 0, DataDir: t.TempDir()}); err == nil {
		t.Fatal("expected error without an authority account")
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	_, err := New(Options{
		Port:      0,
		DataDir:   t.TempDir(),
		Authority: "authority",
		Settings: domain.Settings{
			FeePercent:    150,
			DefaultStake:  100,
			MatchTimeout:  time.Minute,
			DisputeWindow: time.Minute,
		},
	})
	if err == nil {
		t.Fatal("expected error for out-of-range fee")
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	server, err := New(Options{
		Port:      0,
		DataDir:   t.TempDir(),
		Authority: "authority",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}
