package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings must validate: %v", err)
	}
}

func TestSettingsValidation(t *testing.T) {
	valid := DefaultSettings()

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"negative fee", func(s *Settings) { s.FeePercent = -1 }},
		{"fee above 100", func(s *Settings) { s.FeePercent = 101 }},
		{"zero default stake", func(s *Settings) { s.DefaultStake = 0 }},
		{"zero timeout", func(s *Settings) { s.MatchTimeout = 0 }},
		{"negative dispute window", func(s *Settings) { s.DisputeWindow = -time.Hour }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSetting) {
				t.Fatalf("expected ErrInvalidSetting, got %v", err)
			}
		})
	}
}
