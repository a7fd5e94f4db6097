package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Log: Logger{Level: "info", Encoding: "console"},
		MetaSync: MetaSync{
			BaseURL:             "https://metasyc.p.rapidapi.com",
			RapidAPIKey:         "test-key",
			RapidAPIHost:        "metasyc.p.rapidapi.com",
			Timeout:             15 * time.Second,
			MaxRequestPerMinute: 60,
		},
		Watch: Watch{
			Interval:       5 * time.Minute,
			FetchTimeout:   30 * time.Second,
			MaxConcurrency: 3,
		},
		Signal: SignalConfig{StrongThreshold: 1.0, WeakThreshold: -1.0},
		Sectors: []SectorConfig{
			{Name: "Financials", Symbol: "XLF.NYSE", Category: "growth"},
			{Name: "Utilities", Symbol: "XLU.NYSE", Category: "defensive"},
		},
		Benchmark: Benchmark{Name: "S&P 500", Symbol: "US500"},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name: "missing api key",
			mutate: func(cfg *Config) {
				cfg.MetaSync.RapidAPIKey = ""
			},
			wantErr: "invalid configuration",
		},
		{
			name: "empty sector list",
			mutate: func(cfg *Config) {
				cfg.Sectors = nil
			},
			wantErr: "invalid configuration",
		},
		{
			name: "invalid category",
			mutate: func(cfg *Config) {
				cfg.Sectors[0].Category = "speculative"
			},
			wantErr: "invalid configuration",
		},
		{
			name: "duplicate sector symbol",
			mutate: func(cfg *Config) {
				cfg.Sectors[1].Symbol = cfg.Sectors[0].Symbol
			},
			wantErr: "duplicate sector symbol",
		},
		{
			name: "benchmark listed as sector",
			mutate: func(cfg *Config) {
				cfg.Sectors[1].Symbol = "US500"
			},
			wantErr: "is also a sector",
		},
		{
			name: "inverted thresholds",
			mutate: func(cfg *Config) {
				cfg.Signal.StrongThreshold = -2.0
			},
			wantErr: "must be above weak threshold",
		},
		{
			name: "no interval and no schedule",
			mutate: func(cfg *Config) {
				cfg.Watch.Interval = 0
				cfg.Watch.Schedule = ""
			},
			wantErr: "watch interval must be positive",
		},
		{
			name: "malformed schedule",
			mutate: func(cfg *Config) {
				cfg.Watch.Schedule = "not a cron expression"
			},
			wantErr: "bad watch schedule",
		},
		{
			name: "schedule without interval is allowed",
			mutate: func(cfg *Config) {
				cfg.Watch.Interval = 0
				cfg.Watch.Schedule = "*/5 9-16 * * 1-5"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
