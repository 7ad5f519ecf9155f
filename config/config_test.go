package config

import (
	"flag"
	"testing"
	"time"
)

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"CHESS_ENGINE_PATH":       "/usr/games/stockfish",
		"CHESS_TIME_BUDGET":       "25ms",
		"CHESS_BLUNDER_THRESHOLD": "150",
		"CHESS_MAX_GAMES":         "not a number",
		"CHESS_PGN_PATH":          "lichess.pgn.zst",
		"CHESS_PROFILE":           "yes",
	}
	cfg := FromEnv(Default(), func(k string) string { return env[k] })

	if cfg.EnginePath != "/usr/games/stockfish" {
		t.Errorf("engine path %q", cfg.EnginePath)
	}
	if cfg.TimeBudget != 25*time.Millisecond {
		t.Errorf("time budget %v", cfg.TimeBudget)
	}
	if cfg.BlunderThreshold != 150 {
		t.Errorf("blunder threshold %d", cfg.BlunderThreshold)
	}
	if cfg.MaxGames != 2000 {
		t.Errorf("malformed max games should keep the default, got %d", cfg.MaxGames)
	}
	if cfg.PGNPath != "lichess.pgn.zst" || !cfg.Profile {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MaxLoss != 300 {
		t.Errorf("max loss %d", cfg.MaxLoss)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	cfg := FromEnv(Default(), func(k string) string {
		if k == "CHESS_MAX_LOSS" {
			return "500"
		}
		return ""
	})

	fs := flag.NewFlagSet("features", flag.ContinueOnError)
	cfg.RegisterEngineFlags(fs)
	cfg.RegisterCommonFlags(fs)
	if err := fs.Parse([]string{"-movetime", "50ms", "-log-level", "debug"}); err != nil {
		t.Fatal(err)
	}

	if cfg.TimeBudget != 50*time.Millisecond || cfg.LogLevel != "debug" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.MaxLoss != 500 {
		t.Errorf("env value lost, max loss %d", cfg.MaxLoss)
	}
}
