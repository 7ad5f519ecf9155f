// Package config collects the settings shared by every subcommand. Values
// come from defaults, then a .env file and the environment, then flags.
package config

import (
	"flag"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	EnginePath    string
	EngineThreads int
	EngineHashMB  int

	TimeBudget       time.Duration // per evaluated position
	BlunderThreshold int           // centipawns
	MaxLoss          int           // centipawns, per move

	PGNPath      string // dataset source
	DatasetPath  string
	FeaturesPath string
	MaxGames     int

	CacheDir string // badger evaluation cache, empty disables it
	Addr     string

	LogLevel string
	LogFile  string
	Profile  bool
}

// DefaultEnginePath is the bundled stockfish build for the host OS.
func DefaultEnginePath() string {
	switch runtime.GOOS {
	case "windows":
		return "../stockfish/stockfish-windows-x86-64-avx2.exe"
	case "linux":
		return "../stockfish/stockfish-ubuntu-x86-64-avx512"
	default:
		return "stockfish"
	}
}

func Default() Config {
	return Config{
		EnginePath:       DefaultEnginePath(),
		EngineThreads:    1,
		EngineHashMB:     16,
		TimeBudget:       10 * time.Millisecond,
		BlunderThreshold: 200,
		MaxLoss:          300,
		DatasetPath:      "games_dataset.csv",
		FeaturesPath:     "games_features.csv",
		MaxGames:         2000,
		Addr:             ":8080",
		LogLevel:         "info",
	}
}

// Load reads .env (if present) and the CHESS_* environment variables on top
// of Default.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(Default(), os.Getenv)
}

// FromEnv overrides cfg with the variables getenv knows about. Malformed
// numbers keep the previous value.
func FromEnv(cfg Config, getenv func(string) string) Config {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if n, err := strconv.Atoi(strings.TrimSpace(getenv(key))); err == nil {
			*dst = n
		}
	}

	str("CHESS_ENGINE_PATH", &cfg.EnginePath)
	num("CHESS_ENGINE_THREADS", &cfg.EngineThreads)
	num("CHESS_ENGINE_HASH_MB", &cfg.EngineHashMB)
	if d, err := time.ParseDuration(strings.TrimSpace(getenv("CHESS_TIME_BUDGET"))); err == nil {
		cfg.TimeBudget = d
	}
	num("CHESS_BLUNDER_THRESHOLD", &cfg.BlunderThreshold)
	num("CHESS_MAX_LOSS", &cfg.MaxLoss)
	str("CHESS_PGN_PATH", &cfg.PGNPath)
	str("CHESS_DATASET_PATH", &cfg.DatasetPath)
	str("CHESS_FEATURES_PATH", &cfg.FeaturesPath)
	num("CHESS_MAX_GAMES", &cfg.MaxGames)
	str("CHESS_CACHE_DIR", &cfg.CacheDir)
	str("CHESS_ADDR", &cfg.Addr)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FILE", &cfg.LogFile)
	switch strings.ToLower(strings.TrimSpace(getenv("CHESS_PROFILE"))) {
	case "1", "true", "yes", "on":
		cfg.Profile = true
	}
	return cfg
}

// RegisterEngineFlags binds the engine settings to fs.
func (c *Config) RegisterEngineFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.EnginePath, "engine", c.EnginePath, "UCI engine binary")
	fs.IntVar(&c.EngineThreads, "threads", c.EngineThreads, "engine Threads option")
	fs.IntVar(&c.EngineHashMB, "hash", c.EngineHashMB, "engine Hash option in MB")
	fs.DurationVar(&c.TimeBudget, "movetime", c.TimeBudget, "search time per position")
	fs.IntVar(&c.BlunderThreshold, "blunder", c.BlunderThreshold, "evaluation drop counted as a blunder, in centipawns")
	fs.IntVar(&c.MaxLoss, "max-loss", c.MaxLoss, "per move centipawn loss cap")
	fs.StringVar(&c.CacheDir, "cache", c.CacheDir, "evaluation cache directory, empty to disable")
}

// RegisterCommonFlags binds logging and profiling to fs.
func (c *Config) RegisterCommonFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "append logs to this file instead of stderr")
	fs.BoolVar(&c.Profile, "profile", c.Profile, "write a CPU profile to the working directory")
}
