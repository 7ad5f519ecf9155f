package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jacokyle01/rating-features/analysis"
	"github.com/jacokyle01/rating-features/config"
	"github.com/jacokyle01/rating-features/dataset"
	"github.com/jacokyle01/rating-features/engine"
	"github.com/jacokyle01/rating-features/logger"
	"github.com/jacokyle01/rating-features/primaryserver"
	"github.com/jacokyle01/rating-features/storage"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  rating-features dataset  [-pgn path|url] [-o games_dataset.csv] [-max 2000]  - Build the game dataset")
	fmt.Println("  rating-features features [-i games_dataset.csv] [-o games_features.csv]    - Add engine features")
	fmt.Println("  rating-features serve    [-addr :8080]                                     - Run the analysis server")
	fmt.Println("  rating-features classify <time control>...                                  - Print time classes")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Load()
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "dataset":
		err = runDataset(ctx, cfg, args)
	case "features":
		err = runFeatures(ctx, cfg, args)
	case "serve":
		err = runServe(ctx, cfg, args)
	case "classify":
		err = runClassify(args)
	default:
		fmt.Println("Unknown command:", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup parses fs and returns the logger and a cleanup for the log file and
// profiler.
func setup(fs *flag.FlagSet, cfg *config.Config, args []string) (zerolog.Logger, func(), error) {
	cfg.RegisterCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return zerolog.Nop(), nil, err
	}

	log, closer, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var prof interface{ Stop() }
	if cfg.Profile {
		prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	}
	return log, func() {
		if prof != nil {
			prof.Stop()
		}
		closer.Close()
	}, nil
}

func runDataset(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("dataset", flag.ExitOnError)
	fs.StringVar(&cfg.PGNPath, "pgn", cfg.PGNPath, "PGN source: .pgn, .bz2, .zst or http(s) URL")
	fs.StringVar(&cfg.DatasetPath, "o", cfg.DatasetPath, "dataset csv output")
	fs.IntVar(&cfg.MaxGames, "max", cfg.MaxGames, "maximum number of games, negative for all")
	log, cleanup, err := setup(fs, &cfg, args)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := dataset.NewBuilder(dataset.Config{
		Source:   cfg.PGNPath,
		Output:   cfg.DatasetPath,
		MaxGames: cfg.MaxGames,
		Logger:   log,
	}).Build(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Dataset saved: %v (%d games)\n", cfg.DatasetPath, n)
	return nil
}

// features bundles the analysis pipeline with the resources it holds.
type features struct {
	pipeline analysis.Pipeline
	close    func()
}

// newFeatures starts the shared engine and, when configured, opens the
// evaluation cache used by it and by every engine the ACPL analyzer launches.
func newFeatures(cfg config.Config, log zerolog.Logger) (*features, error) {
	engCfg := engine.Config{
		Path:    cfg.EnginePath,
		Threads: cfg.EngineThreads,
		HashMB:  cfg.EngineHashMB,
		Logger:  log,
	}
	launch := engine.PathLauncher(engCfg)

	eng, err := engine.NewUCIEngine(engCfg)
	if err != nil {
		return nil, err
	}
	var (
		ev      engine.Evaluator = eng
		closers []io.Closer
	)
	closers = append(closers, eng)

	if cfg.CacheDir != "" {
		store, err := storage.Open(cfg.CacheDir)
		if err != nil {
			eng.Close()
			return nil, fmt.Errorf("open cache: %w", err)
		}
		if n, err := store.CountEvaluations(); err == nil {
			log.Info().Str("dir", cfg.CacheDir).Int("evaluations", n).Msg("evaluation cache opened")
		}
		ev = engine.NewCached(eng, store, log)
		launch = engine.CachedLauncher(launch, store, log)
		closers = append(closers, store)
	}

	return &features{
		pipeline: analysis.Pipeline{
			MoveQuality: analysis.NewMoveQualityAnalyzer(analysis.MoveQualityConfig{
				TimeBudget:       cfg.TimeBudget,
				BlunderThreshold: cfg.BlunderThreshold,
				Logger:           log,
			}),
			Evaluator: ev,
			ACPL: analysis.NewAcplAnalyzer(analysis.AcplConfig{
				Launcher:   launch,
				TimeBudget: cfg.TimeBudget,
				MaxLoss:    cfg.MaxLoss,
				Logger:     log,
			}),
		},
		close: func() {
			if c, ok := ev.(*engine.Cached); ok {
				hits, misses := c.Stats()
				log.Info().Int("hits", hits).Int("misses", misses).Msg("evaluation cache stats")
			}
			for _, c := range closers {
				if err := c.Close(); err != nil {
					log.Warn().Err(err).Msg("close failed")
				}
			}
		},
	}, nil
}

func runFeatures(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("features", flag.ExitOnError)
	fs.StringVar(&cfg.DatasetPath, "i", cfg.DatasetPath, "dataset csv input")
	fs.StringVar(&cfg.FeaturesPath, "o", cfg.FeaturesPath, "features csv output")
	cfg.RegisterEngineFlags(fs)
	log, cleanup, err := setup(fs, &cfg, args)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := newFeatures(cfg, log)
	if err != nil {
		return err
	}
	defer f.close()

	n, err := dataset.NewEnricher(dataset.EnricherConfig{
		Input:    cfg.DatasetPath,
		Output:   cfg.FeaturesPath,
		Pipeline: f.pipeline,
		Logger:   log,
	}).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Features saved: %v (%d games)\n", cfg.FeaturesPath, n)
	return nil
}

func runServe(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cfg.RegisterEngineFlags(fs)
	log, cleanup, err := setup(fs, &cfg, args)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := newFeatures(cfg, log)
	if err != nil {
		return err
	}
	defer f.close()

	pipeline := f.pipeline
	pipeline.Evaluator = engine.Synchronized(pipeline.Evaluator)
	return primaryserver.NewServer(pipeline, log).Run(ctx, cfg.Addr)
}

func runClassify(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("classify: no time control given")
	}
	for _, tc := range args {
		class, err := analysis.ClassifyTimeControl(tc)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", tc, class)
	}
	return nil
}
