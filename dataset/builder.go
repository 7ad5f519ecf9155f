package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/jacokyle01/rating-features/models"
	"github.com/rs/zerolog"
)

const DefaultMaxGames = 2000

// Config configures a Builder.
type Config struct {
	Source   string // .pgn, .bz2 or .zst path or http(s) URL
	Output   string // csv path
	MaxGames int    // negative means no limit
	Logger   zerolog.Logger
}

// Builder turns a PGN source into a dataset CSV with one row per game.
type Builder struct {
	cfg Config
	log zerolog.Logger
}

func NewBuilder(cfg Config) *Builder {
	if cfg.MaxGames == 0 {
		cfg.MaxGames = DefaultMaxGames
	}
	return &Builder{cfg: cfg, log: cfg.Logger}
}

// Build reads up to MaxGames games and writes them to Output. It returns the
// number of rows written.
func (b *Builder) Build(ctx context.Context) (int, error) {
	if b.cfg.Source == "" {
		return 0, fmt.Errorf("no pgn source configured")
	}
	if b.cfg.Output == "" {
		return 0, fmt.Errorf("no output configured")
	}

	b.log.Info().
		Str("source", b.cfg.Source).
		Str("output", b.cfg.Output).
		Int("max_games", b.cfg.MaxGames).
		Msg("dataset build started")

	src, err := OpenSource(b.cfg.Source)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	sink, err := CreateSink(b.cfg.Output, Columns)
	if err != nil {
		return 0, err
	}

	clock := time.Now()
	err = ScanGames(ctx, src, b.cfg.MaxGames, func(g models.Game) error {
		if err := sink.Write(GameRecord(g)); err != nil {
			return err
		}
		if time.Since(clock) > time.Second {
			b.progress(src, sink.Rows())
			clock = time.Now()
		}
		return nil
	})
	if err != nil {
		sink.Close()
		return sink.Rows(), err
	}
	if err := sink.Close(); err != nil {
		return sink.Rows(), err
	}

	b.progress(src, sink.Rows())
	b.log.Info().Int("games", sink.Rows()).Str("output", b.cfg.Output).Msg("dataset saved")
	return sink.Rows(), nil
}

func (b *Builder) progress(src *Source, games int) {
	ev := b.log.Info().
		Int("games", games).
		Str("read", src.BytesRead().String())
	if src.Size() > 0 {
		ev = ev.Str("total", src.Size().String()).
			Float64("percent", min(100, 100*float64(src.BytesRead())/float64(src.Size())))
	}
	ev.Msg("reading pgn")
}
