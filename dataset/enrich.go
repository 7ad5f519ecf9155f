package dataset

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/jacokyle01/rating-features/analysis"
	"github.com/rs/zerolog"
)

// EnricherConfig configures an Enricher.
type EnricherConfig struct {
	Input    string // dataset csv written by Builder
	Output   string
	Pipeline analysis.Pipeline
	Logger   zerolog.Logger
}

// Enricher appends engine and header derived features to every row of a
// dataset, one game at a time.
type Enricher struct {
	cfg EnricherConfig
	log zerolog.Logger
}

func NewEnricher(cfg EnricherConfig) *Enricher {
	return &Enricher{cfg: cfg, log: cfg.Logger}
}

// Run returns the number of rows written. Feature failures are logged and
// leave empty cells; only I/O errors and cancellation stop the run.
func (e *Enricher) Run(ctx context.Context) (int, error) {
	in, err := os.Open(e.cfg.Input)
	if err != nil {
		return 0, err
	}
	games, err := ReadGames(in)
	in.Close()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", e.cfg.Input, err)
	}

	sink, err := CreateSink(e.cfg.Output, slices.Concat(Columns, FeatureColumns))
	if err != nil {
		return 0, err
	}

	e.log.Info().Int("games", len(games)).Str("input", e.cfg.Input).Msg("enrichment started")

	for i, g := range games {
		select {
		case <-ctx.Done():
			sink.Close()
			return sink.Rows(), ctx.Err()
		default:
		}

		f := e.cfg.Pipeline.Compute(strconv.Itoa(i), g)
		for _, msg := range f.Errors {
			e.log.Warn().Int("row", i).Str("error", msg).Msg("feature failed")
		}
		if err := sink.Write(slices.Concat(GameRecord(g), FeatureRecord(f))); err != nil {
			sink.Close()
			return sink.Rows(), err
		}
		e.log.Debug().Int("row", i).Int("num_moves", g.NumMoves).Msg("game enriched")
	}

	if err := sink.Close(); err != nil {
		return sink.Rows(), err
	}
	e.log.Info().Int("games", sink.Rows()).Str("output", e.cfg.Output).Msg("features saved")
	return sink.Rows(), nil
}
