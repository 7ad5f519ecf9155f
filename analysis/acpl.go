package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/jacokyle01/rating-features/engine"
	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// AcplConfig configures an AcplAnalyzer.
type AcplConfig struct {
	Launcher   engine.Launcher
	TimeBudget time.Duration // per position
	MaxLoss    int           // per move cap, centipawns
	Logger     zerolog.Logger
}

// AcplAnalyzer computes the average centipawn loss of each side. Unlike
// MoveQualityAnalyzer it fails fast: an illegal or ambiguous move, or any
// engine error, aborts the whole game.
type AcplAnalyzer struct {
	cfg AcplConfig
	log zerolog.Logger
}

func NewAcplAnalyzer(cfg AcplConfig) *AcplAnalyzer {
	if cfg.TimeBudget == 0 {
		cfg.TimeBudget = DefaultTimeBudget
	}
	if cfg.MaxLoss == 0 {
		cfg.MaxLoss = DefaultMaxLoss
	}
	return &AcplAnalyzer{cfg: cfg, log: cfg.Logger}
}

// Analyze scores the SAN move sequence moves on an engine it launches and
// stops itself.
func (a *AcplAnalyzer) Analyze(moves string) (models.ACPL, error) {
	if a.cfg.Launcher == nil {
		return models.ACPL{}, fmt.Errorf("acpl: no engine launcher")
	}
	eng, err := a.cfg.Launcher()
	if err != nil {
		return models.ACPL{}, fmt.Errorf("launch engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			a.log.Warn().Err(err).Msg("engine did not exit cleanly")
		}
	}()

	return a.analyze(moves, eng)
}

func (a *AcplAnalyzer) analyze(moves string, ev engine.Evaluator) (models.ACPL, error) {
	var (
		res                  models.ACPL
		whiteLoss, blackLoss int
	)
	pos := chess.NewGame().Position()

	for ply, san := range strings.Fields(moves) {
		mover := pos.Turn()

		infoBefore, err := ev.Evaluate(pos, a.cfg.TimeBudget)
		if err != nil {
			return models.ACPL{}, fmt.Errorf("evaluate ply %d: %w", ply+1, err)
		}

		move, err := ParseSAN(pos, san)
		if err != nil {
			return models.ACPL{}, fmt.Errorf("ply %d: %w", ply+1, err)
		}
		next := pos.Update(move)

		infoAfter, err := ev.Evaluate(next, a.cfg.TimeBudget)
		if err != nil {
			return models.ACPL{}, fmt.Errorf("evaluate ply %d: %w", ply+1, err)
		}

		before, okBefore := povCentipawns(infoBefore, pos, mover)
		after, okAfter := povCentipawns(infoAfter, next, mover)
		pos = next
		if !okBefore || !okAfter {
			continue
		}

		loss := min(abs(before-after), a.cfg.MaxLoss)
		if mover == chess.White {
			whiteLoss += loss
			res.WhiteMoves++
		} else {
			blackLoss += loss
			res.BlackMoves++
		}
	}

	// A side without evaluated moves averages zero.
	if res.WhiteMoves > 0 {
		res.White = float64(whiteLoss) / float64(res.WhiteMoves)
	}
	if res.BlackMoves > 0 {
		res.Black = float64(blackLoss) / float64(res.BlackMoves)
	}
	return res, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
