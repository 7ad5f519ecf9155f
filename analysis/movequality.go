package analysis

import (
	"strings"
	"time"

	"github.com/jacokyle01/rating-features/engine"
	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeBudget       = 10 * time.Millisecond
	DefaultBlunderThreshold = 200
	DefaultMaxLoss          = 300
)

// MoveQualityConfig configures a MoveQualityAnalyzer.
type MoveQualityConfig struct {
	TimeBudget       time.Duration // per position
	BlunderThreshold int           // centipawns
	Logger           zerolog.Logger
}

// MoveQualityAnalyzer counts best moves and blunders for each side.
//
// Faults are contained per move: when the engine fails or returns no
// principal line the move is still played but left unscored. A token that
// is not a legal move ends the analysis, since every later position would be
// wrong.
type MoveQualityAnalyzer struct {
	cfg MoveQualityConfig
	log zerolog.Logger
}

func NewMoveQualityAnalyzer(cfg MoveQualityConfig) *MoveQualityAnalyzer {
	if cfg.TimeBudget == 0 {
		cfg.TimeBudget = DefaultTimeBudget
	}
	if cfg.BlunderThreshold == 0 {
		cfg.BlunderThreshold = DefaultBlunderThreshold
	}
	return &MoveQualityAnalyzer{cfg: cfg, log: cfg.Logger}
}

// Analyze scores the UCI move sequence moves. ev belongs to the caller and is
// not closed.
func (a *MoveQualityAnalyzer) Analyze(moves string, ev engine.Evaluator) models.MoveQuality {
	var q models.MoveQuality
	pos := chess.NewGame().Position()

	for ply, token := range strings.Fields(moves) {
		mover := pos.Turn()

		move, err := ParseUCI(pos, token)
		if err != nil {
			a.log.Debug().Err(err).Int("ply", ply+1).Msg("move quality analysis truncated")
			q.Truncated = true
			break
		}
		next := pos.Update(move)

		best, blunder, err := a.scoreMove(ev, pos, next, move, mover)
		pos = next
		if err != nil {
			a.log.Debug().Err(err).Int("ply", ply+1).Str("move", token).Msg("move not scored")
			q.Skipped++
			continue
		}

		if blunder {
			if mover == chess.White {
				q.WhiteBlunders++
			} else {
				q.BlackBlunders++
			}
		}
		if best {
			if mover == chess.White {
				q.WhiteBestMoves++
			} else {
				q.BlackBestMoves++
			}
		}
	}

	return q
}

func (a *MoveQualityAnalyzer) scoreMove(ev engine.Evaluator, before, after *chess.Position, move *chess.Move, mover chess.Color) (best, blunder bool, err error) {
	info, err := ev.Evaluate(before, a.cfg.TimeBudget)
	if err != nil {
		return false, false, err
	}
	if !info.HasLine() {
		return false, false, engine.ErrNoBestMove
	}
	beforeCP, beforeOK := povCentipawns(info, before, mover)

	newInfo, err := ev.Evaluate(after, a.cfg.TimeBudget)
	if err != nil {
		return false, false, err
	}
	afterCP, afterOK := povCentipawns(newInfo, after, mover)

	blunder = beforeOK && afterOK && beforeCP-afterCP >= a.cfg.BlunderThreshold
	best = info.TopMove() == move.String()
	return best, blunder, nil
}
