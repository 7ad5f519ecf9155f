package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/jacokyle01/rating-features/engine"
	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
)

// positionsOf replays uci moves and returns the FEN before every move.
func positionsOf(t *testing.T, moves string) []string {
	t.Helper()
	pos := chess.NewGame().Position()
	var fens []string
	for _, token := range strings.Fields(moves) {
		m, err := ParseUCI(pos, token)
		if err != nil {
			t.Fatal(err)
		}
		fens = append(fens, pos.String())
		pos = pos.Update(m)
	}
	return append(fens, pos.String())
}

type scriptedEngine struct {
	best   map[string]string       // fen -> top move
	scores map[string]models.Score // fen -> score for the side to move
	fail   map[string]error
	score  models.Score // used when fen has no entry in scores
	calls  int
	closed int
}

// replayEngine recommends the move that was actually played in every
// position of moves and reports a constant score.
func replayEngine(t *testing.T, moves string, cp int) *scriptedEngine {
	t.Helper()
	e := &scriptedEngine{
		best:   map[string]string{},
		scores: map[string]models.Score{},
		fail:   map[string]error{},
		score:  models.Score{CP: cp, Defined: true},
	}
	fens := positionsOf(t, moves)
	for i, token := range strings.Fields(moves) {
		e.best[fens[i]] = token
	}
	return e
}

func (e *scriptedEngine) Evaluate(pos *chess.Position, budget time.Duration) (models.Evaluation, error) {
	e.calls++
	fen := pos.String()
	if err, ok := e.fail[fen]; ok {
		return models.Evaluation{}, err
	}
	ev := models.Evaluation{FEN: fen, Score: e.score}
	if s, ok := e.scores[fen]; ok {
		ev.Score = s
	}
	if mv, ok := e.best[fen]; ok {
		ev.BestMove = mv
		ev.PV = []string{mv}
	}
	return ev, nil
}

func (e *scriptedEngine) Close() error {
	e.closed++
	return nil
}

func (e *scriptedEngine) launcher() engine.Launcher {
	return func() (engine.Engine, error) {
		return e, nil
	}
}
