package analysis

import (
	"testing"

	"github.com/jacokyle01/rating-features/models"
)

func TestPipelineCompute(t *testing.T) {
	const moves = "e2e4 e7e5 g1f3 b8c6"
	shared := replayEngine(t, moves, 0)
	owned := replayEngine(t, "", 17)
	p := Pipeline{
		MoveQuality: NewMoveQualityAnalyzer(MoveQualityConfig{}),
		Evaluator:   shared,
		ACPL:        NewAcplAnalyzer(AcplConfig{Launcher: owned.launcher()}),
	}

	f := p.Compute("g1", models.Game{
		Result:      "0-1",
		TimeControl: "300+3",
		Moves:       moves,
	})

	if f.ID != "g1" || f.TimeClass != "blitz" {
		t.Fatalf("unexpected features %+v", f)
	}
	if f.WhiteScore == nil || *f.WhiteScore != 0 || *f.BlackScore != 1 {
		t.Fatalf("unexpected scores %+v", f)
	}
	if f.MoveQuality == nil || *f.MoveQuality != (models.MoveQuality{WhiteBestMoves: 2, BlackBestMoves: 2}) {
		t.Fatalf("unexpected move quality %+v", f.MoveQuality)
	}
	if f.ACPL == nil || f.ACPL.White != 34 || f.ACPL.Black != 34 {
		t.Fatalf("unexpected acpl %+v", f.ACPL)
	}
	if len(f.Errors) != 0 {
		t.Fatalf("unexpected errors %v", f.Errors)
	}
	if shared.closed != 0 || owned.closed != 1 {
		t.Fatalf("engine ownership violated: shared closed %d, owned closed %d", shared.closed, owned.closed)
	}
}

func TestPipelineCollectsErrors(t *testing.T) {
	owned := replayEngine(t, "", 0)
	p := Pipeline{ACPL: NewAcplAnalyzer(AcplConfig{Launcher: owned.launcher()})}

	f := p.Compute("bad", models.Game{
		Result:      "*",
		TimeControl: "-",
		Moves:       "e2e4 e2e4",
	})
	if f.TimeClass != "" || f.WhiteScore != nil || f.BlackScore != nil {
		t.Fatalf("expected empty fields, got %+v", f)
	}
	if f.MoveQuality != nil || f.ACPL != nil {
		t.Fatalf("expected no engine features, got %+v", f)
	}
	if len(f.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", f.Errors)
	}
}
