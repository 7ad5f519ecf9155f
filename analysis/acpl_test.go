package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/jacokyle01/rating-features/engine"
	"github.com/jacokyle01/rating-features/models"
)

func TestAcplConstantScore(t *testing.T) {
	eng := replayEngine(t, "", 17)
	a := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()})

	got, err := a.Analyze("e4 e5 Nf3 Nc6")
	if err != nil {
		t.Fatal(err)
	}
	// Every move swings the score from +17 to -17 for the mover.
	want := models.ACPL{White: 34, Black: 34, WhiteMoves: 2, BlackMoves: 2}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if eng.closed != 1 {
		t.Fatalf("expected engine closed once, got %d", eng.closed)
	}
}

func TestAcplClampedLoss(t *testing.T) {
	const uci = "f2f3 e7e5 g2g4 d8h4"
	fens := positionsOf(t, uci)
	eng := replayEngine(t, "", 0)
	eng.scores[fens[3]] = models.Score{Mate: 1, IsMate: true, Defined: true}
	eng.scores[fens[4]] = models.Score{Mate: 0, IsMate: true, Defined: true}

	got, err := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()}).Analyze("f3 e5 g4 Qh4#")
	if err != nil {
		t.Fatal(err)
	}
	// g4 loses 9999 centipawns, capped at 300. Black's Qh4# gains from
	// 9999 to 10000, a loss of 1 by absolute value.
	want := models.ACPL{White: 150, Black: 0.5, WhiteMoves: 2, BlackMoves: 2}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestAcplBounds(t *testing.T) {
	for _, cp := range []int{-5000, -120, 0, 90, 151, 10000} {
		eng := replayEngine(t, "", cp)
		got, err := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()}).Analyze("d4 d5 c4 e6 Nc3 Nf6")
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range []float64{got.White, got.Black} {
			if v < 0 || v > DefaultMaxLoss {
				t.Errorf("cp %d: acpl %v out of bounds", cp, v)
			}
		}
		want := math.Min(math.Abs(float64(2*cp)), DefaultMaxLoss)
		if got.White != want || got.Black != want {
			t.Errorf("cp %d: got %+v want %v", cp, got, want)
		}
	}
}

func TestAcplCustomMaxLoss(t *testing.T) {
	eng := replayEngine(t, "", 500)
	got, err := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher(), MaxLoss: 50}).Analyze("e4 e5")
	if err != nil {
		t.Fatal(err)
	}
	if got.White != 50 || got.Black != 50 {
		t.Fatalf("got %+v", got)
	}
}

func TestAcplIllegalMoveFailsAndReleasesEngine(t *testing.T) {
	eng := replayEngine(t, "", 0)
	_, err := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()}).Analyze("e4 e4")
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove but got %v", err)
	}
	if eng.closed != 1 {
		t.Fatalf("expected engine closed once, got %d", eng.closed)
	}
}

func TestAcplEngineErrorFailsAndReleasesEngine(t *testing.T) {
	fens := positionsOf(t, "e2e4")
	eng := replayEngine(t, "", 0)
	eng.fail[fens[1]] = engine.ErrNoBestMove

	_, err := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()}).Analyze("e4 e5")
	if !errors.Is(err, engine.ErrNoBestMove) {
		t.Fatalf("expected engine error but got %v", err)
	}
	if eng.closed != 1 {
		t.Fatalf("expected engine closed once, got %d", eng.closed)
	}
}

func TestAcplLaunchFailure(t *testing.T) {
	boom := errors.New("no such engine")
	a := NewAcplAnalyzer(AcplConfig{Launcher: func() (engine.Engine, error) { return nil, boom }})
	if _, err := a.Analyze("e4"); !errors.Is(err, boom) {
		t.Fatalf("expected launch error but got %v", err)
	}

	if _, err := NewAcplAnalyzer(AcplConfig{}).Analyze("e4"); err == nil {
		t.Fatal("expected error without launcher")
	}
}

func TestAcplNoEvaluatedMoves(t *testing.T) {
	eng := replayEngine(t, "", 0)
	eng.score = models.Score{}

	got, err := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()}).Analyze("e4 e5")
	if err != nil {
		t.Fatal(err)
	}
	if got != (models.ACPL{}) {
		t.Fatalf("expected zero averages, got %+v", got)
	}

	got, err = NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()}).Analyze("")
	if err != nil {
		t.Fatal(err)
	}
	if got != (models.ACPL{}) {
		t.Fatalf("expected zero averages, got %+v", got)
	}
	if eng.closed != 2 {
		t.Fatalf("expected engine closed after each call, got %d", eng.closed)
	}
}

func TestAcplIdempotent(t *testing.T) {
	const uci = "e2e4 c7c5 g1f3 d7d6"
	fens := positionsOf(t, uci)
	eng := replayEngine(t, "", 20)
	eng.scores[fens[2]] = models.Score{CP: 130, Defined: true}

	a := NewAcplAnalyzer(AcplConfig{Launcher: eng.launcher()})
	first, err := a.Analyze("e4 c5 Nf3 d6")
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze("e4 c5 Nf3 d6")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("repeated analysis differs: %+v vs %+v", first, second)
	}
}
