package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestBuildHonoursConfiguredSource(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "games_dataset.csv")

	b := NewBuilder(Config{Source: "testdata/games.pgn", Output: out, Logger: zerolog.Nop()})
	n, err := b.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows but got %d", n)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	games, err := ReadGames(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 3 || games[1].Opening != "Barnes Opening: Fool's Mate" {
		t.Fatalf("unexpected dataset %+v", games)
	}
}

func TestBuildDefaultCap(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "many.pgn")
	if err := os.WriteFile(src, []byte(manyGames(DefaultMaxGames+7)), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.csv")

	n, err := NewBuilder(Config{Source: src, Output: out, Logger: zerolog.Nop()}).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != DefaultMaxGames {
		t.Fatalf("expected %d rows but got %d", DefaultMaxGames, n)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	games, err := ReadGames(strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != DefaultMaxGames {
		t.Fatalf("expected %d games in file but got %d", DefaultMaxGames, len(games))
	}
	for i, g := range games {
		if g.NumMoves != len(strings.Fields(g.Moves)) {
			t.Fatalf("row %d: num_moves %d for %q", i, g.NumMoves, g.Moves)
		}
	}
}

func TestBuildSmallCap(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	n, err := NewBuilder(Config{Source: "testdata/games.pgn", Output: out, MaxGames: 2, Logger: zerolog.Nop()}).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows but got %d", n)
	}
}

func TestBuildErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	if _, err := NewBuilder(Config{Output: out}).Build(context.Background()); err == nil {
		t.Fatal("expected error without source")
	}
	if _, err := NewBuilder(Config{Source: "testdata/games.pgn"}).Build(context.Background()); err == nil {
		t.Fatal("expected error without output")
	}
	if _, err := NewBuilder(Config{Source: "testdata/nope.pgn", Output: out}).Build(context.Background()); err == nil {
		t.Fatal("expected error for missing source")
	}
}
