package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
)

// PGN tags copied into a dataset row
const (
	TagWhiteElo    = "WhiteElo"
	TagBlackElo    = "BlackElo"
	TagResult      = "Result"
	TagOpening     = "Opening"
	TagTimeControl = "TimeControl"
)

var errMaxGames = errors.New("max games")

// WalkGames splits r into the raw text of individual games and calls onGame
// for each one, in order. A new game starts at a tag line that follows
// movetext.
func WalkGames(r io.Reader, onGame func(raw string) error) error {
	sb := &strings.Builder{}
	hasBody := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && hasBody {
			if err := onGame(sb.String()); err != nil {
				return err
			}
			sb.Reset()
			hasBody = false
		}
		if trimmed != "" && !strings.HasPrefix(trimmed, "[") {
			hasBody = true
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(sb.String()) != "" {
		return onGame(sb.String())
	}
	return nil
}

// ParseGame parses the text of a single PGN game into a dataset row.
func ParseGame(raw string) (models.Game, error) {
	opt, err := chess.PGN(strings.NewReader(raw))
	if err != nil {
		return models.Game{}, err
	}
	return FromGame(chess.NewGame(opt)), nil
}

// FromGame extracts the dataset columns of g. Missing or malformed tags leave
// the corresponding field empty.
func FromGame(g *chess.Game) models.Game {
	tag := func(key string) string {
		if tp := g.GetTagPair(key); tp != nil {
			return tp.Value
		}
		return ""
	}

	moves := g.Moves()
	positions := g.Positions()
	uci := make([]string, len(moves))
	san := make([]string, len(moves))
	for i, m := range moves {
		uci[i] = m.String()
		san[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}

	game := models.Game{
		WhiteRating: rating(tag(TagWhiteElo)),
		BlackRating: rating(tag(TagBlackElo)),
		Result:      tag(TagResult),
		Opening:     tag(TagOpening),
		TimeControl: tag(TagTimeControl),
		Moves:       strings.Join(uci, " "),
		MovesSAN:    strings.Join(san, " "),
	}
	game.NumMoves = models.CountMoves(game.Moves)
	return game
}

func rating(v string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}

// ScanGames parses games from r and hands them to onGame in order, stopping
// after maxGames games. maxGames <= 0 means no limit.
func ScanGames(ctx context.Context, r io.Reader, maxGames int, onGame func(models.Game) error) error {
	n := 0
	err := WalkGames(r, func(raw string) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		g, err := ParseGame(raw)
		if err != nil {
			return fmt.Errorf("game %d: %w", n+1, err)
		}
		if err := onGame(g); err != nil {
			return err
		}
		n++
		if maxGames > 0 && n >= maxGames {
			return errMaxGames
		}
		return nil
	})
	if errors.Is(err, errMaxGames) {
		return nil
	}
	return err
}

// Collect reads at most maxGames games from r into memory.
func Collect(ctx context.Context, r io.Reader, maxGames int) ([]models.Game, error) {
	var games []models.Game
	err := ScanGames(ctx, r, maxGames, func(g models.Game) error {
		games = append(games, g)
		return nil
	})
	return games, err
}
