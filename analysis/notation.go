package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
)

// ErrIllegalMove is returned when a move token does not resolve to exactly
// one legal move in the current position.
var ErrIllegalMove = errors.New("illegal move")

// ParseUCI resolves a coordinate move like "e2e4" or "e7e8q" against the
// legal moves of pos.
func ParseUCI(pos *chess.Position, token string) (*chess.Move, error) {
	for _, m := range pos.ValidMoves() {
		if m.String() == token {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrIllegalMove, token, pos)
}

// ParseSAN resolves a standard algebraic move like "Nf3" against pos.
func ParseSAN(pos *chess.Position, token string) (*chess.Move, error) {
	m, err := chess.AlgebraicNotation{}.Decode(pos, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %s: %v", ErrIllegalMove, token, pos, err)
	}
	return m, nil
}

// UCIToSAN rewrites a space separated UCI move string in SAN.
func UCIToSAN(moves string) (string, error) {
	pos := chess.NewGame().Position()
	tokens := strings.Fields(moves)
	san := make([]string, 0, len(tokens))
	for _, token := range tokens {
		m, err := ParseUCI(pos, token)
		if err != nil {
			return "", err
		}
		san = append(san, chess.AlgebraicNotation{}.Encode(pos, m))
		pos = pos.Update(m)
	}
	return strings.Join(san, " "), nil
}

// povCentipawns returns the evaluation of pos from side's point of view.
func povCentipawns(ev models.Evaluation, pos *chess.Position, side chess.Color) (int, bool) {
	cp, ok := ev.Score.Centipawns()
	if !ok {
		return 0, false
	}
	if pos.Turn() != side {
		cp = -cp
	}
	return cp, true
}
