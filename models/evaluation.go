package models

// MateScore is the centipawn value a forced mate collapses to.
const MateScore = 10000

// Score is an engine score as reported over UCI, relative to the side to move.
type Score struct {
	CP      int  `json:"cp"`
	Mate    int  `json:"mate"`
	IsMate  bool `json:"is_mate"`
	Defined bool `json:"defined"`
}

// Centipawns returns the score in centipawns with mates mapped onto the
// MateScore sentinel. Mate in n plies away is MateScore-n, being mated in n is
// -MateScore+n, and "mate 0" (side to move is already mated) is -MateScore.
func (s Score) Centipawns() (int, bool) {
	if !s.Defined {
		return 0, false
	}
	if !s.IsMate {
		return s.CP, true
	}
	switch {
	case s.Mate > 0:
		return MateScore - s.Mate, true
	case s.Mate < 0:
		return -MateScore - s.Mate, true
	default:
		return -MateScore, true
	}
}

// Evaluation represents the engine's verdict on a single position
type Evaluation struct {
	FEN       string   `json:"fen"`
	BestMove  string   `json:"best_move"` // uci, empty when the engine has none
	PV        []string `json:"pv"`        // principal variation
	Score     Score    `json:"score"`
	Depth     int      `json:"depth"`
	Nodes     int64    `json:"nodes"`
	NodesPerS int64    `json:"nodes_per_s"`
	TimeMS    int      `json:"time_ms"`
}

// HasLine reports whether the engine returned a principal line.
func (e Evaluation) HasLine() bool {
	return len(e.PV) > 0
}

// TopMove is the first move of the principal line, falling back to the
// engine's bestmove.
func (e Evaluation) TopMove() string {
	if len(e.PV) > 0 {
		return e.PV[0]
	}
	return e.BestMove
}
