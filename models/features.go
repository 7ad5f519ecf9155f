package models

// MoveQuality counts best moves and blunders per side.
type MoveQuality struct {
	WhiteBestMoves int `json:"white_best_moves"`
	BlackBestMoves int `json:"black_best_moves"`
	WhiteBlunders  int `json:"white_blunders"`
	BlackBlunders  int `json:"black_blunders"`

	// Skipped moves were played on the board but not scored.
	Skipped int `json:"skipped"`
	// Truncated is set when an illegal move ended the analysis early.
	Truncated bool `json:"truncated"`
}

// ACPL is the average centipawn loss per side.
type ACPL struct {
	White      float64 `json:"white_acpl"`
	Black      float64 `json:"black_acpl"`
	WhiteMoves int     `json:"white_moves"`
	BlackMoves int     `json:"black_moves"`
}

// Features is everything computed for a single game.
type Features struct {
	ID          string       `json:"id"`
	TimeClass   string       `json:"time_class,omitempty"`
	WhiteScore  *float64     `json:"white_score,omitempty"`
	BlackScore  *float64     `json:"black_score,omitempty"`
	MoveQuality *MoveQuality `json:"move_quality,omitempty"`
	ACPL        *ACPL        `json:"acpl,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
}
