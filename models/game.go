package models

import "strings"

// Game is one dataset row extracted from a PGN game.
type Game struct {
	WhiteRating *int   `json:"white_rating,omitempty"`
	BlackRating *int   `json:"black_rating,omitempty"`
	Result      string `json:"result"`
	Opening     string `json:"opening"`
	TimeControl string `json:"time_control"`
	Moves       string `json:"moves"`               // uci tokens, space separated
	MovesSAN    string `json:"moves_san,omitempty"` // same line in SAN
	NumMoves    int    `json:"num_moves"`
}

// CountMoves returns the number of whitespace separated tokens in moves.
func CountMoves(moves string) int {
	return len(strings.Fields(moves))
}
