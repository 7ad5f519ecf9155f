package analysis

const (
	GameResultNone     = "*"
	GameResultWhiteWin = "1-0"
	GameResultBlackWin = "0-1"
	GameResultDraw     = "1/2-1/2"
)

// EncodeResult returns the points scored by white and black. ok is false for
// anything but a decisive result or a draw, and the scores must then be
// treated as missing.
func EncodeResult(result string) (white, black float64, ok bool) {
	switch result {
	case GameResultWhiteWin:
		return 1, 0, true
	case GameResultBlackWin:
		return 0, 1, true
	case GameResultDraw:
		return 0.5, 0.5, true
	default:
		return 0, 0, false
	}
}
