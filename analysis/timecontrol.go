package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type TimeClass string

const (
	Bullet    TimeClass = "bullet"
	Blitz     TimeClass = "blitz"
	Rapid     TimeClass = "rapid"
	Classical TimeClass = "classical"
)

// Lower bounds of base time per class, in seconds
const (
	blitzStart     = 3 * 60
	rapidStart     = 10 * 60
	classicalStart = 60 * 60
)

var ErrBadTimeControl = errors.New("bad time control")

// TimeControl is a PGN TimeControl tag of the form "<main>[+<increment>]".
type TimeControl struct {
	Main      int // seconds
	Increment int // seconds per move
}

func ParseTimeControl(tc string) (TimeControl, error) {
	parts := strings.Split(tc, "+")

	main, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeControl{}, fmt.Errorf("%w %q: %v", ErrBadTimeControl, tc, err)
	}

	var inc int
	if len(parts) > 1 {
		inc, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return TimeControl{}, fmt.Errorf("%w %q: %v", ErrBadTimeControl, tc, err)
		}
	}

	return TimeControl{Main: main, Increment: inc}, nil
}

// Class buckets the time control by base time only; the increment is
// ignored.
func (tc TimeControl) Class() TimeClass {
	switch {
	case tc.Main < blitzStart:
		return Bullet
	case tc.Main < rapidStart:
		return Blitz
	case tc.Main < classicalStart:
		return Rapid
	default:
		return Classical
	}
}

// ClassifyTimeControl maps a TimeControl tag to bullet, blitz, rapid or
// classical.
func ClassifyTimeControl(tc string) (TimeClass, error) {
	parsed, err := ParseTimeControl(tc)
	if err != nil {
		return "", err
	}
	return parsed.Class(), nil
}
