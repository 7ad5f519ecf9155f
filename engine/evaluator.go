package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
)

var (
	// ErrNoBestMove is returned when the engine produced no principal line.
	ErrNoBestMove = errors.New("engine returned no principal line")
	// ErrEngineClosed is returned by an engine used after Close.
	ErrEngineClosed = errors.New("engine closed")
)

// Evaluator evaluates a position under a wall-clock budget. Scores in the
// returned Evaluation are relative to the side to move in pos.
type Evaluator interface {
	Evaluate(pos *chess.Position, budget time.Duration) (models.Evaluation, error)
}

// Engine is an Evaluator whose process must be released exactly once.
type Engine interface {
	Evaluator
	Close() error
}

// Launcher starts an engine owned by whoever called it.
type Launcher func() (Engine, error)

// PathLauncher returns a Launcher starting a UCI engine per call.
func PathLauncher(cfg Config) Launcher {
	return func() (Engine, error) {
		return NewUCIEngine(cfg)
	}
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(pos *chess.Position, budget time.Duration) (models.Evaluation, error)

func (f EvaluatorFunc) Evaluate(pos *chess.Position, budget time.Duration) (models.Evaluation, error) {
	return f(pos, budget)
}

// Synchronized serializes calls to ev so one engine can be shared between
// goroutines.
func Synchronized(ev Evaluator) Evaluator {
	var mu sync.Mutex
	return EvaluatorFunc(func(pos *chess.Position, budget time.Duration) (models.Evaluation, error) {
		mu.Lock()
		defer mu.Unlock()
		return ev.Evaluate(pos, budget)
	})
}
