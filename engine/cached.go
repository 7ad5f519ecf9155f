package engine

import (
	"fmt"
	"time"

	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// Store persists evaluations between runs.
type Store interface {
	GetEvaluation(key string) (models.Evaluation, bool, error)
	PutEvaluation(key string, ev models.Evaluation) error
}

// Cached answers repeated positions from a Store before asking the inner
// evaluator. Store failures are logged and never fail an evaluation.
type Cached struct {
	inner  Evaluator
	store  Store
	log    zerolog.Logger
	hits   int
	misses int
}

func NewCached(inner Evaluator, store Store, log zerolog.Logger) *Cached {
	return &Cached{inner: inner, store: store, log: log}
}

// CacheKey identifies an evaluation by position and search budget.
func CacheKey(pos *chess.Position, budget time.Duration) string {
	return fmt.Sprintf("%s|%d", pos.String(), budget.Milliseconds())
}

func (c *Cached) Evaluate(pos *chess.Position, budget time.Duration) (models.Evaluation, error) {
	key := CacheKey(pos, budget)

	ev, ok, err := c.store.GetEvaluation(key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		c.hits++
		return ev, nil
	}

	c.misses++
	ev, err = c.inner.Evaluate(pos, budget)
	if err != nil {
		return ev, err
	}
	if err := c.store.PutEvaluation(key, ev); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return ev, nil
}

// Stats returns hit and miss counts.
func (c *Cached) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// CachedLauncher wraps every engine started by l in a Cached over store.
// Closing the result stops the underlying engine.
func CachedLauncher(l Launcher, store Store, log zerolog.Logger) Launcher {
	return func() (Engine, error) {
		eng, err := l()
		if err != nil {
			return nil, err
		}
		return &cachedEngine{Cached: NewCached(eng, store, log), eng: eng}, nil
	}
}

type cachedEngine struct {
	*Cached
	eng Engine
}

func (c *cachedEngine) Close() error {
	return c.eng.Close()
}
