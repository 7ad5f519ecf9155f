package primaryserver

import (
	"context"
	"errors"
	"slices"

	"github.com/jacokyle01/rating-features/models"
)

// ErrQueueFull is returned when the job queue has no room left.
var ErrQueueFull = errors.New("job queue full")

// AddJob adds a new analysis job to the queue
func (s *Server) AddJob(job models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.jobMap[job.ID] = job
		delete(s.resultsStore, job.ID)
		s.log.Info().Str("job", job.ID).Msg("added job to queue")
		return nil
	default:
		s.log.Warn().Str("job", job.ID).Msg("job queue full, dropping job")
		return ErrQueueFull
	}
}

// nextJob blocks until a job is queued or ctx is done.
func (s *Server) nextJob(ctx context.Context) (models.Job, bool) {
	select {
	case job := <-s.jobs:
		return job, true
	case <-ctx.Done():
		return models.Job{}, false
	}
}

// Pending returns the ids of queued jobs that have no result yet.
func (s *Server) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.jobMap))
	for id := range s.jobMap {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
