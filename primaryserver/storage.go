package primaryserver

import (
	"slices"

	"github.com/jacokyle01/rating-features/models"
)

// SubmitResult stores computed features and clears the pending job.
func (s *Server) SubmitResult(f models.Features) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobMap, f.ID)
	s.resultsStore[f.ID] = f

	ev := s.log.Info()
	if len(f.Errors) > 0 {
		ev = s.log.Warn().Strs("errors", f.Errors)
	}
	ev.Str("job", f.ID).Str("time_class", f.TimeClass).Msg("received result")
}

// GetResult retrieves a result by job ID
func (s *Server) GetResult(jobID string) (models.Features, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, exists := s.resultsStore[jobID]
	return result, exists
}

// isPending reports whether jobID is queued but not yet computed.
func (s *Server) isPending(jobID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.jobMap[jobID]
	return ok
}

// ResultIDs lists every job with a stored result.
func (s *Server) ResultIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.resultsStore))
	for id := range s.resultsStore {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
