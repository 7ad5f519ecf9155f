package primaryserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jacokyle01/rating-features/analysis"
	"github.com/jacokyle01/rating-features/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const queueSize = 100

// Server queues submitted games and computes their features one at a time.
type Server struct {
	jobs     chan models.Job
	pipeline analysis.Pipeline
	log      zerolog.Logger

	mu           sync.RWMutex
	jobMap       map[string]models.Job
	resultsStore map[string]models.Features
}

// NewServer creates a new analysis server
func NewServer(pipeline analysis.Pipeline, log zerolog.Logger) *Server {
	return &Server{
		jobs:         make(chan models.Job, queueSize),
		pipeline:     pipeline,
		log:          log,
		jobMap:       make(map[string]models.Job),
		resultsStore: make(map[string]models.Features),
	}
}

// Handler routes the HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/requestForAnalysis", s.requestForAnalysis)
	mux.HandleFunc("/get_result", s.handleGetResult)
	mux.HandleFunc("/results", s.handleResults)
	mux.HandleFunc("/queue", s.handleViewQueue)
	return mux
}

// Run serves on addr and processes queued jobs until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		s.Process(ctx)
		return nil
	})

	return g.Wait()
}

// Process computes features for queued jobs in submission order until ctx
// is cancelled.
func (s *Server) Process(ctx context.Context) {
	for {
		job, ok := s.nextJob(ctx)
		if !ok {
			return
		}
		s.log.Debug().Str("job", job.ID).Int("num_moves", job.Game.NumMoves).Msg("processing job")
		s.SubmitResult(s.pipeline.Compute(job.ID, job.Game))
	}
}
