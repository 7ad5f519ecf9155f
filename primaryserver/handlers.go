package primaryserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jacokyle01/rating-features/dataset"
	"github.com/jacokyle01/rating-features/models"
)

type analyzeRequest struct {
	ID          string `json:"id"`
	Moves       string `json:"moves"`     // uci
	MovesSAN    string `json:"moves_san"` // optional, derived from moves when empty
	TimeControl string `json:"time_control"`
	Result      string `json:"result"`
}

// HTTP handlers
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	game := models.Game{
		Result:      req.Result,
		TimeControl: req.TimeControl,
		Moves:       strings.Join(strings.Fields(req.Moves), " "),
		MovesSAN:    strings.Join(strings.Fields(req.MovesSAN), " "),
	}
	game.NumMoves = models.CountMoves(game.Moves)

	s.enqueue(w, req.ID, game)
}

func (s *Server) requestForAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID  string `json:"id"`
		Pgn string `json:"pgn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	games, err := dataset.Collect(r.Context(), strings.NewReader(req.Pgn), 1)
	if err != nil {
		http.Error(w, "invalid PGN: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(games) == 0 {
		http.Error(w, "invalid PGN: no game found", http.StatusBadRequest)
		return
	}

	s.enqueue(w, req.ID, games[0])
}

func (s *Server) enqueue(w http.ResponseWriter, id string, game models.Game) {
	if id == "" {
		id = fmt.Sprintf("job_%d", time.Now().UnixNano())
	}

	if err := s.AddJob(models.Job{ID: id, Game: game}); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrQueueFull) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"job_id": id})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		http.Error(w, "Missing job_id parameter", http.StatusBadRequest)
		return
	}

	result, exists := s.GetResult(jobID)
	if !exists {
		if s.isPending(jobID) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"job_id": jobID, "status": "pending"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids := s.ResultIDs()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count": len(ids),
		"ids":   ids,
	})
}

func (s *Server) handleViewQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pending := s.Pending()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"queue_length": len(pending),
		"pending_jobs": pending,
	})
}
