package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/mchmarny/gradebook/pkg/input"
	"github.com/mchmarny/gradebook/pkg/roster"
)

const maxBodyBytes = 1 << 16

type studentRequest struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Scores []float64 `json:"scores"`
}

type rankResponse struct {
	ID   string `json:"id"`
	Rank int    `json:"rank"`
}

type weightsResponse struct {
	Weights map[grade.Component]float64 `json:"weights"`
	Sum     float64                     `json:"sum"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, roster.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, roster.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, roster.ErrMalformedInput),
		errors.Is(err, roster.ErrUnknownComponent),
		errors.Is(err, roster.ErrWeightSumExceeded):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", roster.ErrMalformedInput, err)
	}
	return nil
}

// changesFromMap turns {"lab1": 90, ...} into changes in component order.
func changesFromMap(m map[string]float64) ([]grade.Change, error) {
	changes := make([]grade.Change, 0, len(m))
	for k, v := range m {
		c, err := grade.ParseComponent(k)
		if err != nil {
			return nil, err
		}
		changes = append(changes, grade.Change{Component: c, Value: v})
	}
	slices.SortFunc(changes, func(a, b grade.Change) int {
		return int(a.Component) - int(b.Component)
	})
	return changes, nil
}

func (s *Server) listStudents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.roster.Students())
}

func (s *Server) getStudent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.roster.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getRank(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	rank, err := s.roster.Rank(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{ID: id, Rank: rank})
}

func (s *Server) addStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Scores) != grade.ComponentCount {
		writeError(w, fmt.Errorf("%w: expected %d scores, got %d",
			roster.ErrMalformedInput, grade.ComponentCount, len(req.Scores)))
		return
	}

	st := roster.Student{ID: req.ID, Name: req.Name}
	copy(st.Scores[:], req.Scores)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.roster.Add(st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) updateScores(w http.ResponseWriter, r *http.Request) {
	var req map[string]float64
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	changes, err := changesFromMap(req)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.roster.UpdateScores(chi.URLParam(r, "id"), changes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getWeights(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wv := s.roster.Weights()
	writeJSON(w, http.StatusOK, weightsResponse{Weights: wv.Map(), Sum: wv.Sum()})
}

func (s *Server) updateWeights(w http.ResponseWriter, r *http.Request) {
	var req map[string]float64
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	changes, err := changesFromMap(req)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wv, err := s.roster.UpdateWeights(changes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weightsResponse{Weights: wv.Map(), Sum: wv.Sum()})
}

func (s *Server) getDistribution(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.roster.Distribution().Buckets())
}

func (s *Server) filter(w http.ResponseWriter, r *http.Request) {
	threshold, err := input.ParseValue(r.URL.Query().Get("threshold"))
	if err != nil {
		writeError(w, fmt.Errorf("threshold: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.roster.Filter(threshold))
}
