// Package roster keeps the in-memory collection of student records together
// with the roster-wide weight vector and the letter grade distribution.
//
// Every mutation is validated into a candidate value first and committed only
// when the whole request is valid, so a failed call never leaves a record,
// the weights, or the distribution partially updated. A Roster is not safe
// for concurrent use; wrappers serving several callers must serialize access.
package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/mchmarny/gradebook/pkg/grade"
)

// Student is the input for a new record.
type Student struct {
	ID     string       `json:"id" yaml:"id"`
	Name   string       `json:"name" yaml:"name"`
	Scores grade.Scores `json:"scores" yaml:"scores"`
}

// Record is one student with the values derived from the current weights.
type Record struct {
	ID      string       `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Scores  grade.Scores `json:"scores" yaml:"scores"`
	Average float64      `json:"average" yaml:"average"`
	Grade   grade.Letter `json:"grade" yaml:"grade"`
}

func newRecord(id, name string, s grade.Scores, w grade.Weights) *Record {
	avg := grade.Average(s, w)
	return &Record{
		ID:      id,
		Name:    name,
		Scores:  s,
		Average: avg,
		Grade:   grade.LetterFor(avg),
	}
}

// Roster owns the records, the weights and the distribution tally.
type Roster struct {
	records []*Record
	index   map[string]int
	weights grade.Weights
	dist    grade.Distribution
}

// New creates an empty roster using weights w.
func New(w grade.Weights) (*Roster, error) {
	if err := checkWeights(w); err != nil {
		return nil, err
	}
	return &Roster{
		records: make([]*Record, 0),
		index:   make(map[string]int),
		weights: w,
	}, nil
}

// Len returns the number of records.
func (r *Roster) Len() int {
	return len(r.records)
}

// Weights returns the current weight vector.
func (r *Roster) Weights() grade.Weights {
	return r.weights
}

// Distribution returns the current letter grade tally.
func (r *Roster) Distribution() grade.Distribution {
	return r.dist
}

// Students returns copies of all records in insertion order.
func (r *Roster) Students() []Record {
	list := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		list = append(list, *rec)
	}
	return list
}

// Add appends a new record for s and counts its grade.
func (r *Roster) Add(s Student) (Record, error) {
	if err := checkStudent(s); err != nil {
		return Record{}, err
	}
	if _, ok := r.index[s.ID]; ok {
		return Record{}, fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
	}

	rec := newRecord(s.ID, s.Name, s.Scores, r.weights)
	r.index[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
	r.dist.Add(rec.Grade)

	slog.Debug("student added", "id", rec.ID, "grade", rec.Grade.String())
	return *rec, nil
}

// UpdateScores applies all changes to the record of id, or none of them.
func (r *Roster) UpdateScores(id string, changes []grade.Change) (Record, error) {
	i, ok := r.index[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if len(changes) == 0 {
		return Record{}, fmt.Errorf("%w: no score changes", ErrMalformedInput)
	}
	if err := checkValues(changes); err != nil {
		return Record{}, err
	}

	cur := r.records[i]
	scores, err := cur.Scores.Apply(changes)
	if err != nil {
		return Record{}, err
	}

	next := newRecord(cur.ID, cur.Name, scores, r.weights)
	r.records[i] = next
	r.RecalculateDistribution()

	slog.Debug("scores updated", "id", id, "changes", len(changes), "grade", next.Grade.String())
	return *next, nil
}

// UpdateWeights applies all changes to the weight vector, or none of them,
// and recomputes every record against the new vector.
func (r *Roster) UpdateWeights(changes []grade.Change) (grade.Weights, error) {
	if len(changes) == 0 {
		return r.weights, fmt.Errorf("%w: no weight changes", ErrMalformedInput)
	}
	if err := checkValues(changes); err != nil {
		return r.weights, err
	}

	w, err := r.weights.Apply(changes)
	if err != nil {
		return r.weights, err
	}
	if err := checkWeights(w); err != nil {
		return r.weights, err
	}

	records := make([]*Record, len(r.records))
	for i, rec := range r.records {
		records[i] = newRecord(rec.ID, rec.Name, rec.Scores, w)
	}

	r.weights = w
	r.records = records
	r.RecalculateDistribution()

	slog.Debug("weights updated", "sum", w.Sum(), "records", len(records))
	return w, nil
}

// RecalculateDistribution rebuilds the tally from all records.
func (r *Roster) RecalculateDistribution() {
	var d grade.Distribution
	for _, rec := range r.records {
		d.Add(rec.Grade)
	}
	r.dist = d
}

func checkStudent(s Student) error {
	if s.ID == "" || strings.ContainsFunc(s.ID, unicode.IsSpace) {
		return fmt.Errorf("%w: invalid student id %q", ErrMalformedInput, s.ID)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: student name required", ErrMalformedInput)
	}
	for i, v := range s.Scores {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s score %v", ErrMalformedInput, grade.Component(i), v)
		}
	}
	return nil
}

func checkValues(changes []grade.Change) error {
	for _, c := range changes {
		if !c.Component.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownComponent, int(c.Component))
		}
		if !isFinite(c.Value) {
			return fmt.Errorf("%w: %s value %v", ErrMalformedInput, c.Component, c.Value)
		}
	}
	return nil
}

func checkWeights(w grade.Weights) error {
	for i, v := range w {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s weight %v", ErrMalformedInput, grade.Component(i), v)
		}
	}
	if err := w.Validate(); err != nil {
		if errors.Is(err, grade.ErrNegativeWeight) {
			return fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		return err
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
