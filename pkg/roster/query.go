package roster

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mchmarny/gradebook/pkg/grade"
)

// Ranked is a record with its 1-based position in the full roster ordering.
type Ranked struct {
	Rank   int `json:"rank" yaml:"rank"`
	Record `yaml:",inline"`
}

// Get returns a copy of the record of id.
func (r *Roster) Get(id string) (Record, error) {
	i, ok := r.index[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *r.records[i], nil
}

// Scores returns the raw component scores of id.
func (r *Roster) Scores(id string) (grade.Scores, error) {
	rec, err := r.Get(id)
	if err != nil {
		return grade.Scores{}, err
	}
	return rec.Scores, nil
}

// LetterGrade returns the current letter grade of id.
func (r *Roster) LetterGrade(id string) (grade.Letter, error) {
	rec, err := r.Get(id)
	if err != nil {
		return grade.E, err
	}
	return rec.Grade, nil
}

// Average returns the current weighted average of id.
func (r *Roster) Average(id string) (float64, error) {
	rec, err := r.Get(id)
	if err != nil {
		return 0, err
	}
	return rec.Average, nil
}

// Rank returns the 1-based position of id when all records are sorted by
// average, highest first. Equal averages keep insertion order.
func (r *Roster) Rank(id string) (int, error) {
	if _, ok := r.index[id]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for _, rr := range r.Ranking() {
		if rr.ID == id {
			return rr.Rank, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Ranking returns all records sorted by average, highest first.
func (r *Roster) Ranking() []Ranked {
	sorted := slices.Clone(r.records)
	slices.SortStableFunc(sorted, func(a, b *Record) int {
		return cmp.Compare(b.Average, a.Average)
	})

	list := make([]Ranked, len(sorted))
	for i, rec := range sorted {
		list[i] = Ranked{Rank: i + 1, Record: *rec}
	}
	return list
}

// Filter returns the records with an average strictly above threshold,
// highest first. Ranks are positions in the full roster ordering, not within
// the filtered subset.
func (r *Roster) Filter(threshold float64) []Ranked {
	list := make([]Ranked, 0)
	for _, rr := range r.Ranking() {
		if rr.Average > threshold {
			list = append(list, rr)
		}
	}
	return list
}
