// Package search ranks a fixed snapshot of records against a free-text
// query and drives an autocomplete list over the results.
package search

import (
	"slices"
	"strings"
)

// Tier is the matching rule that produced a result set.
type Tier int

const (
	// TierAll means the query was empty and every record matched.
	TierAll Tier = iota
	// TierExact matches the primary field exactly.
	TierExact
	// TierSubstring matches the query inside any field.
	TierSubstring
	// TierFuzzy matches the query as a subsequence of all fields joined.
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "all"
	}
}

// Match is one record that satisfied a query.
type Match[T any] struct {
	Item  T
	Index int
	Tier  Tier
}

// Searcher holds a snapshot of records and their normalized fields. It does
// not observe later changes to the source slice; build a new one after the
// records change.
type Searcher[T any] struct {
	items  []T
	raw    [][]string
	norm   [][]string
	joined []string
}

// New snapshots items. fields returns the searchable text of a record; the
// first field is the primary one.
func New[T any](items []T, fields func(T) []string) *Searcher[T] {
	s := &Searcher[T]{
		items:  slices.Clone(items),
		raw:    make([][]string, len(items)),
		norm:   make([][]string, len(items)),
		joined: make([]string, len(items)),
	}
	for i, it := range s.items {
		raw := fields(it)
		norm := make([]string, len(raw))
		for j, f := range raw {
			norm[j] = Normalize(f)
		}
		s.raw[i] = raw
		s.norm[i] = norm
		s.joined[i] = strings.Join(norm, " ")
	}
	return s
}

// Len returns the number of records.
func (s *Searcher[T]) Len() int { return len(s.items) }

// Fields returns the raw fields of record i.
func (s *Searcher[T]) Fields(i int) []string { return s.raw[i] }

// Primary returns the raw primary field of record i.
func (s *Searcher[T]) Primary(i int) string {
	if len(s.raw[i]) == 0 {
		return ""
	}
	return s.raw[i][0]
}

// All returns every record in order.
func (s *Searcher[T]) All() []Match[T] {
	out := make([]Match[T], len(s.items))
	for i, it := range s.items {
		out[i] = Match[T]{Item: it, Index: i, Tier: TierAll}
	}
	return out
}

// Search returns the records matching query, in record order. The first
// tier with any match wins. An empty query matches everything.
func (s *Searcher[T]) Search(query string) []Match[T] {
	q := Normalize(query)
	if q == "" {
		return s.All()
	}

	if m := s.collect(TierExact, func(i int) bool {
		return len(s.norm[i]) > 0 && s.norm[i][0] == q
	}); len(m) > 0 {
		return m
	}

	if m := s.collect(TierSubstring, func(i int) bool {
		for _, f := range s.norm[i] {
			if strings.Contains(f, q) {
				return true
			}
		}
		return false
	}); len(m) > 0 {
		return m
	}

	return s.collect(TierFuzzy, func(i int) bool {
		return Subsequence(s.joined[i], q)
	})
}

func (s *Searcher[T]) collect(tier Tier, keep func(int) bool) []Match[T] {
	var out []Match[T]
	for i, it := range s.items {
		if keep(i) {
			out = append(out, Match[T]{Item: it, Index: i, Tier: tier})
		}
	}
	return out
}

// Normalize trims and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Subsequence reports whether the runes of query appear in text in order.
// It scans greedily and never backtracks. An empty query is not a match.
func Subsequence(text, query string) bool {
	q := []rune(query)
	if len(q) == 0 {
		return false
	}
	idx := 0
	for _, r := range text {
		if r == q[idx] {
			idx++
			if idx == len(q) {
				return true
			}
		}
	}
	return false
}
