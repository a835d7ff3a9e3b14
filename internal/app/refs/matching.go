package refs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const maxCandidates = 8

type Candidate struct {
	ID   string
	Name string
	Rank int
}

type AmbiguousMatchError struct {
	Entity  string
	Input   string
	Matches []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous %s match for %q; matches: %s", e.Entity, e.Input, strings.Join(e.Matches, ", "))
}

type NotFoundError struct {
	Entity string
	Input  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matches %q", e.Entity, e.Input)
}

func StripIDPrefix(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(strings.ToLower(value), "id:") {
		return strings.TrimSpace(value[3:])
	}
	return value
}

func LooksLikeID(value string) bool {
	value = strings.TrimSpace(value)
	if _, err := strconv.ParseUint(value, 10, 64); err == nil {
		return true
	}
	if len(value) != 16 {
		return false
	}
	var digit, upper, lower bool
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		default:
			return false
		}
	}
	return digit && (upper || lower)
}

func NormalizeRef(value string) (normalized string, directID bool) {
	original := strings.TrimSpace(value)
	if original == "" {
		return "", false
	}
	explicitID := strings.HasPrefix(strings.ToLower(original), "id:")
	normalized = StripIDPrefix(original)
	return normalized, explicitID || LooksLikeID(normalized)
}

func Match[T any](entity, value string, items []T, nameFn func(T) string, idFn func(T) string) (string, error) {
	normalized, _ := NormalizeRef(value)
	for _, item := range items {
		if idFn(item) == normalized {
			return idFn(item), nil
		}
	}
	for _, item := range items {
		if strings.EqualFold(strings.TrimSpace(nameFn(item)), normalized) {
			return idFn(item), nil
		}
	}
	id, candidates := ResolveFuzzy(normalized, items, nameFn, idFn)
	if id != "" {
		return id, nil
	}
	if len(candidates) > 0 {
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.Name)
		}
		return "", &AmbiguousMatchError{Entity: entity, Input: value, Matches: names}
	}
	return "", &NotFoundError{Entity: entity, Input: value}
}

func FuzzyCandidates[T any](value string, items []T, nameFn func(T) string, idFn func(T) string) []Candidate {
	var out []Candidate
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return nil
	}
	for _, item := range items {
		name := strings.TrimSpace(nameFn(item))
		if rank, ok := candidateRank(lower, strings.ToLower(name)); ok {
			out = append(out, Candidate{ID: idFn(item), Name: name, Rank: rank})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

func ResolveFuzzy[T any](value string, items []T, nameFn func(T) string, idFn func(T) string) (string, []Candidate) {
	candidates := FuzzyCandidates(value, items, nameFn, idFn)
	switch {
	case len(candidates) == 1:
		return candidates[0].ID, nil
	case len(candidates) > 1 && candidates[0].Rank == 0 && candidates[1].Rank > 0:
		return candidates[0].ID, nil
	default:
		return "", candidates
	}
}

func candidateRank(query, target string) (int, bool) {
	if query == "" || target == "" {
		return 0, false
	}
	if target == query {
		return 0, true
	}
	if strings.HasPrefix(target, query) {
		return 100 + len(target) - len(query), true
	}
	if idx := strings.Index(target, query); idx >= 0 {
		return 200 + (idx * 8) + (len(target) - len(query)), true
	}
	if gap, ok := subsequenceGap(query, target); ok {
		return 400 + gap + (len(target) - len(query)), true
	}
	return 0, false
}

func subsequenceGap(query, target string) (int, bool) {
	qi := 0
	prev := -1
	gap := 0
	for ti := 0; ti < len(target) && qi < len(query); ti++ {
		if target[ti] != query[qi] {
			continue
		}
		if prev >= 0 {
			gap += ti - prev - 1
		}
		prev = ti
		qi++
	}
	return gap, qi == len(query)
}
