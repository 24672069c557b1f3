// Package distribution counts categorical values over entity collections.
package distribution

import (
	"math"
	"slices"
)

// DefaultQuantile is the share of keys reported as underrepresented.
const DefaultQuantile = 0.25

// Bucket is the count and share of one category.
type Bucket struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Report is a distribution in key order: canonical order when a canonical
// enumeration was given, first occurrence otherwise.
type Report []Bucket

// CountBy groups items by the key extractor returns and reports count and
// percentage per key. When canonical keys are given every one of them is
// present, even at zero, and keys outside the set are ignored. Percentages
// are relative to len(items) and are 0 for an empty collection.
func CountBy[T any](items []T, extractor func(T) string, canonical ...string) Report {
	var (
		report Report
		index  = make(map[string]int)
	)
	for _, key := range canonical {
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = len(report)
		report = append(report, Bucket{Key: key})
	}

	for _, item := range items {
		key := extractor(item)
		i, ok := index[key]
		if !ok {
			if len(canonical) > 0 {
				continue
			}
			i = len(report)
			index[key] = i
			report = append(report, Bucket{Key: key})
		}
		report[i].Count++
	}

	total := len(items)
	for i := range report {
		if total == 0 {
			report[i].Percentage = 0
			continue
		}
		report[i].Percentage = float64(report[i].Count) / float64(total) * 100
	}
	return report
}

// Strings counts a pre-flattened list of keys.
func Strings(keys []string, canonical ...string) Report {
	return CountBy(keys, func(s string) string { return s }, canonical...)
}

// Flatten expands one-to-many categorical fields into a flat key list.
// A nil slice from extractor contributes nothing.
func Flatten[T any](items []T, extractor func(T) []string) []string {
	var out []string
	for _, item := range items {
		out = append(out, extractor(item)...)
	}
	return out
}

// Get returns the bucket for key.
func (r Report) Get(key string) (Bucket, bool) {
	for _, b := range r {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

// Total sums all counts.
func (r Report) Total() int {
	n := 0
	for _, b := range r {
		n += b.Count
	}
	return n
}

// Underrepresented returns the ceil(quantile * len(r)) keys with the lowest
// percentage, ascending. Equal percentages keep report order. A quantile
// outside (0, 1] falls back to DefaultQuantile.
func (r Report) Underrepresented(quantile float64) []string {
	if len(r) == 0 {
		return nil
	}
	if quantile <= 0 || quantile > 1 {
		quantile = DefaultQuantile
	}

	sorted := slices.Clone(r)
	slices.SortStableFunc(sorted, func(a, b Bucket) int {
		switch {
		case a.Percentage < b.Percentage:
			return -1
		case a.Percentage > b.Percentage:
			return 1
		default:
			return 0
		}
	})

	n := int(math.Ceil(quantile * float64(len(sorted))))
	keys := make([]string, 0, n)
	for _, b := range sorted[:n] {
		keys = append(keys, b.Key)
	}
	return keys
}
