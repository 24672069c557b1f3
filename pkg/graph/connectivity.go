package graph

import "github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

// Connectivity summarises unified degrees over a population.
type Connectivity struct {
	Population int `json:"population"`
	// Edges is the number of distinct stored edges. Every edge is seen
	// from both endpoints, so it is half the degree sum when both
	// endpoints are in the population.
	Edges    int `json:"edges"`
	Expected int `json:"expected"`
	// Weak holds connected entities whose degree is below Expected.
	Weak []common.Ref `json:"weak,omitempty"`
	// Isolated holds entities with no relations at all.
	Isolated []common.Ref `json:"isolated,omitempty"`
}

// ExpectedConnections is floor(n*(n-1)/divisor); divisor <= 0 means 4.
func ExpectedConnections(n, divisor int) int {
	if divisor <= 0 {
		divisor = 4
	}
	if n < 2 {
		return 0
	}
	return n * (n - 1) / divisor
}

// Measure computes connectivity for a population of unified views.
// ref extracts the identity of the entity behind a view.
//
// An entity is weak when it has relations but fewer than Expected.
// Entities without relations go to Isolated instead, independent of
// Expected.
func Measure[E any, R any](views []View[E, R], ref func(E) common.Ref, divisor int) Connectivity {
	c := Connectivity{
		Population: len(views),
		Expected:   ExpectedConnections(len(views), divisor),
	}
	if len(views) == 0 {
		return c
	}

	degreeSum := 0
	for _, v := range views {
		degreeSum += v.Len()
	}
	c.Edges = (degreeSum + 1) / 2

	for _, v := range views {
		switch {
		case v.Len() == 0:
			c.Isolated = append(c.Isolated, ref(v.Entity))
		case v.Len() < c.Expected:
			c.Weak = append(c.Weak, ref(v.Entity))
		}
	}
	return c
}
