package frequency

import (
	"sort"

	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
)

// Table maps each number to how many times it was drawn
type Table struct {
	counts map[int]int
	order  []int // first-seen order
}

// Ranked is a (number, count) pair in a ranking
type Ranked struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{counts: make(map[int]int)}
}

// Compute builds a table from the numbers of every draw
func Compute(draws []draw.Draw) *Table {
	t := NewTable()
	for _, d := range draws {
		t.add(d.Numbers)
	}
	return t
}

// ComputeNumbers builds a table from raw number lists
func ComputeNumbers(draws [][]int) *Table {
	t := NewTable()
	for _, numbers := range draws {
		t.add(numbers)
	}
	return t
}

func (t *Table) add(numbers []int) {
	for _, n := range numbers {
		if _, seen := t.counts[n]; !seen {
			t.order = append(t.order, n)
		}
		t.counts[n]++
	}
}

// Set records count for n. A number not yet in the table is appended to the
// tie-break order, so zero counts can be represented explicitly.
func (t *Table) Set(n, count int) {
	if _, seen := t.counts[n]; !seen {
		t.order = append(t.order, n)
	}
	t.counts[n] = count
}

// Len returns the number of distinct numbers seen
func (t *Table) Len() int {
	return len(t.order)
}

// Empty reports whether no draws contributed to the table
func (t *Table) Empty() bool {
	return len(t.order) == 0
}

// Count returns how many times n was drawn
func (t *Table) Count(n int) int {
	return t.counts[n]
}

// Total returns the sum of all counts
func (t *Table) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Numbers returns the distinct numbers in first-seen order
func (t *Table) Numbers() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// Counts returns a copy of the number to count mapping
func (t *Table) Counts() map[int]int {
	out := make(map[int]int, len(t.counts))
	for n, c := range t.counts {
		out[n] = c
	}
	return out
}

// MostFrequent returns up to k numbers ordered by count, highest first
func (t *Table) MostFrequent(k int) []Ranked {
	return t.rank(k, func(a, b int) bool { return a > b })
}

// LeastFrequent returns up to k numbers ordered by count, lowest first
func (t *Table) LeastFrequent(k int) []Ranked {
	return t.rank(k, func(a, b int) bool { return a < b })
}

func (t *Table) rank(k int, before func(a, b int) bool) []Ranked {
	if k <= 0 || len(t.order) == 0 {
		return []Ranked{}
	}

	ranked := make([]Ranked, len(t.order))
	for i, n := range t.order {
		ranked[i] = Ranked{Number: n, Count: t.counts[n]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return before(ranked[i].Count, ranked[j].Count)
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// NumbersOf extracts the numbers from a ranking, keeping its order
func NumbersOf(ranked []Ranked) []int {
	out := make([]int, len(ranked))
	for i, r := range ranked {
		out[i] = r.Number
	}
	return out
}
