package generator

import (
	"math/rand/v2"
	"sort"

	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
	"github.com/pfrederiksen/lotto-analyzer/internal/frequency"
)

// Entry is an ascending list of distinct numbers proposed for play
type Entry []int

// BatchEntry is one entry of a batch together with the strategy that produced it
type BatchEntry struct {
	Index    int      `json:"index"` // 0-based position in the batch
	Strategy Strategy `json:"strategy"`
	Numbers  Entry    `json:"numbers"`
}

// Generator builds entries using an injected random source
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator drawing from src
func New(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeeded creates a Generator whose output is fully determined by seed
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Entry generates one entry for profile using strategy.
// With an empty table every strategy produces a purely random entry.
func (g *Generator) Entry(profile draw.Profile, table *frequency.Table, strategy Strategy) Entry {
	if table == nil || table.Empty() {
		return g.random(profile)
	}

	var selected []int
	switch strategy {
	case Hot:
		// All but the last slot come from the top of the ranking; the last is a
		// uniform pick from everything not yet chosen.
		hot := inRange(profile, frequency.NumbersOf(table.MostFrequent(2*profile.Picks)))
		selected = take(hot, profile.Picks-1)
	case Cold:
		cold := inRange(profile, frequency.NumbersOf(table.LeastFrequent(2*profile.Picks)))
		selected = take(cold, profile.Picks)
	case Random:
		return g.random(profile)
	default:
		half := profile.Picks / 2
		hot := inRange(profile, frequency.NumbersOf(table.MostFrequent(profile.Picks)))
		cold := inRange(profile, frequency.NumbersOf(table.LeastFrequent(profile.Picks)))
		selected = appendDistinct(take(hot, half), take(cold, half))
	}

	return sorted(g.fill(profile, selected, profile.Picks))
}

// Batch generates n entries cycling through Rotation
func (g *Generator) Batch(profile draw.Profile, table *frequency.Table, n int) []BatchEntry {
	if n <= 0 {
		return []BatchEntry{}
	}

	entries := make([]BatchEntry, n)
	for i := 0; i < n; i++ {
		strategy := Rotation[i%len(Rotation)]
		entries[i] = BatchEntry{
			Index:    i,
			Strategy: strategy,
			Numbers:  g.Entry(profile, table, strategy),
		}
	}
	return entries
}

func (g *Generator) random(profile draw.Profile) Entry {
	return sorted(g.fill(profile, nil, profile.Picks))
}

// fill appends uniform picks from the unselected part of the profile range
// until selected holds target numbers
func (g *Generator) fill(profile draw.Profile, selected []int, target int) []int {
	if len(selected) >= target {
		return selected
	}

	chosen := make(map[int]bool, len(selected))
	for _, n := range selected {
		chosen[n] = true
	}

	pool := make([]int, 0, profile.Size())
	for n := profile.Min; n <= profile.Max; n++ {
		if !chosen[n] {
			pool = append(pool, n)
		}
	}

	for len(selected) < target && len(pool) > 0 {
		i := g.rng.IntN(len(pool))
		selected = append(selected, pool[i])
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return selected
}

func take(numbers []int, k int) []int {
	if k < 0 {
		k = 0
	}
	if k > len(numbers) {
		k = len(numbers)
	}
	out := make([]int, k)
	copy(out, numbers[:k])
	return out
}

// inRange drops numbers a malformed history may have introduced outside the profile
func inRange(profile draw.Profile, numbers []int) []int {
	out := numbers[:0:0]
	for _, n := range numbers {
		if profile.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func appendDistinct(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, list := range [][]int{a, b} {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func sorted(numbers []int) Entry {
	out := make(Entry, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}
