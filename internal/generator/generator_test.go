package generator

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
	"github.com/pfrederiksen/lotto-analyzer/internal/frequency"
)

func scenarioTable() *frequency.Table {
	t := frequency.NewTable()
	t.Set(7, 10)
	t.Set(13, 9)
	t.Set(20, 8)
	t.Set(23, 7)
	t.Set(31, 6)
	t.Set(34, 5)
	t.Set(1, 0)
	t.Set(2, 0)
	return t
}

func historyTable() *frequency.Table {
	return frequency.ComputeNumbers([][]int{
		{3, 7, 12, 23, 31, 45},
		{7, 9, 12, 18, 31, 40},
		{1, 7, 12, 22, 33, 49},
		{5, 7, 14, 23, 38, 44},
		{2, 11, 12, 29, 31, 47},
	})
}

func assertValidEntry(t *testing.T, profile draw.Profile, entry Entry) {
	t.Helper()

	require.Len(t, entry, profile.Picks)
	assert.True(t, sort.IntsAreSorted(entry), "entry not ascending: %v", entry)

	seen := make(map[int]bool)
	for _, n := range entry {
		assert.False(t, seen[n], "duplicate %d in %v", n, entry)
		seen[n] = true
		assert.True(t, profile.Contains(n), "%d outside %d..%d", n, profile.Min, profile.Max)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"hot", Hot},
		{"cold", Cold},
		{"balanced", Balanced},
		{"random", Random},
		{"HOT", Hot},
		{" cold ", Cold},
		{"", Balanced},
		{"lucky", Balanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStrategy(tt.name))
		})
	}
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "hot", Hot.String())
	assert.Equal(t, "cold", Cold.String())
	assert.Equal(t, "balanced", Balanced.String())
	assert.Equal(t, "random", Random.String())
	assert.Equal(t, "balanced", Strategy(42).String())
}

func TestEntry_ValidForEveryStrategy(t *testing.T) {
	g := NewSeeded(1)

	for _, id := range []string{draw.Lotto649, draw.LottoMax} {
		profile := draw.ProfileFor(id)
		for _, table := range []*frequency.Table{scenarioTable(), historyTable()} {
			for _, s := range append(Strategies(), Strategy(99)) {
				for i := 0; i < 50; i++ {
					assertValidEntry(t, profile, g.Entry(profile, table, s))
				}
			}
		}
	}
}

func TestEntry_Cold(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)
	entry := NewSeeded(7).Entry(profile, scenarioTable(), Cold)

	// the six least frequent: 1, 2 (never drawn) then 34, 31, 23, 20
	assert.Equal(t, Entry{1, 2, 20, 23, 31, 34}, entry)
}

func TestEntry_HotKeepsTopRanked(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)
	g := NewSeeded(3)

	for i := 0; i < 100; i++ {
		entry := g.Entry(profile, scenarioTable(), Hot)
		assertValidEntry(t, profile, entry)
		for _, n := range []int{7, 13, 20, 23, 31} {
			assert.Contains(t, entry, n)
		}
	}
}

func TestEntry_HotLastSlotIsRandom(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)
	g := NewSeeded(11)
	top := map[int]bool{7: true, 13: true, 20: true, 23: true, 31: true}

	extras := make(map[int]bool)
	for i := 0; i < 500; i++ {
		for _, n := range g.Entry(profile, scenarioTable(), Hot) {
			if !top[n] {
				extras[n] = true
			}
		}
	}

	// a greedy pick would always be 34
	assert.Greater(t, len(extras), 10)
}

func TestEntry_Balanced(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)
	entry := NewSeeded(5).Entry(profile, scenarioTable(), Balanced)

	// three hottest plus three coldest, no random fill for an even pick count
	assert.Equal(t, Entry{1, 2, 7, 13, 20, 34}, entry)
}

func TestEntry_BalancedOddPicksFillsRandomly(t *testing.T) {
	profile := draw.ProfileFor(draw.LottoMax)
	g := NewSeeded(9)

	for i := 0; i < 100; i++ {
		entry := g.Entry(profile, scenarioTable(), Balanced)
		assertValidEntry(t, profile, entry)
		for _, n := range []int{7, 13, 20, 1, 2, 34} {
			assert.Contains(t, entry, n)
		}
	}
}

func TestEntry_UnknownStrategyFallsBackToBalanced(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)

	got := NewSeeded(5).Entry(profile, scenarioTable(), ParseStrategy("lucky"))
	want := NewSeeded(5).Entry(profile, scenarioTable(), Balanced)
	assert.Equal(t, want, got)
}

func TestEntry_EmptyTableIsRandom(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)

	for _, s := range append(Strategies(), ParseStrategy("unknown")) {
		t.Run(s.String(), func(t *testing.T) {
			got := NewSeeded(42).Entry(profile, frequency.NewTable(), s)
			want := NewSeeded(42).Entry(profile, nil, Random)
			assertValidEntry(t, profile, got)
			assert.Equal(t, want, got)
		})
	}
}

func TestEntry_EmptyTableDistribution(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)
	g := NewSeeded(2024)
	const trials = 20000

	hits := make(map[int]int)
	for i := 0; i < trials; i++ {
		for _, n := range g.Entry(profile, frequency.NewTable(), Cold) {
			hits[n]++
		}
	}

	expected := float64(trials*profile.Picks) / float64(profile.Size())
	require.Len(t, hits, profile.Size())
	for n := profile.Min; n <= profile.Max; n++ {
		assert.InDelta(t, expected, float64(hits[n]), expected*0.15, "number %d", n)
	}
}

func TestEntry_SparseHistoryStillFull(t *testing.T) {
	profile := draw.ProfileFor(draw.LottoMax)
	table := frequency.ComputeNumbers([][]int{{4, 9}})
	g := NewSeeded(8)

	for _, s := range Strategies() {
		assertValidEntry(t, profile, g.Entry(profile, table, s))
	}
}

func TestEntry_IgnoresOutOfRangeHistory(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)
	table := frequency.ComputeNumbers([][]int{{0, 50, 99, 5}, {50, 99, 0}})
	g := NewSeeded(4)

	for _, s := range Strategies() {
		assertValidEntry(t, profile, g.Entry(profile, table, s))
	}
}

func TestEntry_Reproducible(t *testing.T) {
	profile := draw.ProfileFor(draw.LottoMax)
	a := NewSeeded(77).Batch(profile, historyTable(), 10)
	b := NewSeeded(77).Batch(profile, historyTable(), 10)
	assert.Equal(t, a, b)
}

func TestBatch(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)
	g := NewSeeded(1)

	t.Run("rotation of five", func(t *testing.T) {
		batch := g.Batch(profile, historyTable(), 5)
		require.Len(t, batch, 5)

		labels := make([]string, len(batch))
		for i, e := range batch {
			labels[i] = e.Strategy.String()
			assert.Equal(t, i, e.Index)
			assertValidEntry(t, profile, e.Numbers)
		}
		assert.Equal(t, []string{"hot", "balanced", "cold", "random", "hot"}, labels)
	})

	t.Run("wraps around", func(t *testing.T) {
		batch := g.Batch(profile, historyTable(), 12)
		require.Len(t, batch, 12)
		for i, e := range batch {
			assert.Equal(t, Rotation[i%5], e.Strategy)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, g.Batch(profile, historyTable(), 0))
		assert.Empty(t, g.Batch(profile, historyTable(), -3))
	})

	t.Run("empty history", func(t *testing.T) {
		for _, e := range g.Batch(profile, frequency.NewTable(), 7) {
			assertValidEntry(t, profile, e.Numbers)
		}
	})
}
