// Package sample generates synthetic draw histories for trying the analyzer
// without scraping. Draws follow each lottery's twice-weekly schedule and are
// biased toward a fixed set of hot numbers so that the analysis has something
// to find.
package sample

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
)

// Schedule describes how a lottery's synthetic history is shaped
type Schedule struct {
	Weekdays    []time.Weekday
	HotNumbers  []int
	HotBias     float64 // chance a pick comes from HotNumbers
	JackpotMin  int64
	JackpotMax  int64
	MaxMillions bool
}

// Schedules holds the shapes of the known lotteries
var Schedules = map[string]Schedule{
	draw.Lotto649: {
		Weekdays:   []time.Weekday{time.Wednesday, time.Saturday},
		HotNumbers: []int{7, 13, 20, 23, 31, 34, 38, 42, 45},
		HotBias:    0.30,
		JackpotMin: 5_000_000,
		JackpotMax: 50_000_000,
	},
	draw.LottoMax: {
		Weekdays:    []time.Weekday{time.Tuesday, time.Friday},
		HotNumbers:  []int{7, 14, 21, 28, 33, 39, 42, 46, 49},
		HotBias:     0.25,
		JackpotMin:  10_000_000,
		JackpotMax:  70_000_000,
		MaxMillions: true,
	},
}

// Generator produces synthetic draws from a seedable source
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator drawing from src
func New(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeeded creates a Generator whose output is fully determined by seed
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, ^seed))
}

// Generate returns draws for profile covering the years before now, oldest first.
// Lotteries without a Schedule get a twice-weekly unbiased history.
func (g *Generator) Generate(profile draw.Profile, years int, now time.Time) []draw.Draw {
	schedule, ok := Schedules[profile.ID]
	if !ok {
		schedule = Schedule{
			Weekdays:   []time.Weekday{time.Wednesday, time.Saturday},
			JackpotMin: 1_000_000,
			JackpotMax: 10_000_000,
		}
	}

	drawDays := make(map[time.Weekday]bool, len(schedule.Weekdays))
	for _, wd := range schedule.Weekdays {
		drawDays[wd] = true
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -years*365)

	draws := make([]draw.Draw, 0)
	drawNumber := 1
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !drawDays[day.Weekday()] {
			continue
		}

		numbers := g.pick(profile, schedule)
		d := draw.New(profile.ID, day.Format("2006-01-02"), numbers)
		d.DrawNumber = drawNumber
		d.Bonus = g.bonus(profile, numbers)
		d.Jackpot = schedule.JackpotMin + g.rng.Int64N(schedule.JackpotMax-schedule.JackpotMin+1)
		if schedule.MaxMillions && g.rng.Float64() < 0.3 {
			d.MaxMillions = g.rng.IntN(11)
		}

		draws = append(draws, d)
		drawNumber++
	}

	return draws
}

// pick draws Picks distinct numbers, each with a HotBias chance of coming from the hot set
func (g *Generator) pick(profile draw.Profile, schedule Schedule) []int {
	chosen := make(map[int]bool, profile.Picks)
	numbers := make([]int, 0, profile.Picks)

	for len(numbers) < profile.Picks {
		var n int
		if len(schedule.HotNumbers) > 0 && g.rng.Float64() < schedule.HotBias {
			n = schedule.HotNumbers[g.rng.IntN(len(schedule.HotNumbers))]
		} else {
			n = profile.Min + g.rng.IntN(profile.Size())
		}

		if !profile.Contains(n) || chosen[n] {
			continue
		}
		chosen[n] = true
		numbers = append(numbers, n)
	}

	sort.Ints(numbers)
	return numbers
}

// bonus draws a number from the profile range outside numbers, or 0 if none is left
func (g *Generator) bonus(profile draw.Profile, numbers []int) int {
	if len(numbers) >= profile.Size() {
		return 0
	}
	taken := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		taken[n] = true
	}
	for {
		n := profile.Min + g.rng.IntN(profile.Size())
		if !taken[n] {
			return n
		}
	}
}
