package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
	"github.com/pfrederiksen/lotto-analyzer/internal/frequency"
	"github.com/pfrederiksen/lotto-analyzer/internal/generator"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// Options controls how much an Analysis contains
type Options struct {
	Top     int // numbers per ranking
	Entries int // candidate entries
}

// DefaultOptions matches the classic report: ten per ranking, five entries
var DefaultOptions = Options{Top: 10, Entries: 5}

// Analysis is the frequency report for one lottery
type Analysis struct {
	RunID         string                 `json:"run_id"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Lottery       string                 `json:"lottery"`
	Name          string                 `json:"name"`
	Profile       draw.Profile           `json:"profile"`
	TotalDraws    int                    `json:"total_draws"`
	UniqueNumbers int                    `json:"unique_numbers"`
	MostFrequent  []frequency.Ranked     `json:"most_frequent"`
	LeastFrequent []frequency.Ranked     `json:"least_frequent"`
	Entries       []generator.BatchEntry `json:"entries"`
}

// Build analyzes draws for profile and generates candidate entries with gen
func Build(profile draw.Profile, draws []draw.Draw, gen *generator.Generator, opts Options) *Analysis {
	table := frequency.Compute(draws)

	return &Analysis{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		Lottery:       profile.ID,
		Name:          profile.Name,
		Profile:       profile,
		TotalDraws:    len(draws),
		UniqueNumbers: table.Len(),
		MostFrequent:  table.MostFrequent(opts.Top),
		LeastFrequent: table.LeastFrequent(opts.Top),
		Entries:       gen.Batch(profile, table, opts.Entries),
	}
}

// Write writes analyses in the specified format
func Write(w io.Writer, analyses []*Analysis, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, analyses)
	case FormatText:
		return writeText(w, analyses)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, analyses []*Analysis) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Analyses []*Analysis `json:"analyses"`
	}{analyses})
}

func writeText(w io.Writer, analyses []*Analysis) error {
	p := message.NewPrinter(language.English)

	for _, a := range analyses {
		title := strings.ToUpper(a.Lottery)

		if a.TotalDraws == 0 {
			fmt.Fprintf(w, "No data available for %s\n", title)
		} else {
			fmt.Fprintf(w, "\n=== %s FREQUENCY ANALYSIS ===\n", title)

			fmt.Fprintln(w, "\nMost Frequent Numbers:")
			for _, r := range a.MostFrequent {
				fmt.Fprintf(w, "  %2d: drawn %3d times\n", r.Number, r.Count)
			}

			fmt.Fprintln(w, "\nLeast Frequent Numbers:")
			for _, r := range a.LeastFrequent {
				fmt.Fprintf(w, "  %2d: drawn %3d times\n", r.Number, r.Count)
			}

			p.Fprintf(w, "\nTotal draws analyzed: %d\n", a.TotalDraws)
			fmt.Fprintf(w, "Total unique numbers: %d\n", a.UniqueNumbers)
		}

		fmt.Fprintf(w, "\n=== %s CANDIDATE ENTRIES ===\n", title)
		for _, e := range a.Entries {
			fmt.Fprintf(w, "Entry %d (%8s): %s\n", e.Index+1, e.Strategy, FormatEntry(e.Numbers))
		}

		fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 60))
	}

	return nil
}

// FormatEntry renders an entry as " 3 -  7 - 12"
func FormatEntry(entry generator.Entry) string {
	parts := make([]string, len(entry))
	for i, n := range entry {
		parts[i] = fmt.Sprintf("%2d", n)
	}
	return strings.Join(parts, " - ")
}
