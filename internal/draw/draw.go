package draw

import (
	"crypto/sha1"
	"fmt"
	"strconv"
	"strings"
)

// Draw represents one historical lottery drawing
type Draw struct {
	Lottery     string `json:"lottery"`
	Date        string `json:"date"` // YYYY-MM-DD
	DrawNumber  int    `json:"draw_number,omitempty"`
	Numbers     []int  `json:"numbers"`
	Bonus       int    `json:"bonus,omitempty"`
	Jackpot     int64  `json:"jackpot,omitempty"`
	MaxMillions int    `json:"max_millions,omitempty"`
}

// ID returns a deterministic identifier built from the lottery, date and numbers.
// Two scraped rows describing the same drawing share an ID.
func (d Draw) ID() string {
	h := sha1.New()
	h.Write([]byte(d.Lottery + "|" + d.Date + "|" + FormatNumbers(d.Numbers)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Draw, copying numbers so the caller's slice can be reused
func New(lottery, date string, numbers []int) Draw {
	n := make([]int, len(numbers))
	copy(n, numbers)
	return Draw{
		Lottery: lottery,
		Date:    date,
		Numbers: n,
	}
}

// ParseNumbers decodes the comma-separated encoding used by the draw store.
// Tokens that are not plain digits are skipped rather than rejected.
func ParseNumbers(s string) []int {
	parts := strings.Split(s, ",")
	numbers := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !isDigits(p) {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// FormatNumbers encodes numbers as "3,7,12"
func FormatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
