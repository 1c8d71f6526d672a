package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
	"github.com/pfrederiksen/lotto-analyzer/internal/logger"
)

const (
	Lotto649URL = "https://www.olg.ca/en/lottery/play-lotto-649-encore/past-results.html"
	LottoMaxURL = "https://www.olg.ca/en/lottery/play-lotto-max-encore/past-results.html"
	UserAgent   = "lotto-analyzer/1.0 (github.com/pfrederiksen/lotto-analyzer)"
	Timeout     = 30 * time.Second
	MaxRetries  = 3
)

var (
	drawResultsPattern = regexp.MustCompile(`(?s)drawResults\s*=\s*(\[.*?\]);`)
	isoDatePattern     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	longDatePattern    = regexp.MustCompile(`(\w+\s+\d{1,2},\s+\d{4})`)
	numberPattern      = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// Scraper handles fetching and parsing past lottery results
type Scraper struct {
	client    *http.Client
	urls      map[string]string
	userAgent string
	profiles  *draw.Registry
	backoff   func() backoff.BackOff
}

// Option configures a Scraper
type Option func(*Scraper)

// WithTimeout overrides the HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithURL points a lottery at a different results page
func WithURL(lotteryID, url string) Option {
	return func(s *Scraper) {
		s.urls[lotteryID] = url
	}
}

// WithRegistry sets the profiles used to filter scraped numbers
func WithRegistry(reg *draw.Registry) Option {
	return func(s *Scraper) {
		s.profiles = reg
	}
}

// WithBackOff sets the retry policy for transient fetch failures
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *Scraper) {
		s.backoff = newBackOff
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxElapsedTime = time.Minute
	return backoff.WithMaxRetries(b, MaxRetries)
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		urls: map[string]string{
			draw.Lotto649: Lotto649URL,
			draw.LottoMax: LottoMaxURL,
		},
		userAgent: UserAgent,
		profiles:  draw.DefaultRegistry(),
		backoff:   defaultBackOff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchDraws fetches and parses the past results page for a lottery
func (s *Scraper) FetchDraws(ctx context.Context, lotteryID string) ([]draw.Draw, error) {
	url, ok := s.urls[lotteryID]
	if !ok {
		return nil, fmt.Errorf("no results page for lottery %q", lotteryID)
	}

	start := time.Now()
	defer func() {
		logger.RecordTiming("scraper.fetch", time.Since(start))
	}()

	var draws []draw.Draw
	fetch := func() error {
		var err error
		draws, err = s.fetchOnce(ctx, url, lotteryID)
		return err
	}
	retryLog := func(err error, wait time.Duration) {
		logger.IncrCounter("scraper.fetch_retries")
		logger.Warn("Fetch failed, retrying", logger.Fields{
			"lottery": lotteryID,
			"error":   err.Error(),
			"wait":    wait.String(),
		})
	}

	if err := backoff.RetryNotify(fetch, backoff.WithContext(s.backoff(), ctx), retryLog); err != nil {
		logger.IncrCounter("scraper.fetch_errors")
		return nil, err
	}

	logger.Info("Fetched past results", logger.Fields{
		"lottery": lotteryID,
		"url":     url,
		"draws":   len(draws),
	})
	return draws, nil
}

// fetchOnce performs a single GET. Server errors and transport failures are
// retryable; other statuses and parse failures are permanent.
func (s *Scraper) fetchOnce(ctx context.Context, url, lotteryID string) ([]draw.Draw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	draws, err := s.parseDraws(resp.Body, lotteryID)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return draws, nil
}

// parseDraws extracts draws from a results page
func (s *Scraper) parseDraws(r io.Reader, lotteryID string) ([]draw.Draw, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	profile := s.profiles.ProfileFor(lotteryID)

	draws := parseScriptResults(doc, lotteryID)
	if len(draws) == 0 {
		draws = parseTableResults(doc, lotteryID, profile)
	}

	// Deduplicate draws by ID
	seen := make(map[string]bool)
	unique := make([]draw.Draw, 0, len(draws))
	for _, d := range draws {
		id := d.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, d)
		}
	}

	return unique, nil
}

// scriptDraw is one element of an embedded drawResults array
type scriptDraw struct {
	DrawDate       string  `json:"drawDate"`
	WinningNumbers numbers `json:"winningNumbers"`
	BonusNumber    *int    `json:"bonusNumber"`
}

// numbers accepts [1,2,3], ["1","2","3"] or "1,2,3"
type numbers []int

func (n *numbers) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err == nil {
		*n = ints
		return nil
	}

	var strs []string
	if err := json.Unmarshal(data, &strs); err == nil {
		out := make([]int, 0, len(strs))
		for _, s := range strs {
			v, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("winning number %q: %w", s, err)
			}
			out = append(out, v)
		}
		*n = out
		return nil
	}

	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return fmt.Errorf("unsupported winningNumbers: %s", data)
	}
	*n = draw.ParseNumbers(csv)
	return nil
}

func parseScriptResults(doc *goquery.Document, lotteryID string) []draw.Draw {
	draws := make([]draw.Draw, 0)

	doc.Find("script").Each(func(i int, sel *goquery.Selection) {
		text := sel.Text()
		if !strings.Contains(text, "drawResults") {
			return
		}

		match := drawResultsPattern.FindStringSubmatch(text)
		if match == nil {
			return
		}

		var results []scriptDraw
		if err := json.Unmarshal([]byte(match[1]), &results); err != nil {
			logger.Debug("Could not parse drawResults JSON", logger.Fields{
				"lottery": lotteryID,
				"error":   err.Error(),
			})
			return
		}

		for _, r := range results {
			if r.DrawDate == "" || len(r.WinningNumbers) == 0 {
				continue
			}
			d := draw.New(lotteryID, normalizeDate(r.DrawDate), r.WinningNumbers)
			if r.BonusNumber != nil {
				d.Bonus = *r.BonusNumber
			}
			draws = append(draws, d)
		}
	})

	return draws
}

func parseTableResults(doc *goquery.Document, lotteryID string, profile draw.Profile) []draw.Draw {
	draws := make([]draw.Draw, 0)

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		table.Find("tr").Each(func(j int, row *goquery.Selection) {
			if j == 0 {
				return // header
			}

			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return
			}

			date := extractDate(strings.TrimSpace(cells.Eq(0).Text()))
			if date == "" {
				return
			}

			nums := extractNumbers(cells.Eq(1).Text(), profile)
			if len(nums) < profile.Picks {
				return
			}

			d := draw.New(lotteryID, date, nums[:profile.Picks])
			if len(nums) > profile.Picks {
				d.Bonus = nums[profile.Picks]
			}
			draws = append(draws, d)
		})
	})

	return draws
}

// extractDate returns a YYYY-MM-DD date found in text, or "" if there is none.
// Long-form dates like "January 4, 2025" are converted.
func extractDate(text string) string {
	if match := isoDatePattern.FindString(text); match != "" {
		return match
	}

	match := longDatePattern.FindString(text)
	if match == "" {
		return ""
	}

	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, match); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// extractNumbers returns the numbers in text that fall inside the profile range
func extractNumbers(text string, profile draw.Profile) []int {
	out := make([]int, 0)
	for _, m := range numberPattern.FindAllString(text, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if profile.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func normalizeDate(s string) string {
	if d := extractDate(s); d != "" {
		return d
	}
	return strings.TrimSpace(s)
}
