package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
)

// quickRetries retries up to n times without waiting long between attempts
func quickRetries(n uint64) Option {
	return WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), n)
	})
}

func TestFetchDraws(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantDraws   int
	}{
		{
			name: "embedded JSON",
			htmlContent: `
				<html><head><script>
					var drawResults = [
						{"drawDate": "2025-01-04", "winningNumbers": [3, 7, 12, 23, 31, 45], "bonusNumber": 19},
						{"drawDate": "2025-01-01", "winningNumbers": [1, 7, 9, 18, 33, 49]}
					];
				</script></head><body></body></html>
			`,
			statusCode: http.StatusOK,
			wantDraws:  2,
		},
		{
			name:       "HTTP error",
			statusCode: http.StatusNotFound,
			wantError:  true,
		},
		{
			name:        "page without results",
			htmlContent: `<html><body><p>No results</p></body></html>`,
			statusCode:  http.StatusOK,
			wantDraws:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.Header.Get("User-Agent"), "lotto-analyzer")

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := New(WithURL(draw.Lotto649, server.URL))

			draws, err := s.FetchDraws(context.Background(), draw.Lotto649)

			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, draws, tt.wantDraws)
		})
	}
}

func TestFetchDraws_UnknownLottery(t *testing.T) {
	s := New()
	_, err := s.FetchDraws(context.Background(), "powerball")
	assert.Error(t, err)
}

func TestFetchDraws_CustomUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	s := New(WithURL(draw.LottoMax, server.URL), WithUserAgent("custom-agent/2.0"))
	_, err := s.FetchDraws(context.Background(), draw.LottoMax)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent/2.0", got)
}

func TestParseDraws_ScriptResults(t *testing.T) {
	html := `<script>
		drawResults = [
			{"drawDate": "2025-01-03", "winningNumbers": ["1", "8", "15", "22", "29", "36", "43"], "bonusNumber": 50},
			{"drawDate": "January 7, 2025", "winningNumbers": "2,9,16,23,30,37,44"},
			{"drawDate": "", "winningNumbers": [1, 2, 3, 4, 5, 6, 7]},
			{"drawDate": "2025-01-03", "winningNumbers": [1, 8, 15, 22, 29, 36, 43]}
		];
	</script>`

	draws, err := New().parseDraws(strings.NewReader(html), draw.LottoMax)
	require.NoError(t, err)
	require.Len(t, draws, 2)

	assert.Equal(t, 50, draws[0].Bonus)
	assert.Equal(t, "2025-01-07", draws[1].Date)
	assert.Equal(t, []int{2, 9, 16, 23, 30, 37, 44}, draws[1].Numbers)
	for _, d := range draws {
		assert.Equal(t, draw.LottoMax, d.Lottery)
	}
}

func TestParseDraws_MalformedScriptFallsBackToTable(t *testing.T) {
	html := `
		<script>drawResults = [{"drawDate": oops}];</script>
		<table>
			<tr><th>Date</th><th>Numbers</th></tr>
			<tr><td>2025-01-04</td><td>3 7 12 23 31 45</td></tr>
		</table>
	`

	draws, err := New().parseDraws(strings.NewReader(html), draw.Lotto649)
	require.NoError(t, err)
	assert.Len(t, draws, 1)
}

func TestParseDraws_Fixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/lotto649_past_results.html")
	require.NoError(t, err)

	draws, err := New().parseDraws(strings.NewReader(string(data)), draw.Lotto649)
	require.NoError(t, err)

	want := []struct {
		date    string
		numbers []int
		bonus   int
	}{
		{"2025-01-04", []int{3, 7, 12, 23, 31, 45}, 19},
		{"2025-01-01", []int{1, 7, 9, 18, 33, 49}, 4},
		{"2024-12-28", []int{5, 11, 20, 27, 38, 42}, 0},
	}

	require.Len(t, draws, len(want))
	for i, w := range want {
		assert.Equal(t, w.date, draws[i].Date, "draw %d", i)
		assert.Equal(t, w.numbers, draws[i].Numbers, "draw %d", i)
		assert.Equal(t, w.bonus, draws[i].Bonus, "draw %d", i)
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"2025-01-04", "2025-01-04"},
		{"Draw of 2025-01-04 (Sat)", "2025-01-04"},
		{"Saturday, January 4, 2025", "2025-01-04"},
		{"Jan 4, 2025", "2025-01-04"},
		{"Smarch 4, 2025", ""},
		{"No date here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDate(tt.text))
		})
	}
}

func TestExtractNumbers(t *testing.T) {
	profile := draw.ProfileFor(draw.Lotto649)

	tests := []struct {
		text string
		want []int
	}{
		{"3 7 12 23 31 45", []int{3, 7, 12, 23, 31, 45}},
		{"03-07-12", []int{3, 7, 12}},
		{"0 50 99 49", []int{49}},
		{"Bonus: 19", []int{19}},
		{"100 200", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractNumbers(tt.text, profile))
		})
	}
}

func TestNew(t *testing.T) {
	s := New()

	require.NotNil(t, s)
	require.NotNil(t, s.client)
	require.NotNil(t, s.backoff)
	assert.Equal(t, Timeout, s.client.Timeout)
	assert.Equal(t, Lotto649URL, s.urls[draw.Lotto649])
	assert.Equal(t, LottoMaxURL, s.urls[draw.LottoMax])
}

func TestFetchDraws_Retries(t *testing.T) {
	page := `<script>drawResults = [{"drawDate": "2025-01-04", "winningNumbers": [3, 7, 12, 23, 31, 45]}];</script>`

	tests := []struct {
		name         string
		statuses     []int // served in order, the last one repeats
		wantErr      bool
		wantRequests int32
	}{
		{"recovers after server error", []int{http.StatusServiceUnavailable, http.StatusOK}, false, 2},
		{"recovers after rate limit", []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusOK}, false, 3},
		{"gives up after max retries", []int{http.StatusInternalServerError}, true, 3},
		{"client error is not retried", []int{http.StatusNotFound}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(requests.Add(1)) - 1
				status := tt.statuses[min(n, len(tt.statuses)-1)]
				w.WriteHeader(status)
				if status == http.StatusOK {
					w.Write([]byte(page))
				}
			}))
			defer server.Close()

			s := New(WithURL(draw.Lotto649, server.URL), quickRetries(2))
			draws, err := s.FetchDraws(context.Background(), draw.Lotto649)

			assert.Equal(t, tt.wantRequests, requests.Load())
			if tt.wantErr {
				assert.ErrorContains(t, err, "unexpected status code")
				return
			}
			require.NoError(t, err)
			assert.Len(t, draws, 1)
		})
	}
}

func TestFetchDraws_CancelledContextStopsRetrying(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(WithURL(draw.Lotto649, server.URL), quickRetries(5))
	_, err := s.FetchDraws(ctx, draw.Lotto649)

	assert.Error(t, err)
	assert.Zero(t, requests.Load())
}
