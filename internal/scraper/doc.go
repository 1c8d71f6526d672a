// Package scraper provides HTTP fetching and HTML parsing for past lottery results.
//
// The scraper fetches the public past-results pages for Lotto 6/49 and LottoMax
// and extracts draws from them. Pages that embed a drawResults JSON array in a
// script tag are read from that array; otherwise results tables are parsed row
// by row, accepting ISO dates and long-form dates such as "January 4, 2025".
package scraper
