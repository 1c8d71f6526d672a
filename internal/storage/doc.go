// Package storage provides SQLite persistence for historical draw results.
//
// Each lottery gets its own results table (lotto649_results, lottomax_results)
// keyed on draw date and draw number. Numbers are stored as a comma-separated
// list. The default database location is ~/.local/share/lotto-analyzer/lottery_results.db.
package storage
