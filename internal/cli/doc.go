// Package cli implements the command-line interface for lotto-analyzer.
//
// The cli package provides the Cobra-based command tree: analyze prints
// frequency rankings and candidate entries, scrape fetches past results into
// the local database, sample loads a synthetic history, and count reports how
// many draws are stored. It coordinates the config, storage, scraper, sample
// and report packages.
package cli
