// Package generator turns a frequency table into candidate entries.
//
// Four strategies are supported: hot, cold, balanced and random. Unknown
// strategy names resolve to balanced, and an empty frequency table degrades
// every strategy to random. The random source is injected so that generation
// is reproducible under a fixed seed.
//
// Entries are descriptive heuristics over past draws. Draws are independent
// events and nothing here improves the odds of any entry.
package generator
