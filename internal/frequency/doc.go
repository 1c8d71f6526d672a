// Package frequency counts how often each number appears across a draw history
// and ranks numbers by those counts.
//
// A Table is rebuilt from the full history on every analysis. It remembers the
// order in which numbers were first seen, and rankings break count ties by that
// order. Draws are not validated: a number repeated inside a malformed draw is
// counted once per occurrence.
package frequency
