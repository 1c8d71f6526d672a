// Package report builds and renders frequency analyses.
//
// An Analysis bundles the rankings and candidate entries for one lottery.
// Write renders a list of analyses as human-readable text or indented JSON.
// Text output keeps (number, count) and (entry, strategy, numbers) field order
// stable so that downstream scripts can parse it.
package report
