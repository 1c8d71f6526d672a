// Package draw provides the types shared by every layer of the analyzer.
//
// A Draw is one historical lottery drawing. A Profile describes the number
// range and picks-per-entry of a lottery variant, and the Registry maps
// lottery identifiers (lotto649, lottomax) to their profiles. Unknown
// identifiers resolve to the Lotto 6/49 profile.
package draw
