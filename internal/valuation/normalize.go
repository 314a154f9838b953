// Package valuation turns a fund's holdings and a market snapshot into an
// estimated intraday change.
package valuation

import "github.com/fortestingfmm-hub/fund-monitor/internal/model"

// PriceLookup is the read-only view of a market snapshot.
type PriceLookup interface {
	Lookup(code string) (float64, bool)
}

// MapLookup adapts a plain map for callers that already hold one.
type MapLookup map[string]float64

func (m MapLookup) Lookup(code string) (float64, bool) {
	v, ok := m[code]
	return v, ok
}

// Candidates lists the snapshot keys tried for a raw code, in order:
// as given, left-padded with one zero, and with any ".suffix" removed.
func Candidates(raw string) []string {
	return []string{raw, "0" + raw, model.BaseCode(raw)}
}

// Normalize finds the change percent of a raw holding code.
// An unmatched code is a normal outcome and reports found=false.
func Normalize(raw string, snap PriceLookup) (float64, bool) {
	if raw == "" || snap == nil {
		return 0, false
	}
	for _, c := range Candidates(raw) {
		if v, ok := snap.Lookup(c); ok {
			return v, true
		}
	}
	return 0, false
}
