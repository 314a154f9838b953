package model

import "time"

// RawRow is one loosely typed record as delivered by an upstream feed.
// Keys are the provider's column names; values are whatever JSON decoding produced.
type RawRow map[string]any

// Holding is one disclosed position of a fund.
type Holding struct {
	Code   string  `json:"code" yaml:"code"`
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"` // percent of NAV, 0~100
}

// Holdings is the canonical top-N holdings list of one fund.
type Holdings struct {
	FundCode  string    `json:"fund_code"`
	FundName  string    `json:"fund_name"`
	Period    string    `json:"period"`
	Source    string    `json:"source"`
	Items     []Holding `json:"items"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Empty reports whether no usable holdings were found.
func (h Holdings) Empty() bool { return len(h.Items) == 0 }

// MaxHoldings is the size of a disclosed top holdings list.
const MaxHoldings = 10
