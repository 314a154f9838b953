package model

import "strings"

// Market identifies the listing venue of a security.
type Market string

const (
	MarketA       Market = "A"
	MarketHK      Market = "HK"
	MarketUnknown Market = ""
)

// Flag returns the display flag used in reports.
func (m Market) Flag() string {
	switch m {
	case MarketHK:
		return "🇭🇰"
	case MarketA:
		return "🇨🇳"
	default:
		return "❔"
	}
}

// PriceChange is one parsed row of a quote feed.
type PriceChange struct {
	Code          string  `json:"code"`
	ChangePercent float64 `json:"change_percent"`
}

// BaseCode strips any exchange suffix ("00700.HK" -> "00700").
func BaseCode(code string) string {
	if i := strings.Index(code, "."); i >= 0 {
		return code[:i]
	}
	return code
}

// MarketOf classifies a security code by its raw length: 5 characters is a
// Hong Kong listing, 6 is an A-share listing. Suffixed codes ("00700.HK") are
// left unclassified.
func MarketOf(code string) Market {
	switch len(code) {
	case 5:
		return MarketHK
	case 6:
		return MarketA
	default:
		return MarketUnknown
	}
}
