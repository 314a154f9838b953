package valuation

import "github.com/fortestingfmm-hub/fund-monitor/internal/model"

// Valuate estimates a fund's change as the weighted sum of its holdings' changes.
// Hong Kong moves are used as-is, without FX adjustment.
func Valuate(h model.Holdings, snap PriceLookup) model.FundValuationResult {
	if h.Empty() {
		return NoData(h.FundCode, h.FundName, "no holdings")
	}

	res := model.FundValuationResult{
		FundCode: h.FundCode,
		FundName: h.FundName,
		Period:   h.Period,
		Source:   h.Source,
		Details:  make([]model.ContributionDetail, 0, len(h.Items)),
	}
	for _, item := range h.Items {
		change, found := Normalize(item.Code, snap)
		market := model.MarketOf(item.Code)
		d := model.ContributionDetail{
			Code:          item.Code,
			Name:          item.Name,
			Market:        market,
			Weight:        item.Weight,
			ChangePercent: change,
			Contribution:  change * (item.Weight / 100),
			Found:         found,
		}
		res.EstimatedChangePercent += d.Contribution
		if market == model.MarketHK {
			res.HKHoldingCount++
		}
		res.Details = append(res.Details, d)
	}

	res.Status = model.StatusDomestic
	if res.HKHoldingCount > 0 {
		res.Status = model.StatusHK
	}
	return res
}

// NoData is the result for a fund whose holdings could not be obtained.
func NoData(fundCode, fundName, reason string) model.FundValuationResult {
	return model.FundValuationResult{
		FundCode: fundCode,
		FundName: fundName,
		Status:   model.StatusNoData,
		Message:  reason,
		Details:  []model.ContributionDetail{},
	}
}

// Failed is the result for a fund whose pipeline broke unexpectedly.
func Failed(fundCode, fundName, reason string) model.FundValuationResult {
	return model.FundValuationResult{
		FundCode: fundCode,
		FundName: fundName,
		Status:   model.StatusError,
		Message:  reason,
		Details:  []model.ContributionDetail{},
	}
}
