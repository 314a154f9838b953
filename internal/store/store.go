// Package store keeps the last successfully fetched holdings of each fund so
// a valuation can still run when every live source is down.
package store

import "github.com/fortestingfmm-hub/fund-monitor/internal/model"

// HoldingsStore persists one holdings snapshot per fund, replaced wholesale on save.
type HoldingsStore interface {
	Load(fundCode string) (model.Holdings, bool, error)
	Save(h model.Holdings) error
	Clear() error
	Close() error
}
