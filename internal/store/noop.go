package store

import "github.com/fortestingfmm-hub/fund-monitor/internal/model"

// NoopStore is used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Load(_ string) (model.Holdings, bool, error) { return model.Holdings{}, false, nil }
func (n *NoopStore) Save(_ model.Holdings) error                 { return nil }
func (n *NoopStore) Clear() error                                { return nil }
func (n *NoopStore) Close() error                                { return nil }
