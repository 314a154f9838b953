package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// SQLiteStore persists holdings snapshots to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite holdings store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS holdings_snapshots (
			fund_code  TEXT PRIMARY KEY,
			fund_name  TEXT,
			period     TEXT,
			source     TEXT,
			items_json TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_holdings_fetched ON holdings_snapshots(fetched_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the stored snapshot of a fund; ok is false when none exists.
func (s *SQLiteStore) Load(fundCode string) (model.Holdings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		h         model.Holdings
		itemsJSON string
		fetchedAt int64
	)
	err := s.db.QueryRow(`SELECT fund_code, fund_name, period, source, items_json, fetched_at
		FROM holdings_snapshots WHERE fund_code = ?`, fundCode).
		Scan(&h.FundCode, &h.FundName, &h.Period, &h.Source, &itemsJSON, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holdings{}, false, nil
	}
	if err != nil {
		return model.Holdings{}, false, fmt.Errorf("load holdings %s: %w", fundCode, err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &h.Items); err != nil {
		return model.Holdings{}, false, fmt.Errorf("decode holdings %s: %w", fundCode, err)
	}
	h.FetchedAt = time.Unix(fetchedAt, 0)
	return h, true, nil
}

// Save replaces the stored snapshot of h.FundCode.
func (s *SQLiteStore) Save(h model.Holdings) error {
	items, err := json.Marshal(h.Items)
	if err != nil {
		return fmt.Errorf("encode holdings %s: %w", h.FundCode, err)
	}
	fetchedAt := h.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`INSERT INTO holdings_snapshots
		(fund_code, fund_name, period, source, items_json, fetched_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(fund_code) DO UPDATE SET
			fund_name = excluded.fund_name,
			period = excluded.period,
			source = excluded.source,
			items_json = excluded.items_json,
			fetched_at = excluded.fetched_at`,
		h.FundCode, h.FundName, h.Period, h.Source, string(items), fetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save holdings %s: %w", h.FundCode, err)
	}
	return nil
}

// Clear removes every stored snapshot.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM holdings_snapshots`)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite holdings store")
	return s.db.Close()
}
