package mapping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const putRetries = 3

// SQLite — персистентный SCD2-словарь. Текущие записи защищены частичным
// уникальным индексом; Put идёт через optimistic version check с ретраями.
type SQLite struct {
	conn *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = conn.Close()
		return nil, err
	}
	// один писатель за раз: транзакции Put сериализуются на пуле
	conn.SetMaxOpenConns(1)
	s := &SQLite{conn: conn}
	if err := s.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS mappings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  canonicalKey TEXT NOT NULL,
  priceItemId TEXT NOT NULL,
  source TEXT NOT NULL,
  confidence REAL NOT NULL,
  version INTEGER NOT NULL,
  validFrom TEXT NOT NULL,
  validTo TEXT
);
CREATE INDEX IF NOT EXISTS idx_mappings_key ON mappings(canonicalKey);
CREATE UNIQUE INDEX IF NOT EXISTS idx_mappings_current
  ON mappings(canonicalKey) WHERE validTo IS NULL;
`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLite) Close() error { return s.conn.Close() }

func (s *SQLite) Lookup(ctx context.Context, key string) (Record, error) {
	row := s.conn.QueryRowContext(ctx, `
SELECT canonicalKey, priceItemId, source, confidence, version, validFrom, validTo
FROM mappings WHERE canonicalKey = ? AND validTo IS NULL`, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rec, nil
}

// Put — закрыть текущую версию, вставить новую, атомарно в одной
// транзакции. Проверка version в UPDATE ловит конкурирующего писателя,
// успевшего между чтением и записью; конфликт — откат и повтор.
func (s *SQLite) Put(ctx context.Context, key, priceItemID, source string, confidence float64) (Record, error) {
	var lastErr error
	for attempt := 0; attempt < putRetries; attempt++ {
		rec, err := s.putOnce(ctx, key, priceItemID, source, confidence)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrConflict) {
			return Record{}, err
		}
		lastErr = err
	}
	return Record{}, lastErr
}

func (s *SQLite) putOnce(ctx context.Context, key, priceItemID, source string, confidence float64) (Record, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	var curVersion sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM mappings WHERE canonicalKey = ? AND validTo IS NULL`, key).
		Scan(&curVersion)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	nextVersion := int64(1)
	if curVersion.Valid {
		nextVersion = curVersion.Int64 + 1
		res, err := tx.ExecContext(ctx, `
UPDATE mappings SET validTo = ?
WHERE canonicalKey = ? AND validTo IS NULL AND version = ?`,
			now.Format(time.RFC3339Nano), key, curVersion.Int64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		n, _ := res.RowsAffected()
		if n != 1 {
			return Record{}, ErrConflict // кто-то закрыл версию раньше нас
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO mappings (canonicalKey, priceItemId, source, confidence, version, validFrom, validTo)
VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		key, priceItemID, source, confidence, nextVersion, now.Format(time.RFC3339Nano)); err != nil {
		// гонка на вставке текущей версии упирается в частичный индекс
		return Record{}, ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return Record{}, ErrConflict
	}

	return Record{
		Key:         key,
		PriceItemID: priceItemID,
		Source:      source,
		Confidence:  confidence,
		Version:     nextVersion,
		ValidFrom:   now,
	}, nil
}

func (s *SQLite) History(ctx context.Context, key string) ([]Record, error) {
	rows, err := s.conn.QueryContext(ctx, `
SELECT canonicalKey, priceItemId, source, confidence, version, validFrom, validTo
FROM mappings WHERE canonicalKey = ? ORDER BY version`, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	var from string
	var to sql.NullString
	if err := s.Scan(&rec.Key, &rec.PriceItemID, &rec.Source, &rec.Confidence, &rec.Version, &from, &to); err != nil {
		return Record{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, from); err == nil {
		rec.ValidFrom = t
	}
	if to.Valid {
		if t, err := time.Parse(time.RFC3339Nano, to.String); err == nil {
			rec.ValidTo = &t
		}
	}
	return rec, nil
}
