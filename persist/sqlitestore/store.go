/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package sqlitestore is a reference apis.Persister that writes created
// fixtures as JSON rows into a SQLite table. It exists so integration-style
// tests can inspect what Create runs produced; production code is expected
// to plug in its own Persister or rely on instance-level create hooks.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dirpx.dev/ffx/apis"
)

// ErrNilDB is returned when a store is constructed without a database.
var ErrNilDB = errors.New("ffx(sqlitestore): nil database handle")

const schema = `
CREATE TABLE IF NOT EXISTS fixtures (
	id      TEXT PRIMARY KEY,
	factory TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS fixtures_factory ON fixtures(factory);
`

// Store persists fixtures into a single "fixtures" table keyed by a random
// row id, with the producing factory's name alongside the JSON payload.
type Store struct {
	db *sql.DB
}

// Ensure Store implements the persistence hook.
var _ apis.Persister = (*Store)(nil)

// Open opens a SQLite database at dsn (":memory:" works for tests) and
// prepares the fixtures schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ffx(sqlitestore): open %s: %w", dsn, err)
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle and prepares the fixtures schema.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("ffx(sqlitestore): create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Persist stores obj as one JSON row attributed to factoryName.
func (s *Store) Persist(factoryName string, obj any) error {
	payload, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("ffx(sqlitestore): encode %q fixture: %w", factoryName, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO fixtures (id, factory, payload) VALUES (?, ?, ?)`,
		uuid.NewString(), factoryName, string(payload),
	)
	if err != nil {
		return fmt.Errorf("ffx(sqlitestore): insert %q fixture: %w", factoryName, err)
	}
	return nil
}

// Count returns the number of rows persisted for factoryName.
func (s *Store) Count(factoryName string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM fixtures WHERE factory = ?`, factoryName,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ffx(sqlitestore): count %q fixtures: %w", factoryName, err)
	}
	return n, nil
}

// Payloads returns the JSON payloads persisted for factoryName, in
// insertion order (rowid order).
func (s *Store) Payloads(factoryName string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM fixtures WHERE factory = ? ORDER BY rowid`, factoryName,
	)
	if err != nil {
		return nil, fmt.Errorf("ffx(sqlitestore): query %q fixtures: %w", factoryName, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
