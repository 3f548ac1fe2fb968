// Package store provides a SQLite-backed cache of parsed dataset files.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset caching. Rows are stored as
// snappy-compressed JSON arrays.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a dataset file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
	Rows      int
	ParsedAt  time.Time
}

// Matches reports whether the tracked entry still describes the file.
func (fi FileInfo) Matches(mtimeNs, sizeBytes int64) bool {
	return fi.MtimeNs == mtimeNs && fi.SizeBytes == sizeBytes
}

// Lookup returns the tracking info for path. ok is false when the file has
// never been cached.
func (c *Cache) Lookup(path string) (info FileInfo, ok bool, err error) {
	var parsedAt string
	err = c.db.QueryRow(
		"SELECT mtime_ns, size_bytes, row_count, parsed_at FROM datasets WHERE path = ?", path,
	).Scan(&info.MtimeNs, &info.SizeBytes, &info.Rows, &parsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, err
	}
	info.ParsedAt, _ = time.Parse(time.RFC3339, parsedAt)
	return info, true, nil
}

// SaveDataset replaces the cached copy of path with records, whose first
// element is the header row.
func (c *Cache) SaveDataset(path string, mtimeNs, sizeBytes int64, records [][]string) error {
	if len(records) == 0 {
		return errors.New("saving dataset: no header row")
	}

	header, err := encodeRow(records[0])
	if err != nil {
		return err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Remove the old rows explicitly; INSERT OR REPLACE does not cascade.
	if _, err := tx.Exec("DELETE FROM dataset_rows WHERE path = ?", path); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO datasets
		(path, mtime_ns, size_bytes, header, row_count, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		path, mtimeNs, sizeBytes, header, len(records)-1, now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO dataset_rows (path, row_index, payload) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range records[1:] {
		payload, err := encodeRow(row)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(path, i, payload); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadRecords returns the cached header and rows for path, in file order.
func (c *Cache) LoadRecords(path string) ([][]string, error) {
	var header []byte
	err := c.db.QueryRow("SELECT header FROM datasets WHERE path = ?", path).Scan(&header)
	if err != nil {
		return nil, fmt.Errorf("reading cached header: %w", err)
	}
	head, err := decodeRow(header)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query("SELECT payload FROM dataset_rows WHERE path = ? ORDER BY row_index", path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := [][]string{head}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		row, err := decodeRow(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, row)
	}
	return records, rows.Err()
}

// Delete removes a cached dataset and its rows.
func (c *Cache) Delete(path string) error {
	_, err := c.db.Exec("DELETE FROM datasets WHERE path = ?", path)
	return err
}

// DatasetCount returns the number of cached datasets.
func (c *Cache) DatasetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count)
	return count, err
}

func encodeRow(row []string) ([]byte, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

func decodeRow(payload []byte) ([]string, error) {
	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("decompressing row: %w", err)
	}
	var row []string
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decoding row: %w", err)
	}
	return row, nil
}
