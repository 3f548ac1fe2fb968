package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    path                 TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    header               BLOB NOT NULL,
    row_count            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dataset_rows (
    path                 TEXT NOT NULL REFERENCES datasets(path) ON DELETE CASCADE,
    row_index            INTEGER NOT NULL,
    payload              BLOB NOT NULL,
    PRIMARY KEY (path, row_index)
);
`
