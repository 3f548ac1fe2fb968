package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql" // register mysql driver
	_ "github.com/lib/pq"              // register postgres driver
	_ "modernc.org/sqlite"             // register sqlite driver
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// LoadSQL reads every row of src.Table. NULLs become missing cells.
func LoadSQL(ctx context.Context, src Source) (*Dataset, error) {
	if !tableName.MatchString(src.Table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrDatasetLoad, src.Table)
	}

	db, err := sql.Open(src.Driver, src.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrDatasetLoad, src, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+src.Table) //nolint:gosec // table name validated above
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", ErrDatasetLoad, src, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns of %s: %w", ErrDatasetLoad, src, err)
	}

	records := [][]string{cols}
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %w", ErrDatasetLoad, src, err)
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		records = append(records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrDatasetLoad, src, err)
	}

	return FromRecords(records, src.String())
}
