// Package dataset loads the loan-application dataset and exposes read-only
// column access for the analytics views.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/theirongolddev/loanscope/internal/model"
)

var (
	// ErrDatasetLoad indicates the dataset could not be read.
	ErrDatasetLoad = errors.New("dataset: load failed")
	// ErrMissingColumn indicates a required column is absent.
	ErrMissingColumn = errors.New("dataset: missing column")
)

// MissingColumnError names the absent column. It matches ErrMissingColumn.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("dataset: missing column %q", e.Column)
}

// Is reports whether target is ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// naValues are the cell tokens treated as missing.
var naValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

// Dataset is an immutable, string-typed view of the loan applications.
// Total_Income is always present: it is synthesized at load time when the
// source does not carry it.
type Dataset struct {
	frame  dataframe.DataFrame
	source string
}

// ReadCSV parses a CSV stream with a header row.
func ReadCSV(r io.Reader, source string) (*Dataset, error) {
	frame := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	return newDataset(frame, source)
}

// LoadFile reads a CSV dataset from disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // dataset path is configured by the local user
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f, path)
}

// FromRecords builds a dataset from a header row followed by data rows.
func FromRecords(records [][]string, source string) (*Dataset, error) {
	frame := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	return newDataset(frame, source)
}

func newDataset(frame dataframe.DataFrame, source string) (*Dataset, error) {
	if frame.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetLoad, source, frame.Err)
	}
	d := &Dataset{frame: frame, source: source}
	if err := d.EnsureTotalIncome(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetLoad, source, err)
	}
	return d, nil
}

// EnsureTotalIncome adds Total_Income = ApplicantIncome + CoapplicantIncome
// when the source lacks it. Missing incomes (or missing income columns)
// count as 0.
func (d *Dataset) EnsureTotalIncome() error {
	if d.Has(model.TotalIncome) {
		return nil
	}
	app := d.floatsOrZero(model.ApplicantIncome)
	co := d.floatsOrZero(model.CoapplicantIncome)

	total := make([]float64, d.Len())
	for i := range total {
		total[i] = app[i] + co[i]
	}

	frame := d.frame.Mutate(series.New(total, series.Float, model.TotalIncome))
	if frame.Err != nil {
		return fmt.Errorf("adding %s: %w", model.TotalIncome, frame.Err)
	}
	d.frame = frame
	return nil
}

func (d *Dataset) floatsOrZero(name string) []float64 {
	out := make([]float64, d.Len())
	if !d.Has(name) {
		return out
	}
	for i, v := range d.frame.Col(name).Float() {
		if !math.IsNaN(v) {
			out[i] = v
		}
	}
	return out
}

// Source returns the path or DSN label the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Names returns column names in source order.
func (d *Dataset) Names() []string { return d.frame.Names() }

// Has reports whether the dataset carries column name.
func (d *Dataset) Has(name string) bool {
	return slices.Contains(d.frame.Names(), name)
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.frame.Nrow() }

// Require returns a *MissingColumnError for the first absent column.
func (d *Dataset) Require(columns ...string) error {
	for _, c := range columns {
		if !d.Has(c) {
			return &MissingColumnError{Column: c}
		}
	}
	return nil
}

// Text returns the raw cell values of a column and, per row, whether the
// cell is present. Missing cells are returned as "".
func (d *Dataset) Text(name string) ([]string, []bool, error) {
	if err := d.Require(name); err != nil {
		return nil, nil, err
	}
	col := d.frame.Col(name)
	values := col.Records()
	missing := col.IsNaN()
	present := make([]bool, len(values))
	for i := range values {
		if missing[i] {
			values[i] = ""
			continue
		}
		present[i] = true
	}
	return values, present, nil
}

// Floats returns a column parsed as numbers. Missing or non-numeric cells
// are NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	if err := d.Require(name); err != nil {
		return nil, err
	}
	return d.frame.Col(name).Float(), nil
}

// Records returns the header followed by every row as text.
func (d *Dataset) Records() [][]string {
	return d.frame.Records()
}

// Head returns the header and up to n data rows.
func (d *Dataset) Head(n int) ([]string, [][]string) {
	records := d.frame.Records()
	if len(records) == 0 {
		return nil, nil
	}
	rows := records[1:]
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return records[0], rows
}

// Fingerprint hashes the dataset's contents. Equal data gives equal
// fingerprints regardless of where it was loaded from.
func (d *Dataset) Fingerprint() uint64 {
	h := xxhash.New()
	for _, row := range d.frame.Records() {
		for _, cell := range row {
			_, _ = h.WriteString(cell)
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte{0x1e})
	}
	return h.Sum64()
}
