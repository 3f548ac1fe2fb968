package dataset

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/loanscope/internal/model"
)

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadFile(filepath.Join("testdata", "loans.csv"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return ds
}

func TestLoadFile(t *testing.T) {
	ds := loadSample(t)

	if ds.Len() != 20 {
		t.Fatalf("Len = %d, want 20", ds.Len())
	}
	if !ds.Has(model.TotalIncome) {
		t.Fatal("Total_Income was not synthesized")
	}

	total, err := ds.Floats(model.TotalIncome)
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if total[0] != 5849 || total[1] != 6091 {
		t.Errorf("Total_Income[0:2] = %v, want [5849 6091]", total[:2])
	}

	amount, _ := ds.Floats(model.LoanAmount)
	if !math.IsNaN(amount[0]) {
		t.Errorf("LoanAmount[0] = %v, want NaN for empty cell", amount[0])
	}

	text, present, err := ds.Text("Self_Employed")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if present[11] || text[11] != "" {
		t.Errorf("Self_Employed[11] = %q (present=%v), want missing", text[11], present[11])
	}
	if !present[0] || text[0] != "No" {
		t.Errorf("Self_Employed[0] = %q (present=%v), want No", text[0], present[0])
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrDatasetLoad) {
		t.Fatalf("err = %v, want ErrDatasetLoad", err)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"), "bad.csv")
	if !errors.Is(err, ErrDatasetLoad) {
		t.Fatalf("err = %v, want ErrDatasetLoad", err)
	}
}

func TestMissingColumn(t *testing.T) {
	ds := loadSample(t)

	_, err := ds.Floats("Education_Level")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	var mc *MissingColumnError
	if !errors.As(err, &mc) || mc.Column != "Education_Level" {
		t.Errorf("err = %#v, want MissingColumnError{Education_Level}", err)
	}

	if err := ds.Require(model.Gender, model.LoanStatus); err != nil {
		t.Errorf("Require present columns: %v", err)
	}
}

func TestTotalIncomeSynthesis(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    []float64
	}{
		{
			name: "missing coapplicant cells count as zero",
			records: [][]string{
				{"ApplicantIncome", "CoapplicantIncome"},
				{"1000", ""},
				{"", "250"},
				{"400", "100"},
			},
			want: []float64{1000, 250, 500},
		},
		{
			name: "absent coapplicant column counts as zero",
			records: [][]string{
				{"ApplicantIncome"},
				{"1000"},
				{"NA"},
			},
			want: []float64{1000, 0},
		},
		{
			name: "existing column is kept",
			records: [][]string{
				{"ApplicantIncome", "CoapplicantIncome", "Total_Income"},
				{"1000", "500", "9"},
			},
			want: []float64{9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := FromRecords(tt.records, "test")
			if err != nil {
				t.Fatalf("FromRecords: %v", err)
			}
			got, err := ds.Floats(model.TotalIncome)
			if err != nil {
				t.Fatalf("Floats: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Total_Income[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEnsureTotalIncomeIdempotent(t *testing.T) {
	ds := loadSample(t)
	before := len(ds.Names())
	if err := ds.EnsureTotalIncome(); err != nil {
		t.Fatalf("EnsureTotalIncome: %v", err)
	}
	if len(ds.Names()) != before {
		t.Errorf("columns = %d, want %d", len(ds.Names()), before)
	}
}

func TestHead(t *testing.T) {
	ds := loadSample(t)
	header, rows := ds.Head(5)
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if header[0] != "Loan_ID" || rows[0][0] != "LP001002" {
		t.Errorf("Head = %v / %v", header[0], rows[0][0])
	}

	_, all := ds.Head(100)
	if len(all) != 20 {
		t.Errorf("Head(100) rows = %d, want 20", len(all))
	}
}

func TestFingerprintSurvivesRecordsRoundTrip(t *testing.T) {
	ds := loadSample(t)
	again, err := FromRecords(ds.Records(), "cache")
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if ds.Fingerprint() != again.Fingerprint() {
		t.Error("fingerprint changed across Records round trip")
	}

	other, err := FromRecords([][]string{{"ApplicantIncome"}, {"1"}}, "x")
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if other.Fingerprint() == ds.Fingerprint() {
		t.Error("different data produced equal fingerprints")
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		`CREATE TABLE loans (Gender TEXT, ApplicantIncome REAL, CoapplicantIncome REAL, Loan_Status TEXT)`,
		`INSERT INTO loans VALUES ('Male', 5000, 1500, 'Y')`,
		`INSERT INTO loans VALUES (NULL, 3000, NULL, 'N')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	_ = db.Close()

	src, err := ParseSource("sqlite://" + path + "?table=loans")
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	ds, err := Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if ds.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ds.Len())
	}
	_, present, _ := ds.Text(model.Gender)
	if !present[0] || present[1] {
		t.Errorf("Gender presence = %v, want [true false]", present)
	}
	total, _ := ds.Floats(model.TotalIncome)
	if total[0] != 6500 || total[1] != 3000 {
		t.Errorf("Total_Income = %v, want [6500 3000]", total)
	}
	if ds.Source() != "sqlite:loans" {
		t.Errorf("Source = %q", ds.Source())
	}
}

func TestLoadSQLRejectsTableName(t *testing.T) {
	_, err := LoadSQL(context.Background(), Source{Driver: "sqlite", DSN: ":memory:", Table: "loans; DROP TABLE x"})
	if !errors.Is(err, ErrDatasetLoad) {
		t.Fatalf("err = %v, want ErrDatasetLoad", err)
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		raw  string
		want Source
	}{
		{"data/loans.csv", Source{Path: "data/loans.csv"}},
		{
			"postgres://u:p@db:5432/credit?sslmode=disable&table=apps",
			Source{Driver: "postgres", DSN: "postgres://u:p@db:5432/credit?sslmode=disable", Table: "apps"},
		},
		{
			"postgresql://db/credit",
			Source{Driver: "postgres", DSN: "postgres://db/credit", Table: DefaultTable},
		},
		{
			"mysql://u:p@tcp(db:3306)/credit?table=apps",
			Source{Driver: "mysql", DSN: "u:p@tcp(db:3306)/credit", Table: "apps"},
		},
		{
			"sqlite:///var/lib/loans.db",
			Source{Driver: "sqlite", DSN: "/var/lib/loans.db", Table: DefaultTable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSource(tt.raw)
			if err != nil {
				t.Fatalf("ParseSource: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSource = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := ParseSource(""); !errors.Is(err, ErrDatasetLoad) {
		t.Errorf("empty source err = %v, want ErrDatasetLoad", err)
	}
}

func TestSourceStringHidesCredentials(t *testing.T) {
	src, _ := ParseSource("postgres://admin:secret@db/credit")
	if strings.Contains(src.String(), "secret") {
		t.Errorf("String() = %q leaks password", src.String())
	}
}
