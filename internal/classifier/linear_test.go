package classifier

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/loanscope/internal/features"
	"github.com/theirongolddev/loanscope/internal/model"
)

const creditOnly = `
name = "credit-only"
version = "test"
intercept = -0.5
threshold = 0.0

[numeric.Credit_History]
mean = 0.0
scale = 1.0
weight = 1.0

[categorical.Property_Area]
Semiurban = 0.25
`

func TestParse_CreditDrivesDecision(t *testing.T) {
	m, err := Parse([]byte(creditOnly))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	good := features.Derive(model.DefaultApplicant())
	if got, err := m.Predict(good); err != nil || got != model.Approved {
		t.Fatalf("good credit: got %v, %v; want Approved", got, err)
	}

	poor := model.DefaultApplicant()
	poor.CreditHistory = 0
	if got, err := m.Predict(features.Derive(poor)); err != nil || got != model.Rejected {
		t.Fatalf("poor credit: got %v, %v; want Rejected", got, err)
	}
}

func TestDecision_UnknownCategoryContributesNothing(t *testing.T) {
	m, err := Parse([]byte(creditOnly))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	a := model.DefaultApplicant()
	a.PropertyArea = "Semiurban"
	semi := m.Decision(features.Derive(a))

	a.PropertyArea = "Lunar"
	unknown := m.Decision(features.Derive(a))

	if math.Abs(semi-unknown-0.25) > 1e-12 {
		t.Errorf("Semiurban - unknown = %v, want 0.25", semi-unknown)
	}
}

func TestParse_RejectsInvalidArtifacts(t *testing.T) {
	cases := map[string]string{
		"empty":           `name = "x"`,
		"unknown numeric": "[numeric.Shoe_Size]\nscale = 1.0\nweight = 1.0\n",
		"zero scale":      "[numeric.LoanAmount]\nscale = 0.0\nweight = 1.0\n",
		"unknown cat":     "[categorical.Gender]\nMale = 1.0\n",
		"bad toml":        "[numeric\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			if !errors.Is(err, ErrModelLoad) {
				t.Fatalf("err = %v, want ErrModelLoad", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("err = %v, want ErrModelLoad", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.toml")
	if err := os.WriteFile(path, []byte(creditOnly), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "credit-only" {
		t.Errorf("Name = %q, want credit-only", m.Name)
	}
}

func TestPredict_NonFiniteDecision(t *testing.T) {
	m, err := Parse([]byte(creditOnly))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := features.Derive(model.DefaultApplicant())
	r.CreditHistory = math.NaN()

	_, err = m.Predict(r)
	if !errors.Is(err, ErrPrediction) {
		t.Fatalf("err = %v, want ErrPrediction", err)
	}
}

func TestConstant(t *testing.T) {
	c := Constant(model.Approved)
	got, err := c.Predict(model.FeatureRecord{})
	if err != nil || got != model.Approved {
		t.Fatalf("Constant: got %v, %v", got, err)
	}
}

func TestLoad_ShippedArtifact(t *testing.T) {
	m, err := Load(filepath.Join("..", "..", "model", "loan_approval.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	good := model.DefaultApplicant()
	if got, _ := m.Predict(features.Derive(good)); got != model.Approved {
		t.Errorf("default applicant = %v, want Approved", got)
	}

	poor := model.DefaultApplicant()
	poor.CreditHistory = 0
	if got, _ := m.Predict(features.Derive(poor)); got != model.Rejected {
		t.Errorf("bad credit history = %v, want Rejected", got)
	}
}

// Large offsetting weights make the float sum depend on term order.
const orderSensitive = `
name = "order-sensitive"
intercept = 0.0
threshold = 0.5

[numeric.ApplicantIncome]
mean = 0.0
scale = 1.0
weight = 1e16

[numeric.CoapplicantIncome]
mean = 0.0
scale = 1.0
weight = 1.0

[numeric.LoanAmount]
mean = 0.0
scale = 1.0
weight = -1e16
`

func TestDecision_SchemaOrder(t *testing.T) {
	m, err := Parse([]byte(orderSensitive))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := model.FeatureRecord{ApplicantIncome: 1, CoapplicantIncome: 1, LoanAmount: 1}

	// ((0 + 1e16) + 1) - 1e16 == 0 in float64; any other order gives 1.
	for i := range 100 {
		if got := m.Decision(r); got != 0 {
			t.Fatalf("run %d: Decision = %v, want 0", i, got)
		}
		if got, _ := m.Predict(r); got != model.Rejected {
			t.Fatalf("run %d: label flipped to %v", i, got)
		}
	}
}
