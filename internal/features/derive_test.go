package features

import (
	"math"
	"testing"

	"github.com/theirongolddev/loanscope/internal/model"
)

const eps = 1e-9

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDerive_ScenarioA(t *testing.T) {
	a := model.DefaultApplicant()

	r := Derive(a)
	if r.TotalIncome != 6500 {
		t.Errorf("TotalIncome = %v, want 6500", r.TotalIncome)
	}
	if !approx(r.LoanMonthlyPaid, 150000.0/360, eps) {
		t.Errorf("LoanMonthlyPaid = %v, want %v", r.LoanMonthlyPaid, 150000.0/360)
	}
	if !approx(r.LoanMonthlyPaid, 416.67, 0.005) {
		t.Errorf("LoanMonthlyPaid = %.4f, want ~416.67", r.LoanMonthlyPaid)
	}
	if !approx(r.IncomeToLoanRatio, 6500.0/150000, eps) {
		t.Errorf("IncomeToLoanRatio = %v, want %v", r.IncomeToLoanRatio, 6500.0/150000)
	}
	if !approx(r.IncomeAfterLoan, 6083.33, 0.005) {
		t.Errorf("IncomeAfterLoan = %.4f, want ~6083.33", r.IncomeAfterLoan)
	}
	if !approx(r.LogIncomeAfterLoan, math.Log(r.IncomeAfterLoan+1), eps) {
		t.Errorf("LogIncomeAfterLoan = %v, want ln(IncomeAfterLoan+1)", r.LogIncomeAfterLoan)
	}
	if !approx(r.LogTotalIncome, math.Log(6501), eps) {
		t.Errorf("LogTotalIncome = %v, want ln(6501)", r.LogTotalIncome)
	}
	if !approx(r.LogLoanAmount, math.Log(151), eps) {
		t.Errorf("LogLoanAmount = %v, want ln(151)", r.LogLoanAmount)
	}
}

func TestDerive_ZeroTermScenarioB(t *testing.T) {
	a := model.DefaultApplicant()
	a.LoanTerm = 0

	r := Derive(a)
	if r.LoanMonthlyPaid != 0 {
		t.Errorf("LoanMonthlyPaid = %v, want 0", r.LoanMonthlyPaid)
	}
	if r.IncomeAfterLoan != r.TotalIncome {
		t.Errorf("IncomeAfterLoan = %v, want TotalIncome %v", r.IncomeAfterLoan, r.TotalIncome)
	}
	if r.LogLoanMonthlyPaid != 0 {
		t.Errorf("LogLoanMonthlyPaid = %v, want 0", r.LogLoanMonthlyPaid)
	}
}

func TestDerive_ZeroAmountScenarioC(t *testing.T) {
	a := model.DefaultApplicant()
	a.LoanAmount = 0

	r := Derive(a)
	if r.IncomeToLoanRatio != 0 {
		t.Errorf("IncomeToLoanRatio = %v, want 0", r.IncomeToLoanRatio)
	}
}

func TestMonthlyPayment_NonPositiveTerm(t *testing.T) {
	for _, term := range []float64{0, -1, -360, math.Inf(-1)} {
		if got := MonthlyPayment(150, term); got != 0 {
			t.Errorf("MonthlyPayment(150, %v) = %v, want 0", term, got)
		}
	}
}

func TestIncomeToLoanRatio_NonPositiveAmount(t *testing.T) {
	for _, amt := range []float64{0, -5, -1000} {
		if got := IncomeToLoanRatio(6500, amt); got != 0 {
			t.Errorf("IncomeToLoanRatio(6500, %v) = %v, want 0", amt, got)
		}
	}
}

func TestDerive_NegativeIncomeAfterLoanClamped(t *testing.T) {
	a := model.DefaultApplicant()
	a.ApplicantIncome = 100
	a.CoapplicantIncome = 0
	a.LoanAmount = 1000
	a.LoanTerm = 12

	r := Derive(a)
	if r.IncomeAfterLoan >= 0 {
		t.Fatalf("test setup: IncomeAfterLoan = %v, want negative", r.IncomeAfterLoan)
	}
	if r.LogIncomeAfterLoan != 0 {
		t.Errorf("LogIncomeAfterLoan = %v, want 0 for negative income after loan", r.LogIncomeAfterLoan)
	}
	if math.IsNaN(r.LogIncomeAfterLoan) || math.IsInf(r.LogIncomeAfterLoan, 0) {
		t.Errorf("LogIncomeAfterLoan is not finite: %v", r.LogIncomeAfterLoan)
	}
}

func TestDerive_LogIncomeAfterLoanProperty(t *testing.T) {
	cases := []model.Applicant{
		{ApplicantIncome: 0, CoapplicantIncome: 0, LoanAmount: 0, LoanTerm: 1},
		{ApplicantIncome: 100000, CoapplicantIncome: 50000, LoanAmount: 1000, LoanTerm: 600},
		{ApplicantIncome: 1, CoapplicantIncome: 0, LoanAmount: 1000, LoanTerm: 1},
		{ApplicantIncome: 2500, CoapplicantIncome: 0, LoanAmount: 5, LoanTerm: 2},
	}
	for _, a := range cases {
		r := Derive(a)
		want := math.Log(math.Max(r.IncomeAfterLoan, 0) + 1)
		if !approx(r.LogIncomeAfterLoan, want, eps) {
			t.Errorf("%+v: LogIncomeAfterLoan = %v, want %v", a, r.LogIncomeAfterLoan, want)
		}
		if r.LogIncomeAfterLoan < 0 {
			t.Errorf("%+v: LogIncomeAfterLoan = %v, want >= 0", a, r.LogIncomeAfterLoan)
		}
		if r.TotalIncome != a.ApplicantIncome+a.CoapplicantIncome {
			t.Errorf("%+v: TotalIncome = %v, want exact sum", a, r.TotalIncome)
		}
	}
}

func TestDerive_ManualLogRatioIsIndependent(t *testing.T) {
	a := model.DefaultApplicant()
	a.LogIncomeToLoanRatio = 7.25

	r := Derive(a)
	if r.LogIncomeToLoanRatio != 7.25 {
		t.Errorf("LogIncomeToLoanRatio = %v, want manual 7.25", r.LogIncomeToLoanRatio)
	}
	if approx(r.LogIncomeToLoanRatio, Log1p(r.IncomeToLoanRatio), 1e-6) {
		t.Error("LogIncomeToLoanRatio matches the computed ratio; want the manual value")
	}
}

func TestDerive_CategoricalPassthrough(t *testing.T) {
	a := model.DefaultApplicant()
	a.Married = "No"
	a.PropertyArea = "Semiurban"
	a.Dependents = "3+"

	r := Derive(a)
	if r.Married != "No" || r.PropertyArea != "Semiurban" || r.Dependents != "3+" {
		t.Errorf("categoricals = (%q, %q, %q), want raw passthrough", r.Married, r.PropertyArea, r.Dependents)
	}
	if r.LoanAmountTerm != a.LoanTerm || r.CreditHistory != a.CreditHistory {
		t.Errorf("raw numerics not copied: term=%v credit=%v", r.LoanAmountTerm, r.CreditHistory)
	}
}

func TestFeatureRecord_SchemaLookup(t *testing.T) {
	r := Derive(model.DefaultApplicant())
	for _, name := range model.NumericFeatures {
		if _, ok := r.Numeric(name); !ok {
			t.Errorf("Numeric(%q) not found", name)
		}
	}
	for _, name := range model.CategoricalFeatures {
		if _, ok := r.Categorical(name); !ok {
			t.Errorf("Categorical(%q) not found", name)
		}
	}
	if n := len(model.NumericFeatures) + len(model.CategoricalFeatures); n != 18 {
		t.Errorf("schema has %d fields, want 18", n)
	}
}
