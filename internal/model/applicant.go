// Package model defines domain types for loanscope applicants, features and datasets.
package model

// Applicant holds the raw fields entered on the prediction form.
type Applicant struct {
	ApplicantIncome   float64 `json:"applicant_income" toml:"applicant_income"`
	CoapplicantIncome float64 `json:"coapplicant_income" toml:"coapplicant_income"`
	LoanAmount        float64 `json:"loan_amount" toml:"loan_amount"` // thousands
	LoanTerm          float64 `json:"loan_term" toml:"loan_term"`     // days
	CreditHistory     float64 `json:"credit_history" toml:"credit_history"`
	Married           string  `json:"married" toml:"married"`
	PropertyArea      string  `json:"property_area" toml:"property_area"`
	Dependents        string  `json:"dependents" toml:"dependents"`

	// LogIncomeToLoanRatio is supplied by the user directly. It is not
	// derived from the computed income-to-loan ratio.
	LogIncomeToLoanRatio float64 `json:"log_income_to_loan_ratio" toml:"log_income_to_loan_ratio"`
}

// DefaultApplicant returns the values the prediction form starts with.
func DefaultApplicant() Applicant {
	return Applicant{
		ApplicantIncome:      5000,
		CoapplicantIncome:    1500,
		LoanAmount:           150,
		LoanTerm:             360,
		CreditHistory:        1,
		Married:              "Yes",
		PropertyArea:         "Urban",
		Dependents:           "0",
		LogIncomeToLoanRatio: 3.0,
	}
}

// Range is a documented UI bound for a numeric form input.
// The feature deriver does not enforce it.
type Range struct {
	Min, Max, Step float64
}

// Form input bounds.
var (
	ApplicantIncomeRange      = Range{Min: 0, Max: 100000, Step: 100}
	CoapplicantIncomeRange    = Range{Min: 0, Max: 50000, Step: 50}
	LoanAmountRange           = Range{Min: 0, Max: 1000, Step: 5}
	LoanTermRange             = Range{Min: 1, Max: 600, Step: 1}
	LogIncomeToLoanRatioRange = Range{Min: 0, Max: 10, Step: 0.01}
)

// Categorical option lists, in the order the form presents them.
var (
	CreditHistoryOptions = []float64{1, 0}
	MarriedOptions       = []string{"Yes", "No"}
	PropertyAreaOptions  = []string{"Urban", "Rural", "Semiurban"}
	DependentsOptions    = []string{"0", "1", "2", "3+"}
)
