package model

import (
	"slices"
	"strings"
)

// FeatureRecord is the fixed-schema input the classifier was trained on.
// Numeric fields are floats; Married, PropertyArea and Dependents are passed
// through as raw categories because encoding belongs to the classifier.
type FeatureRecord struct {
	ApplicantIncome   float64 `json:"ApplicantIncome"`
	CoapplicantIncome float64 `json:"CoapplicantIncome"`
	LoanAmount        float64 `json:"LoanAmount"`
	LoanAmountTerm    float64 `json:"Loan_Amount_Term"`
	CreditHistory     float64 `json:"Credit_History"`
	Married           string  `json:"Married"`
	PropertyArea      string  `json:"Property_Area"`
	Dependents        string  `json:"Dependents"`

	TotalIncome       float64 `json:"Total_Income"`
	LoanMonthlyPaid   float64 `json:"Loan_Monthly_Paid"`
	IncomeToLoanRatio float64 `json:"Income_to_LoanRatio"`

	LogApplicantIncome   float64 `json:"log_ApplicantIncome"`
	LogCoapplicantIncome float64 `json:"log_CoapplicantIncome"`
	LogTotalIncome       float64 `json:"log_Total_Income"`
	LogLoanAmount        float64 `json:"log_LoanAmount"`
	LogLoanMonthlyPaid   float64 `json:"log_Loan_Monthly_Paid"`
	LogIncomeAfterLoan   float64 `json:"log_Income_After_Loan"`
	LogIncomeToLoanRatio float64 `json:"log_Income_to_LoanRatio"`

	// IncomeAfterLoan is shown to the user but is not a model input.
	IncomeAfterLoan float64 `json:"-"`
}

// NumericFeatures lists the numeric model inputs in schema order.
var NumericFeatures = []string{
	ApplicantIncome, CoapplicantIncome, LoanAmount, LoanAmountTerm, CreditHistory,
	TotalIncome, LoanMonthlyPaid, IncomeToLoanRatio,
	LogApplicantIncome, LogCoapplicantIncome, LogTotalIncome, LogLoanAmount,
	LogLoanMonthlyPaid, LogIncomeAfterLoan, LogIncomeToLoanRatio,
}

// CategoricalFeatures lists the categorical model inputs in schema order.
var CategoricalFeatures = []string{Married, PropertyArea, Dependents}

// Numeric returns the value of a numeric feature by schema name.
func (r FeatureRecord) Numeric(name string) (float64, bool) {
	switch name {
	case ApplicantIncome:
		return r.ApplicantIncome, true
	case CoapplicantIncome:
		return r.CoapplicantIncome, true
	case LoanAmount:
		return r.LoanAmount, true
	case LoanAmountTerm:
		return r.LoanAmountTerm, true
	case CreditHistory:
		return r.CreditHistory, true
	case TotalIncome:
		return r.TotalIncome, true
	case LoanMonthlyPaid:
		return r.LoanMonthlyPaid, true
	case IncomeToLoanRatio:
		return r.IncomeToLoanRatio, true
	case LogApplicantIncome:
		return r.LogApplicantIncome, true
	case LogCoapplicantIncome:
		return r.LogCoapplicantIncome, true
	case LogTotalIncome:
		return r.LogTotalIncome, true
	case LogLoanAmount:
		return r.LogLoanAmount, true
	case LogLoanMonthlyPaid:
		return r.LogLoanMonthlyPaid, true
	case LogIncomeAfterLoan:
		return r.LogIncomeAfterLoan, true
	case LogIncomeToLoanRatio:
		return r.LogIncomeToLoanRatio, true
	}
	return 0, false
}

// Categorical returns the raw value of a categorical feature by schema name.
func (r FeatureRecord) Categorical(name string) (string, bool) {
	switch name {
	case Married:
		return r.Married, true
	case PropertyArea:
		return r.PropertyArea, true
	case Dependents:
		return r.Dependents, true
	}
	return "", false
}

// Label is the classifier's binary output.
type Label int

const (
	Rejected Label = 0
	Approved Label = 1
)

func (l Label) String() string {
	if l == Approved {
		return "Approved"
	}
	return "Rejected"
}

// IsApproved reports whether a Loan_Status value marks an approved
// application. The dataset's "Y" code and the spelled-out label both count.
func IsApproved(status string) bool {
	status = strings.TrimSpace(status)
	return strings.EqualFold(status, "Y") || strings.EqualFold(status, Approved.String())
}

// IsRejected is the counterpart of IsApproved for "N" and "Rejected".
func IsRejected(status string) bool {
	status = strings.TrimSpace(status)
	return strings.EqualFold(status, "N") || strings.EqualFold(status, Rejected.String())
}

// ApprovedIndex returns the position of the approved outcome in outcomes,
// or -1 when none of them is approved.
func ApprovedIndex(outcomes []string) int {
	return slices.IndexFunc(outcomes, IsApproved)
}
