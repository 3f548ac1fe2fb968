// Package features derives classifier inputs from raw applicant fields.
package features

import (
	"math"

	"github.com/theirongolddev/loanscope/internal/model"
)

// Derive computes the feature record for one applicant.
//
// It never fails: a non-positive loan term yields a zero monthly payment, a
// non-positive loan amount yields a zero income-to-loan ratio, and income
// after loan is clamped at zero before its log transform. The computed ratio
// is not clamped. log_Income_to_LoanRatio is taken from the applicant's
// manual value, not from the computed ratio.
func Derive(a model.Applicant) model.FeatureRecord {
	total := TotalIncome(a.ApplicantIncome, a.CoapplicantIncome)
	monthly := MonthlyPayment(a.LoanAmount, a.LoanTerm)
	ratio := IncomeToLoanRatio(total, a.LoanAmount)
	after := total - monthly

	return model.FeatureRecord{
		ApplicantIncome:   a.ApplicantIncome,
		CoapplicantIncome: a.CoapplicantIncome,
		LoanAmount:        a.LoanAmount,
		LoanAmountTerm:    a.LoanTerm,
		CreditHistory:     a.CreditHistory,
		Married:           a.Married,
		PropertyArea:      a.PropertyArea,
		Dependents:        a.Dependents,

		TotalIncome:       total,
		LoanMonthlyPaid:   monthly,
		IncomeToLoanRatio: ratio,
		IncomeAfterLoan:   after,

		LogApplicantIncome:   Log1p(a.ApplicantIncome),
		LogCoapplicantIncome: Log1p(a.CoapplicantIncome),
		LogTotalIncome:       Log1p(total),
		LogLoanAmount:        Log1p(a.LoanAmount),
		LogLoanMonthlyPaid:   Log1p(monthly),
		LogIncomeAfterLoan:   Log1p(math.Max(after, 0)),
		LogIncomeToLoanRatio: a.LogIncomeToLoanRatio,
	}
}

// TotalIncome is applicant plus co-applicant income.
func TotalIncome(applicant, coapplicant float64) float64 {
	return applicant + coapplicant
}

// MonthlyPayment is loanAmount (thousands) spread over loanTerm.
// Returns 0 when loanTerm <= 0.
func MonthlyPayment(loanAmount, loanTerm float64) float64 {
	if loanTerm <= 0 {
		return 0
	}
	return loanAmount * 1000 / loanTerm
}

// IncomeToLoanRatio is total income over the full loan amount.
// Returns 0 when loanAmount <= 0.
func IncomeToLoanRatio(totalIncome, loanAmount float64) float64 {
	if loanAmount <= 0 {
		return 0
	}
	return totalIncome / (loanAmount * 1000)
}

// Log1p returns ln(x+1), the transform used for every log_ feature.
func Log1p(x float64) float64 {
	return math.Log(x + 1)
}
