package model

// Dataset and feature column names. Names match the trained model's schema.
const (
	ApplicantIncome   = "ApplicantIncome"
	CoapplicantIncome = "CoapplicantIncome"
	LoanAmount        = "LoanAmount"
	LoanAmountTerm    = "Loan_Amount_Term"
	CreditHistory     = "Credit_History"
	Married           = "Married"
	Dependents        = "Dependents"
	PropertyArea      = "Property_Area"
	LoanStatus        = "Loan_Status"
	Gender            = "Gender"
	TotalIncome       = "Total_Income"

	LoanMonthlyPaid      = "Loan_Monthly_Paid"
	IncomeToLoanRatio    = "Income_to_LoanRatio"
	LogApplicantIncome   = "log_ApplicantIncome"
	LogCoapplicantIncome = "log_CoapplicantIncome"
	LogTotalIncome       = "log_Total_Income"
	LogLoanAmount        = "log_LoanAmount"
	LogLoanMonthlyPaid   = "log_Loan_Monthly_Paid"
	LogIncomeAfterLoan   = "log_Income_After_Loan"
	LogIncomeToLoanRatio = "log_Income_to_LoanRatio"
)

// ColumnDescription pairs a dataset column with its meaning.
type ColumnDescription struct {
	Column  string
	Meaning string
}

// ColumnDescriptions explains the dataset's raw columns.
var ColumnDescriptions = []ColumnDescription{
	{ApplicantIncome, "Income of the applicant"},
	{CoapplicantIncome, "Income of the co-applicant"},
	{LoanAmount, "Requested loan amount in thousands"},
	{LoanAmountTerm, "Loan term in days"},
	{CreditHistory, "1 = good history, 0 = bad history"},
	{Married, "Applicant marital status"},
	{Dependents, "Number of dependents"},
	{PropertyArea, "Area type of property"},
	{LoanStatus, "Target variable: Approved/Rejected"},
}
