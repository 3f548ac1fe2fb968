package cmd

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/features"
	"github.com/theirongolddev/loanscope/internal/model"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// applicant is bound to the raw-field flags shared by predict and features.
var applicant = model.DefaultApplicant()

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Derive features for an applicant and predict approval",
	Args:  cobra.NoArgs,
	RunE:  runPredict,
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Derive model features for an applicant (no model needed)",
	Args:  cobra.NoArgs,
	RunE:  runFeatures,
}

func init() {
	for _, c := range []*cobra.Command{predictCmd, featuresCmd} {
		addApplicantFlags(c.Flags())
		rootCmd.AddCommand(c)
	}
}

func addApplicantFlags(fs *pflag.FlagSet) {
	d := model.DefaultApplicant()
	fs.Float64Var(&applicant.ApplicantIncome, "applicant-income", d.ApplicantIncome, "Applicant income")
	fs.Float64Var(&applicant.CoapplicantIncome, "coapplicant-income", d.CoapplicantIncome, "Co-applicant income")
	fs.Float64Var(&applicant.LoanAmount, "loan-amount", d.LoanAmount, "Loan amount in thousands")
	fs.Float64Var(&applicant.LoanTerm, "loan-term", d.LoanTerm, "Loan term in days")
	fs.Float64Var(&applicant.CreditHistory, "credit-history", d.CreditHistory, "Credit history (1 good, 0 bad)")
	fs.StringVar(&applicant.Married, "married", d.Married, "Married (Yes, No)")
	fs.StringVar(&applicant.PropertyArea, "property-area", d.PropertyArea, "Property area (Urban, Rural, Semiurban)")
	fs.StringVar(&applicant.Dependents, "dependents", d.Dependents, "Dependents (0, 1, 2, 3+)")
	fs.Float64Var(&applicant.LogIncomeToLoanRatio, "log-income-to-loan-ratio", d.LogIncomeToLoanRatio, "log(Income_to_LoanRatio), entered directly")
}

// validateApplicant checks the categorical fields against the form options.
// Numeric ranges are advisory and not enforced.
func validateApplicant(a model.Applicant) error {
	if !slices.Contains(model.CreditHistoryOptions, a.CreditHistory) {
		return fmt.Errorf("--credit-history must be one of %v", model.CreditHistoryOptions)
	}
	if !slices.Contains(model.MarriedOptions, a.Married) {
		return fmt.Errorf("--married must be one of %v", model.MarriedOptions)
	}
	if !slices.Contains(model.PropertyAreaOptions, a.PropertyArea) {
		return fmt.Errorf("--property-area must be one of %v", model.PropertyAreaOptions)
	}
	if !slices.Contains(model.DependentsOptions, a.Dependents) {
		return fmt.Errorf("--dependents must be one of %v", model.DependentsOptions)
	}
	return nil
}

func runFeatures(_ *cobra.Command, _ []string) error {
	if err := validateApplicant(applicant); err != nil {
		return err
	}
	rec := features.Derive(applicant)

	fmt.Println()
	fmt.Println(cli.RenderTitle("DERIVED FEATURES"))
	fmt.Println()
	fmt.Print(cli.RenderTable(featureTable(rec)))
	return nil
}

func runPredict(_ *cobra.Command, _ []string) error {
	if err := validateApplicant(applicant); err != nil {
		return err
	}

	clf, err := loadClassifier()
	if err != nil {
		return err
	}

	rec := features.Derive(applicant)

	fmt.Println()
	fmt.Println(cli.RenderTitle("LOAN APPROVAL PREDICTION"))
	fmt.Println()
	fmt.Print(cli.RenderTable(featureTable(rec)))
	fmt.Println()

	label, err := clf.Predict(rec)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	fmt.Printf("  Model:    %s %s\n", clf.Name, clf.Version)
	fmt.Printf("  Decision: %s (score %s, threshold %s)\n",
		label,
		cli.FormatFloat(clf.Decision(rec), 3),
		cli.FormatFloat(clf.Threshold, 3),
	)
	return nil
}

// featureTable lists every model input in schema order, plus the
// display-only income after loan.
func featureTable(rec model.FeatureRecord) cli.Table {
	var rows [][]string
	for _, name := range model.NumericFeatures {
		v, _ := rec.Numeric(name)
		rows = append(rows, []string{name, cli.FormatFloat(v, 4)})
	}
	rows = append(rows, []string{"---"})
	for _, name := range model.CategoricalFeatures {
		v, _ := rec.Categorical(name)
		rows = append(rows, []string{name, v})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Income_After_Loan (display)", cli.FormatFloat(rec.IncomeAfterLoan, 4)})

	return cli.Table{
		Headers: []string{"Feature", "Value"},
		Rows:    rows,
	}
}
