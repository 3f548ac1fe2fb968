package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/loanscope/internal/classifier"
	"github.com/theirongolddev/loanscope/internal/cli"
	"github.com/theirongolddev/loanscope/internal/features"
	"github.com/theirongolddev/loanscope/internal/model"
	"github.com/theirongolddev/loanscope/internal/tui/components"
	"github.com/theirongolddev/loanscope/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errNoModel = errors.New("no classifier loaded; set a model artifact with --model or in settings")

// predictState tracks the applicant being scored.
type predictState struct {
	applicant model.Applicant
	record    model.FeatureRecord
	label     model.Label
	scored    bool
	err       error

	form *huh.Form
	vals *applicantValues
}

// applicantValues are the form-bound text values of an applicant.
type applicantValues struct {
	applicantIncome   string
	coapplicantIncome string
	loanAmount        string
	loanTerm          string
	creditHistory     string
	married           string
	propertyArea      string
	dependents        string
	logRatio          string
}

func newPredictState() predictState {
	return predictState{applicant: model.DefaultApplicant()}
}

// derive refreshes the derived features and clears any previous decision.
func (p *predictState) derive() {
	p.record = features.Derive(p.applicant)
	p.scored = false
	p.err = nil
}

// run derives features for the current applicant and scores them.
func (p *predictState) run(c classifier.Classifier) {
	p.derive()
	p.scored = true
	if c == nil {
		p.err = errNoModel
		return
	}
	p.label, p.err = c.Predict(p.record)
}

func valuesFromApplicant(ap model.Applicant) *applicantValues {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return &applicantValues{
		applicantIncome:   f(ap.ApplicantIncome),
		coapplicantIncome: f(ap.CoapplicantIncome),
		loanAmount:        f(ap.LoanAmount),
		loanTerm:          f(ap.LoanTerm),
		creditHistory:     f(ap.CreditHistory),
		married:           ap.Married,
		propertyArea:      ap.PropertyArea,
		dependents:        ap.Dependents,
		logRatio:          f(ap.LogIncomeToLoanRatio),
	}
}

// applicant converts validated form values. Fields that fail to parse keep
// their previous value.
func (v *applicantValues) applicant(prev model.Applicant) model.Applicant {
	ap := prev
	parse := func(s string, dst *float64) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*dst = f
		}
	}
	parse(v.applicantIncome, &ap.ApplicantIncome)
	parse(v.coapplicantIncome, &ap.CoapplicantIncome)
	parse(v.loanAmount, &ap.LoanAmount)
	parse(v.loanTerm, &ap.LoanTerm)
	parse(v.creditHistory, &ap.CreditHistory)
	parse(v.logRatio, &ap.LogIncomeToLoanRatio)
	ap.Married = v.married
	ap.PropertyArea = v.propertyArea
	ap.Dependents = v.dependents
	return ap
}

// validateRange returns a huh validator that accepts numbers within r.
func validateRange(r model.Range) func(string) error {
	return func(s string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if f < r.Min || f > r.Max {
			return fmt.Errorf("must be between %s and %s", cli.FormatFloat(r.Min, 2), cli.FormatFloat(r.Max, 2))
		}
		return nil
	}
}

func newPredictForm(v *applicantValues) *huh.Form {
	credit := make([]huh.Option[string], len(model.CreditHistoryOptions))
	for i, c := range model.CreditHistoryOptions {
		label := "1 - good history"
		if c == 0 {
			label = "0 - bad history"
		}
		credit[i] = huh.NewOption(label, strconv.FormatFloat(c, 'f', -1, 64))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Applicant income").
				Value(&v.applicantIncome).Validate(validateRange(model.ApplicantIncomeRange)),
			huh.NewInput().Title("Co-applicant income").
				Value(&v.coapplicantIncome).Validate(validateRange(model.CoapplicantIncomeRange)),
			huh.NewInput().Title("Loan amount (thousands)").
				Value(&v.loanAmount).Validate(validateRange(model.LoanAmountRange)),
			huh.NewInput().Title("Loan term (days)").
				Value(&v.loanTerm).Validate(validateRange(model.LoanTermRange)),
			huh.NewInput().Title("Log income-to-loan ratio").
				Description("Entered directly; not computed from the fields above").
				Value(&v.logRatio).Validate(validateRange(model.LogIncomeToLoanRatioRange)),
		).Title("Applicant"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Credit history").Options(credit...).Value(&v.creditHistory),
			huh.NewSelect[string]().Title("Married").Options(huh.NewOptions(model.MarriedOptions...)...).Value(&v.married),
			huh.NewSelect[string]().Title("Property area").Options(huh.NewOptions(model.PropertyAreaOptions...)...).Value(&v.propertyArea),
			huh.NewSelect[string]().Title("Dependents").Options(huh.NewOptions(model.DependentsOptions...)...).Value(&v.dependents),
		).Title("Profile"),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

func (a App) openPredictForm() (tea.Model, tea.Cmd) {
	a.predict.vals = valuesFromApplicant(a.predict.applicant)
	a.predict.form = newPredictForm(a.predict.vals)
	if a.width > 0 {
		a.predict.form = a.predict.form.WithWidth(components.CardInnerWidth(a.contentWidth()))
	}
	return a, a.predict.form.Init()
}

func (a App) updatePredictForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.predict.form = nil
		return a, nil
	}

	form, cmd := a.predict.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.predict.form = f
	}

	switch a.predict.form.State {
	case huh.StateCompleted:
		a.predict.applicant = a.predict.vals.applicant(a.predict.applicant)
		a.predict.run(a.model)
		a.predict.form = nil
		return a, nil
	case huh.StateAborted:
		a.predict.form = nil
		return a, nil
	}
	return a, cmd
}

func (a App) renderPredictTab(cw int) string {
	if a.predict.form != nil {
		return components.FocusCard("Score an applicant", a.predict.form.View(), cw)
	}

	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	ap := a.predict.applicant
	rec := a.predict.record

	row := func(b *strings.Builder, label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-26s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	var in strings.Builder
	row(&in, "Applicant income", cli.FormatAmount(ap.ApplicantIncome))
	row(&in, "Co-applicant income", cli.FormatAmount(ap.CoapplicantIncome))
	row(&in, "Loan amount (thousands)", cli.FormatAmount(ap.LoanAmount))
	row(&in, "Loan term (days)", cli.FormatFloat(ap.LoanTerm, 0))
	row(&in, "Credit history", cli.FormatFloat(ap.CreditHistory, 0))
	row(&in, "Married", ap.Married)
	row(&in, "Property area", ap.PropertyArea)
	row(&in, "Dependents", ap.Dependents)
	row(&in, "Log income-to-loan ratio", cli.FormatFloat(ap.LogIncomeToLoanRatio, 2))
	in.WriteString("\n")
	in.WriteString(dimStyle.Render("[Enter] edit and score applicant"))

	var out strings.Builder
	switch {
	case a.predict.err != nil:
		warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
		out.WriteString(warn.Render(truncStr(a.predict.err.Error(), components.CardInnerWidth(cw))))
	case !a.predict.scored:
		out.WriteString(dimStyle.Render("○ Not yet scored"))
	default:
		color := t.Rejected
		if a.predict.label == model.Approved {
			color = t.Approved
		}
		decision := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
		out.WriteString(decision.Render("● Loan " + a.predict.label.String()))
	}
	out.WriteString("\n\n")
	row(&out, "Total income", cli.FormatAmount(rec.TotalIncome))
	row(&out, "Monthly payment", cli.FormatAmount(rec.LoanMonthlyPaid))
	row(&out, "Income after loan", cli.FormatAmount(rec.IncomeAfterLoan))
	row(&out, "Income-to-loan ratio", cli.FormatFloat(rec.IncomeToLoanRatio, 2))
	row(&out, "log Total_Income", cli.FormatFloat(rec.LogTotalIncome, 3))
	row(&out, "log Loan_Monthly_Paid", cli.FormatFloat(rec.LogLoanMonthlyPaid, 3))
	row(&out, "log Income_After_Loan", cli.FormatFloat(rec.LogIncomeAfterLoan, 3))

	if a.modelErr != nil {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(truncStr(a.modelErr.Error(), components.CardInnerWidth(cw))))
	}

	if a.isCompactLayout() {
		return components.ContentCard("Applicant", in.String(), cw) + "\n" +
			components.ContentCard("Decision", strings.TrimRight(out.String(), "\n"), cw)
	}

	halves := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("Applicant", in.String(), halves[0]),
		components.FocusCard("Decision", strings.TrimRight(out.String(), "\n"), halves[1]),
	})
}
