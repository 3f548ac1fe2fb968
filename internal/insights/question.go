// Package insights maps the seven fixed analysis questions onto aggregations
// of the loan dataset.
package insights

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/loanscope/internal/model"
)

// ErrUnknownQuestion is returned for question ids outside 1..7.
var ErrUnknownQuestion = errors.New("insights: unknown question")

// Question identifies one analysis view.
type Question int

// The analysis questions, in menu order.
const (
	QuestionGender Question = iota + 1
	QuestionDependents
	QuestionPropertyArea
	QuestionLoanTerm
	QuestionCreditHistory
	QuestionTotalIncome
	QuestionMarriedDependents
)

// Kind is the shape of an aggregation result.
type Kind int

const (
	// KindCounts is a count per (dimension value, outcome).
	KindCounts Kind = iota
	// KindDistribution is a box summary of a numeric measure per outcome.
	KindDistribution
	// KindFacets is a count per (facet value, dimension value, outcome).
	KindFacets
)

func (k Kind) String() string {
	switch k {
	case KindCounts:
		return "counts"
	case KindDistribution:
		return "distribution"
	case KindFacets:
		return "facets"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind name in JSON responses.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// recipe is the aggregation behind one question.
type recipe struct {
	kind      Kind
	dimension string
	facet     string
	measure   string
	numeric   bool // dimension values are numbers: normalize and sort numerically
	sorted    bool // keys and outcomes in lexical order instead of first appearance
}

// columns lists the columns a recipe reads.
func (r recipe) columns() []string {
	cols := []string{}
	if r.dimension != "" {
		cols = append(cols, r.dimension)
	}
	if r.facet != "" {
		cols = append(cols, r.facet)
	}
	if r.measure != "" {
		cols = append(cols, r.measure)
	}
	return append(cols, model.LoanStatus)
}

var recipes = map[Question]recipe{
	QuestionGender:        {kind: KindCounts, dimension: model.Gender},
	QuestionDependents:    {kind: KindCounts, dimension: model.Dependents},
	QuestionPropertyArea:  {kind: KindCounts, dimension: model.PropertyArea},
	QuestionLoanTerm:      {kind: KindCounts, dimension: model.LoanAmountTerm, numeric: true},
	QuestionCreditHistory: {kind: KindCounts, dimension: model.CreditHistory, numeric: true},
	QuestionTotalIncome:   {kind: KindDistribution, measure: model.TotalIncome},
	QuestionMarriedDependents: {
		kind:      KindFacets,
		dimension: model.Married,
		facet:     model.Dependents,
		sorted:    true,
	},
}

type questionText struct {
	prompt  string
	chart   string
	insight []string
}

var texts = map[Question]questionText{
	QuestionGender: {
		prompt: "Does gender influence loan approval rates?",
		chart:  "Loan Approval Rate by Gender",
		insight: []string{
			"Male applicants have a much higher number of approvals (339) compared to rejections (150).",
			"Female applicants also have more approvals (75) than rejections (37), but their total applications are far fewer than males.",
		},
	},
	QuestionDependents: {
		prompt: "Is there a relationship between number of dependents and loan approval?",
		chart:  "Loan Status by Dependents",
		insight: []string{
			"Applicants with 0 dependents have the highest approval counts, likely due to lower financial burdens.",
		},
	},
	QuestionPropertyArea: {
		prompt: "Does property area affect loan approval?",
		chart:  "Loan Status by Property Area",
		insight: []string{
			"Semiurban areas have the highest approval count, followed by rural and urban.",
		},
	},
	QuestionLoanTerm: {
		prompt: "Are shorter or longer loans more likely to be approved?",
		chart:  "Loan Approval by Loan Term Duration",
		insight: []string{
			"Longer loans are more likely to be approved.",
		},
	},
	QuestionCreditHistory: {
		prompt: "How does credit history impact loan approval?",
		chart:  "Loan Approval Rate by Credit History",
		insight: []string{
			"Applicants with a good credit history (1) have a very high approval count (378) compared to rejections (97).",
			"Applicants with no or poor credit history (0) face a significant disadvantage: only 7 approvals vs 82 rejections.",
			"Credit history is a critical factor in loan approval.",
		},
	},
	QuestionTotalIncome: {
		prompt: "Does total household income affect loan approval?",
		chart:  "Total Household Income vs Loan Status",
		insight: []string{
			"The median total household income is quite similar for both approved and rejected loans, suggesting income alone isn't a strong approval driver.",
			"There are more high-income outliers among rejected applications, meaning some high earners still face denials, likely due to other factors like credit history or loan-to-income ratio.",
		},
	},
	QuestionMarriedDependents: {
		prompt: "What is impact of marital status and dependents on loan approval?",
		chart:  "Loan Approval by Marital Status & Dependents",
		insight: []string{
			"Single people with no kids have the highest chance to get a loan (best customers).",
			"Married with 1 child also has a very good chance.",
			"Married with 2 children is okay, but with a lower chance than 0 or 1 child.",
			"Married with 3 or more children carries a very high chance of rejection.",
			"Single with 3+ kids is very rare, but when they apply, the bank usually says yes.",
		},
	},
}

// Questions returns all questions in menu order.
func Questions() []Question {
	return []Question{
		QuestionGender,
		QuestionDependents,
		QuestionPropertyArea,
		QuestionLoanTerm,
		QuestionCreditHistory,
		QuestionTotalIncome,
		QuestionMarriedDependents,
	}
}

// ParseQuestion accepts "1" through "7".
func ParseQuestion(s string) (Question, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuestion, s)
	}
	q := Question(n)
	if !q.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownQuestion, n)
	}
	return q, nil
}

// Valid reports whether q is one of the seven questions.
func (q Question) Valid() bool {
	_, ok := recipes[q]
	return ok
}

// Prompt is the question as asked.
func (q Question) Prompt() string { return texts[q].prompt }

// ChartTitle is the heading of the question's chart.
func (q Question) ChartTitle() string { return texts[q].chart }

// Insight returns the summary bullets for the question.
func (q Question) Insight() []string { return texts[q].insight }

// Kind returns the result shape the question produces.
func (q Question) Kind() Kind { return recipes[q].kind }

// Columns lists the dataset columns the question needs.
func (q Question) Columns() []string { return recipes[q].columns() }

func (q Question) String() string {
	if !q.Valid() {
		return fmt.Sprintf("Question(%d)", int(q))
	}
	return fmt.Sprintf("%d. %s", int(q), q.Prompt())
}
