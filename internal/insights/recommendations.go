package insights

// Recommendation is one closing takeaway shown below the charts on demand.
type Recommendation struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Footnote qualifies every insight on screen.
const Footnote = "Note: Insights are dataset-specific. For production decisions, validate with business rules and further testing."

// Recommendations returns the final recommendations in display order.
func Recommendations() []Recommendation {
	return []Recommendation{
		{
			Title: "Prioritize Credit History",
			Body:  "Credit history is the strongest predictor of loan approval. Applicants with good credit should receive priority, while those with poor or missing credit must undergo additional checks.",
		},
		{
			Title: "Use Dependents and Marital Status as Stability Indicators",
			Body:  "Applicants with 0-1 dependents show the highest approval likelihood. Those with 3+ dependents represent high financial pressure and should be assessed more cautiously.",
		},
		{
			Title: "Do Not Rely on Income Alone",
			Body:  "Median income is similar across approved and rejected groups. Income should always be evaluated together with loan amount, dependents, and credit history.",
		},
		{
			Title: "Encourage Longer Loan Terms",
			Body:  "Longer loan durations correlate with higher approval rates because they reduce monthly installment pressure. Consider offering extended terms to borderline applicants.",
		},
		{
			Title: "Incorporate Property Area into Risk Assessment",
			Body:  "Semiurban applicants have the highest approval rates. Consider slight positive adjustments for semiurban applicants and stricter checks for urban areas as needed.",
		},
		{
			Title: "Treat Gender as a Non-Critical Factor",
			Body:  "Approval differences come from application volume, not approval bias. Gender should not materially affect model decisions.",
		},
		{
			Title: "Investigate High-Income Rejections",
			Body:  "Some high-income applicants are still rejected, indicating other strong risk signals such as poor credit history or a high loan-to-income ratio. These cases require further review.",
		},
	}
}
