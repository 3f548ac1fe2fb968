package insights

import (
	"slices"

	"github.com/theirongolddev/loanscope/internal/dataset"
)

// Box is a box-plot summary of one outcome's values. Whiskers reach the
// furthest values within 1.5 IQR of the quartiles; anything beyond is an
// outlier.
type Box struct {
	Outcome      string    `json:"outcome"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// Summarize builds the box for values, which must be non-empty.
func Summarize(outcome string, values []float64) Box {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	b := Box{
		Outcome: outcome,
		Count:   len(sorted),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		Q1:      dataset.Quantile(sorted, 0.25),
		Median:  dataset.Quantile(sorted, 0.5),
		Q3:      dataset.Quantile(sorted, 0.75),
	}

	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
	for _, v := range sorted {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.LowerWhisker {
			b.LowerWhisker = v
		}
		if v > b.UpperWhisker {
			b.UpperWhisker = v
		}
	}
	return b
}
