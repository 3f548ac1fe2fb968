package dataset

import (
	"math"
	"slices"
	"strconv"
)

// Summary is one row of Describe: the pandas describe() statistics of a
// numeric column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarizes every numeric column, in source order. A column is
// numeric when it has at least one value and every present value parses as
// a number. Missing cells are skipped. Std is the sample standard deviation
// and is NaN for fewer than two values.
func (d *Dataset) Describe() []Summary {
	var out []Summary
	for _, name := range d.Names() {
		values, ok := d.numericColumn(name)
		if !ok {
			continue
		}
		out = append(out, Summarize(name, values))
	}
	return out
}

func (d *Dataset) numericColumn(name string) ([]float64, bool) {
	text, present, err := d.Text(name)
	if err != nil {
		return nil, false
	}
	var values []float64
	for i, s := range text {
		if !present[i] {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, len(values) > 0
}

// Summarize computes describe() statistics over values. NaNs are ignored.
func Summarize(column string, values []float64) Summary {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	slices.Sort(sorted)

	s := Summary{Column: column, Count: len(sorted)}
	if s.Count == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(s.Count)

	s.Std = math.NaN()
	if s.Count > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - s.Mean) * (v - s.Mean)
		}
		s.Std = math.Sqrt(sq / float64(s.Count-1))
	}

	s.Min = sorted[0]
	s.Max = sorted[s.Count-1]
	s.Q25 = Quantile(sorted, 0.25)
	s.Median = Quantile(sorted, 0.5)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile returns the p-quantile of an ascending slice using linear
// interpolation between closest ranks. It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
