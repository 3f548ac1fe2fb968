package insights

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/model"
)

// Group is the outcome tally for one dimension value. Counts is aligned with
// Result.Outcomes.
type Group struct {
	Key    string `json:"key"`
	Counts []int  `json:"counts"`
}

// Total is the number of rows in the group.
func (g Group) Total() int {
	n := 0
	for _, c := range g.Counts {
		n += c
	}
	return n
}

// Facet is the dimension breakdown for one facet value.
type Facet struct {
	Key    string  `json:"key"`
	Groups []Group `json:"groups"`
}

// Result is an aggregation for one question. Exactly one of Counts,
// Distribution and Facets is set, according to Kind.
type Result struct {
	Question     Question `json:"question"`
	Kind         Kind     `json:"kind"`
	Dimension    string   `json:"dimension,omitempty"`
	Facet        string   `json:"facet,omitempty"`
	Measure      string   `json:"measure,omitempty"`
	Outcomes     []string `json:"outcomes"`
	Counts       []Group  `json:"counts,omitempty"`
	Distribution []Box    `json:"distribution,omitempty"`
	Facets       []Facet  `json:"facets,omitempty"`
}

// Total is the number of dataset rows the result accounts for.
func (r Result) Total() int {
	n := 0
	for _, g := range r.Counts {
		n += g.Total()
	}
	for _, b := range r.Distribution {
		n += b.Count
	}
	for _, f := range r.Facets {
		for _, g := range f.Groups {
			n += g.Total()
		}
	}
	return n
}

// Aggregate computes the view for question q. Rows with a missing group key
// or outcome are left out. A dataset lacking a required column yields a
// *dataset.MissingColumnError.
func Aggregate(ds *dataset.Dataset, q Question) (Result, error) {
	r, ok := recipes[q]
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownQuestion, int(q))
	}
	if err := ds.Require(r.columns()...); err != nil {
		return Result{}, fmt.Errorf("question %d: %w", int(q), err)
	}

	res := Result{
		Question:  q,
		Kind:      r.kind,
		Dimension: r.dimension,
		Facet:     r.facet,
		Measure:   r.measure,
	}

	var err error
	switch r.kind {
	case KindCounts:
		err = aggregateCounts(ds, r, &res)
	case KindDistribution:
		err = aggregateDistribution(ds, r, &res)
	case KindFacets:
		err = aggregateFacets(ds, r, &res)
	}
	if err != nil {
		return Result{}, fmt.Errorf("question %d: %w", int(q), err)
	}
	return res, nil
}

// column is a cleaned text column: values normalized, missing cells marked.
type column struct {
	values  []string
	present []bool
}

func readColumn(ds *dataset.Dataset, name string, numeric bool) (column, error) {
	values, present, err := ds.Text(name)
	if err != nil {
		return column{}, err
	}
	if numeric {
		for i, v := range values {
			if !present[i] {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				present[i] = false
				continue
			}
			values[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return column{values: values, present: present}, nil
}

// keyOrder collects distinct keys in first-appearance order, then applies
// numeric or lexical ordering when requested.
type keyOrder struct {
	keys  []string
	index map[string]int
}

func newKeyOrder() *keyOrder { return &keyOrder{index: map[string]int{}} }

func (k *keyOrder) add(key string) {
	if _, ok := k.index[key]; ok {
		return
	}
	k.index[key] = len(k.keys)
	k.keys = append(k.keys, key)
}

func (k *keyOrder) finish(numeric, lexical bool) []string {
	switch {
	case numeric:
		sort.SliceStable(k.keys, func(i, j int) bool {
			a, _ := strconv.ParseFloat(k.keys[i], 64)
			b, _ := strconv.ParseFloat(k.keys[j], 64)
			return a < b
		})
	case lexical:
		slices.Sort(k.keys)
	}
	for i, key := range k.keys {
		k.index[key] = i
	}
	return k.keys
}

func aggregateCounts(ds *dataset.Dataset, r recipe, res *Result) error {
	dim, err := readColumn(ds, r.dimension, r.numeric)
	if err != nil {
		return err
	}
	status, err := readColumn(ds, model.LoanStatus, false)
	if err != nil {
		return err
	}

	keys, outcomes := newKeyOrder(), newKeyOrder()
	for i := range dim.values {
		if !dim.present[i] || !status.present[i] {
			continue
		}
		keys.add(dim.values[i])
		outcomes.add(status.values[i])
	}
	res.Outcomes = outcomes.finish(false, r.sorted)
	groups := make([]Group, len(keys.finish(r.numeric, r.sorted)))
	for i, key := range keys.keys {
		groups[i] = Group{Key: key, Counts: make([]int, len(res.Outcomes))}
	}

	for i := range dim.values {
		if !dim.present[i] || !status.present[i] {
			continue
		}
		groups[keys.index[dim.values[i]]].Counts[outcomes.index[status.values[i]]]++
	}
	res.Counts = groups
	return nil
}

func aggregateFacets(ds *dataset.Dataset, r recipe, res *Result) error {
	dim, err := readColumn(ds, r.dimension, false)
	if err != nil {
		return err
	}
	facet, err := readColumn(ds, r.facet, false)
	if err != nil {
		return err
	}
	status, err := readColumn(ds, model.LoanStatus, false)
	if err != nil {
		return err
	}

	usable := func(i int) bool {
		return dim.present[i] && facet.present[i] && status.present[i]
	}

	facets, keys, outcomes := newKeyOrder(), newKeyOrder(), newKeyOrder()
	for i := range dim.values {
		if !usable(i) {
			continue
		}
		facets.add(facet.values[i])
		keys.add(dim.values[i])
		outcomes.add(status.values[i])
	}
	res.Outcomes = outcomes.finish(false, r.sorted)
	keys.finish(false, r.sorted)
	facets.finish(false, r.sorted)

	res.Facets = make([]Facet, len(facets.keys))
	for i, fk := range facets.keys {
		groups := make([]Group, len(keys.keys))
		for j, key := range keys.keys {
			groups[j] = Group{Key: key, Counts: make([]int, len(res.Outcomes))}
		}
		res.Facets[i] = Facet{Key: fk, Groups: groups}
	}

	for i := range dim.values {
		if !usable(i) {
			continue
		}
		f := &res.Facets[facets.index[facet.values[i]]]
		f.Groups[keys.index[dim.values[i]]].Counts[outcomes.index[status.values[i]]]++
	}
	return nil
}

func aggregateDistribution(ds *dataset.Dataset, r recipe, res *Result) error {
	measure, err := ds.Floats(r.measure)
	if err != nil {
		return err
	}
	status, err := readColumn(ds, model.LoanStatus, false)
	if err != nil {
		return err
	}

	outcomes := newKeyOrder()
	var samples [][]float64
	for i, v := range measure {
		if !status.present[i] || math.IsNaN(v) {
			continue
		}
		outcomes.add(status.values[i])
		idx := outcomes.index[status.values[i]]
		if idx == len(samples) {
			samples = append(samples, nil)
		}
		samples[idx] = append(samples[idx], v)
	}

	res.Outcomes = outcomes.keys
	res.Distribution = make([]Box, len(samples))
	for i, s := range samples {
		res.Distribution[i] = Summarize(outcomes.keys[i], s)
	}
	return nil
}
