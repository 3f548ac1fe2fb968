package classifier

import (
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/loanscope/internal/model"
)

// NumericTerm standardizes one numeric feature and weights it.
type NumericTerm struct {
	Mean   float64 `toml:"mean"`
	Scale  float64 `toml:"scale"`
	Weight float64 `toml:"weight"`
}

// Linear is a linear decision function over the feature schema, exported
// from the trained pipeline: standardized numerics plus one-hot categoricals.
// Categories missing from the table contribute nothing.
type Linear struct {
	Name        string                        `toml:"name"`
	Version     string                        `toml:"version"`
	Intercept   float64                       `toml:"intercept"`
	Threshold   float64                       `toml:"threshold"`
	Numeric     map[string]NumericTerm        `toml:"numeric"`
	Categorical map[string]map[string]float64 `toml:"categorical"`
}

// Load reads a model artifact from path. Errors wrap ErrModelLoad.
func Load(path string) (*Linear, error) {
	data, err := os.ReadFile(path) //nolint:gosec // model path is configured by the local user
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrModelLoad, path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a model artifact.
func Parse(data []byte) (*Linear, error) {
	var m Linear
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing artifact: %w", ErrModelLoad, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}
	return &m, nil
}

func (m *Linear) validate() error {
	if len(m.Numeric) == 0 && len(m.Categorical) == 0 {
		return fmt.Errorf("artifact defines no features")
	}
	for name, term := range m.Numeric {
		if !slices.Contains(model.NumericFeatures, name) {
			return fmt.Errorf("unknown numeric feature %q", name)
		}
		if term.Scale == 0 || math.IsNaN(term.Scale) {
			return fmt.Errorf("feature %q has zero scale", name)
		}
	}
	for name := range m.Categorical {
		if !slices.Contains(model.CategoricalFeatures, name) {
			return fmt.Errorf("unknown categorical feature %q", name)
		}
	}
	return nil
}

// Decision returns the raw decision value for r. Terms are summed in schema
// order so the same record always yields the same float.
func (m *Linear) Decision(r model.FeatureRecord) float64 {
	d := m.Intercept
	for _, name := range model.NumericFeatures {
		term, ok := m.Numeric[name]
		if !ok {
			continue
		}
		v, _ := r.Numeric(name)
		d += term.Weight * (v - term.Mean) / term.Scale
	}
	for _, name := range model.CategoricalFeatures {
		weights, ok := m.Categorical[name]
		if !ok {
			continue
		}
		v, _ := r.Categorical(name)
		d += weights[v]
	}
	return d
}

// Predict implements Classifier.
func (m *Linear) Predict(r model.FeatureRecord) (model.Label, error) {
	d := m.Decision(r)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return model.Rejected, fmt.Errorf("%w: decision value is %v", ErrPrediction, d)
	}
	if d > m.Threshold {
		return model.Approved, nil
	}
	return model.Rejected, nil
}
