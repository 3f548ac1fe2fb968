// Package classifier loads the pre-trained loan approval model and runs it
// against derived feature records.
package classifier

import (
	"errors"

	"github.com/theirongolddev/loanscope/internal/model"
)

var (
	// ErrModelLoad indicates the model artifact could not be read or is invalid.
	ErrModelLoad = errors.New("classifier: model load failed")
	// ErrPrediction indicates the model could not produce a label for a record.
	ErrPrediction = errors.New("classifier: prediction failed")
)

// Classifier maps one feature record to an approval label.
type Classifier interface {
	Predict(model.FeatureRecord) (model.Label, error)
}

// Func adapts a plain function to the Classifier interface.
type Func func(model.FeatureRecord) (model.Label, error)

// Predict implements Classifier.
func (f Func) Predict(r model.FeatureRecord) (model.Label, error) {
	return f(r)
}

// Constant returns a classifier that always answers with label.
func Constant(label model.Label) Classifier {
	return Func(func(model.FeatureRecord) (model.Label, error) {
		return label, nil
	})
}
