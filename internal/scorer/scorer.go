package scorer

import (
	"errors"
	"fmt"
	"math"

	"github.com/Borislavv/go-ash-bloom/model"
)

var (
	ErrNoWeights       = errors.New("logistic model has no weights")
	ErrFeatureMismatch = errors.New("record has more features than the model has weights")
	ErrNoEvaluator     = errors.New("boosted model has no evaluator")
)

// Scorer returns the model's belief that a record belongs to the set.
// Predict is synchronous and may be slow; it either returns a score or an error.
// The filters never bound the score: thresholds are compared against it directly.
type Scorer interface {
	Predict(data *model.Data) (float64, error)
}

// Func adapts a plain function to Scorer.
type Func func(data *model.Data) (float64, error)

func (f Func) Predict(data *model.Data) (float64, error) {
	return f(data)
}

// Logistic is a logistic regression model: sigmoid(sum(x_i * w_i)).
type Logistic struct {
	weights []float64
}

func NewLogistic(weights []float64) (*Logistic, error) {
	if len(weights) == 0 {
		return nil, ErrNoWeights
	}
	return &Logistic{weights: append([]float64(nil), weights...)}, nil
}

func (l *Logistic) NumWeights() int {
	return len(l.weights)
}

func (l *Logistic) Predict(data *model.Data) (float64, error) {
	if len(data.FloatFeatures) > len(l.weights) {
		return 0, fmt.Errorf("%w: %d features, %d weights", ErrFeatureMismatch, len(data.FloatFeatures), len(l.weights))
	}
	var sum float64
	for i, x := range data.FloatFeatures {
		sum -= float64(x) * l.weights[i]
	}
	return 1 / (1 + math.Exp(sum)), nil
}

// Evaluator is an external gradient-boosted tree runtime.
type Evaluator interface {
	CalcPrediction(floatFeatures []float32, catFeatures []string) (float64, error)
}

// Boosted delegates scoring to a boosted tree Evaluator.
type Boosted struct {
	eval Evaluator
}

func NewBoosted(eval Evaluator) (*Boosted, error) {
	if eval == nil {
		return nil, ErrNoEvaluator
	}
	return &Boosted{eval: eval}, nil
}

func (b *Boosted) Predict(data *model.Data) (float64, error) {
	score, err := b.eval.CalcPrediction(data.FloatFeatures, data.CatFeatures)
	if err != nil {
		return 0, fmt.Errorf("boosted prediction for id %d: %w", data.ID, err)
	}
	return score, nil
}
