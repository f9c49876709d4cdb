package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/JosMR1003/aplicacion-flotacion/pkg/errors"
)

// Predictor evaluates a loaded ensemble. It holds no mutable state and is
// safe for concurrent use.
type Predictor struct {
	ensemble *Ensemble
}

// NewPredictor creates a predictor over the given ensemble.
func NewPredictor(ensemble *Ensemble) *Predictor {
	return &Predictor{ensemble: ensemble}
}

// Predict evaluates the ensemble for every row of X and returns an n×1
// matrix of predictions. The column count must match the training schema.
func (p *Predictor) Predict(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if cols != p.ensemble.NumFeatures() {
		return nil, errors.NewDimensionError("Predictor.Predict", p.ensemble.NumFeatures(), cols, 1)
	}
	if rows == 0 {
		return nil, errors.NewDimensionError("Predictor.Predict", 1, 0, 0)
	}

	predictions := mat.NewDense(rows, 1, nil)
	features := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			features[j] = X.At(i, j)
		}
		predictions.Set(i, 0, p.ensemble.score(features))
	}
	return predictions, nil
}

// PredictRecord evaluates one labeled record. The record's field names must
// match the artifact's training schema exactly, name and position; a
// mismatch is reported at prediction time, not at load time. Panics from a
// corrupt artifact are recovered and returned as errors, and a non-finite
// output is an error as well: the caller always gets a value or a typed
// failure, never a crash.
func (p *Predictor) PredictRecord(rec Record) (v float64, err error) {
	defer func() {
		var panicErr *errors.PanicError
		if errors.As(err, &panicErr) {
			err = errors.NewPredictionError("Predictor.PredictRecord", panicErr)
		}
	}()
	defer errors.Recover(&err, "Predictor.PredictRecord")

	if err := p.checkSchema(rec); err != nil {
		return 0, err
	}

	x := mat.NewDense(1, len(rec.Values), rec.Values)
	out, err := p.Predict(x)
	if err != nil {
		return 0, errors.NewPredictionError("Predictor.PredictRecord", err)
	}

	v = out.At(0, 0)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewPredictionError("Predictor.PredictRecord",
			errors.Newf("non-finite prediction %v", v))
	}
	return v, nil
}

func (p *Predictor) checkSchema(rec Record) error {
	expected := p.ensemble.FeatureNames
	if len(rec.Names) != len(expected) || len(rec.Values) != len(expected) {
		return errors.NewSchemaError("Predictor.PredictRecord", expected, rec.Names)
	}
	for i := range expected {
		if rec.Names[i] != expected[i] {
			return errors.NewSchemaError("Predictor.PredictRecord", expected, rec.Names)
		}
	}
	return nil
}
