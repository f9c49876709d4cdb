package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	apperrors "github.com/JosMR1003/aplicacion-flotacion/pkg/errors"
)

func loadTestEnsemble(t *testing.T) *Ensemble {
	t.Helper()
	ensemble, err := Load(testArtifact)
	require.NoError(t, err)
	return ensemble
}

func TestPredictRecordDefaults(t *testing.T) {
	pred := NewPredictor(loadTestEnsemble(t))

	v, err := pred.PredictRecord(DefaultParams().Record())
	require.NoError(t, err)

	// init 1.37 + 0.84 + 0.22 - 0.08
	assert.InDelta(t, 2.35, v, 1e-12)
}

func TestPredictRecordUpperRegion(t *testing.T) {
	pred := NewPredictor(loadTestEnsemble(t))

	p := Params{AmineFlow: 700, AirFlow: 350, IronConcentrate: 68}
	v, err := pred.PredictRecord(p.Record())
	require.NoError(t, err)

	// init 1.37 + 0.31 + 0.61 + 0.12
	assert.InDelta(t, 2.41, v, 1e-12)
}

func TestPredictRecordWholeRangeIsFinite(t *testing.T) {
	pred := NewPredictor(loadTestEnsemble(t))

	for amine := AmineFlowBounds.Min; amine <= AmineFlowBounds.Max; amine += 50 {
		for air := AirFlowBounds.Min; air <= AirFlowBounds.Max; air += 20 {
			for iron := IronConcentrateBounds.Min; iron <= IronConcentrateBounds.Max; iron++ {
				p := Params{AmineFlow: amine, AirFlow: air, IronConcentrate: iron}
				v, err := pred.PredictRecord(p.Record())
				require.NoError(t, err)
				assert.False(t, math.IsNaN(v), "NaN for %+v", p)
			}
		}
	}
}

func TestPredictRecordSchemaMismatch(t *testing.T) {
	pred := NewPredictor(loadTestEnsemble(t))

	cases := []Record{
		{Names: []string{"FlujoAmina", "FlujoAire", "Hierro Concentrado"}, Values: []float64{300, 180, 63}},
		{Names: []string{"FlujoAireColumna1", "FlujoAmina", "Hierro Concentrado"}, Values: []float64{180, 300, 63}},
		{Names: []string{"FlujoAmina", "FlujoAireColumna1"}, Values: []float64{300, 180}},
	}

	for _, rec := range cases {
		_, err := pred.PredictRecord(rec)
		require.Error(t, err)

		var schemaErr *apperrors.SchemaError
		assert.True(t, apperrors.As(err, &schemaErr), "record %v", rec.Names)
	}
}

func TestPredictBatch(t *testing.T) {
	pred := NewPredictor(loadTestEnsemble(t))

	X := mat.NewDense(2, 3, []float64{
		300, 180, 63,
		700, 350, 68,
	})
	out, err := pred.Predict(X)
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 1, cols)
	assert.InDelta(t, 2.35, out.At(0, 0), 1e-12)
	assert.InDelta(t, 2.41, out.At(1, 0), 1e-12)
}

func TestPredictDimensionMismatch(t *testing.T) {
	pred := NewPredictor(loadTestEnsemble(t))

	_, err := pred.Predict(mat.NewDense(1, 2, []float64{300, 180}))
	require.Error(t, err)

	var dimErr *apperrors.DimensionError
	require.True(t, apperrors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestPredictRecordRecoversCorruptTree(t *testing.T) {
	// Feature index beyond the record length makes traversal panic; the
	// invoker must get an error back, not a crash.
	ensemble := &Ensemble{
		Objective:    "regression",
		FeatureNames: FeatureNames(),
		Trees: []Tree{{
			Root: &Node{
				Feature:   7,
				Threshold: 1,
				Left:      &Node{Feature: -1, LeafValue: 1},
				Right:     &Node{Feature: -1, LeafValue: 2},
			},
		}},
	}
	pred := NewPredictor(ensemble)

	_, err := pred.PredictRecord(DefaultParams().Record())
	require.Error(t, err)

	var predErr *apperrors.PredictionError
	require.True(t, apperrors.As(err, &predErr))
	assert.Contains(t, predErr.Cause(), "panic")
}

func TestPredictRecordNonFinite(t *testing.T) {
	ensemble := &Ensemble{
		Objective:    "regression",
		FeatureNames: FeatureNames(),
		InitScore:    math.Inf(1),
		Trees: []Tree{{
			Root: &Node{Feature: -1, LeafValue: 0},
		}},
	}
	pred := NewPredictor(ensemble)

	_, err := pred.PredictRecord(DefaultParams().Record())
	require.Error(t, err)

	var predErr *apperrors.PredictionError
	assert.True(t, apperrors.As(err, &predErr))
}
