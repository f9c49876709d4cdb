package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadErrorWrapsCause(t *testing.T) {
	err := NewLoadError("modeloproyecto.model.json", fs.ErrNotExist)

	assert.Contains(t, err.Error(), "modeloproyecto.model.json")
	assert.True(t, Is(err, fs.ErrNotExist))

	var loadErr *LoadError
	require.True(t, As(err, &loadErr))
	assert.Equal(t, "modeloproyecto.model.json", loadErr.Path)
}

func TestSchemaErrorMessage(t *testing.T) {
	err := NewSchemaError("Predictor.PredictRecord",
		[]string{"FlujoAmina", "FlujoAireColumna1", "Hierro Concentrado"},
		[]string{"FlujoAmina", "FlujoAire", "Hierro Concentrado"})

	var schemaErr *SchemaError
	require.True(t, As(err, &schemaErr))
	assert.Contains(t, err.Error(), "feature schema mismatch")
	assert.Len(t, schemaErr.Expected, 3)
}

func TestDimensionErrorAxisNames(t *testing.T) {
	colErr := NewDimensionError("Predictor.Predict", 3, 2, 1)
	assert.Contains(t, colErr.Error(), "features")

	rowErr := NewDimensionError("Predictor.Predict", 1, 0, 0)
	assert.Contains(t, rowErr.Error(), "rows")
}

func TestPredictionErrorCause(t *testing.T) {
	cause := New("árbol corrupto")
	err := NewPredictionError("Predictor.PredictRecord", cause)

	var predErr *PredictionError
	require.True(t, As(err, &predErr))
	assert.Equal(t, "árbol corrupto", predErr.Cause())
	assert.True(t, Is(err, cause))
}

func TestRecoverConvertsPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "test.fn")
		panic("index out of range")
	}

	err := fn()
	require.Error(t, err)

	var panicErr *PanicError
	require.True(t, As(err, &panicErr))
	assert.Equal(t, "test.fn", panicErr.Operation)
	assert.Contains(t, panicErr.String(), "Stack trace")
}

func TestRecoverNoPanicLeavesErrNil(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "test.fn")
		return nil
	}
	assert.NoError(t, fn())
}
