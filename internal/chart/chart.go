// Package chart renders the sensitivity curve shown under a prediction:
// one process parameter swept across its operating range with the other two
// held at the submitted values.
package chart

import (
	"bytes"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/JosMR1003/aplicacion-flotacion/internal/model"
	"github.com/JosMR1003/aplicacion-flotacion/pkg/errors"
)

// Predictor is the batch prediction surface the chart needs. Satisfied by
// *model.Predictor.
type Predictor interface {
	Predict(X mat.Matrix) (*mat.Dense, error)
}

type sweepSpec struct {
	label  string
	bounds model.Bounds
	apply  func(p model.Params, v int) model.Params
	value  func(p model.Params) int
}

func specFor(param string) (sweepSpec, error) {
	switch param {
	case model.ParamAmine:
		return sweepSpec{
			label:  "Flujo de Amina (kg/min)",
			bounds: model.AmineFlowBounds,
			apply:  func(p model.Params, v int) model.Params { p.AmineFlow = v; return p },
			value:  func(p model.Params) int { return p.AmineFlow },
		}, nil
	case model.ParamAir:
		return sweepSpec{
			label:  "Flujo de Aire Columna 1 (kg/min)",
			bounds: model.AirFlowBounds,
			apply:  func(p model.Params, v int) model.Params { p.AirFlow = v; return p },
			value:  func(p model.Params) int { return p.AirFlow },
		}, nil
	case model.ParamIron:
		return sweepSpec{
			label:  "Hierro Concentrado (%)",
			bounds: model.IronConcentrateBounds,
			apply:  func(p model.Params, v int) model.Params { p.IronConcentrate = v; return p },
			value:  func(p model.Params) int { return p.IronConcentrate },
		}, nil
	default:
		return sweepSpec{}, errors.Newf("unknown sweep parameter %q", param)
	}
}

// IsSweepParam reports whether param names one of the three inputs.
func IsSweepParam(param string) bool {
	_, err := specFor(param)
	return err == nil
}

// Sensitivity sweeps the named parameter across its full range, predicts
// every point in one batch and renders the curve as a PNG. The submitted
// operating point is drawn on the curve.
func Sensitivity(pred Predictor, p model.Params, param string) ([]byte, error) {
	spec, err := specFor(param)
	if err != nil {
		return nil, err
	}

	n := (spec.bounds.Max-spec.bounds.Min)/spec.bounds.Step + 1
	X := mat.NewDense(n, len(model.FeatureNames()), nil)
	for i := 0; i < n; i++ {
		rec := spec.apply(p, spec.bounds.Min+i*spec.bounds.Step).Record()
		X.SetRow(i, rec.Values)
	}

	out, err := pred.Predict(X)
	if err != nil {
		return nil, errors.Wrap(err, "sensitivity sweep")
	}

	curve := make(plotter.XYs, n)
	var current plotter.XYs
	for i := 0; i < n; i++ {
		x := float64(spec.bounds.Min + i*spec.bounds.Step)
		y := out.At(i, 0)
		curve[i] = plotter.XY{X: x, Y: y}
		if spec.bounds.Min+i*spec.bounds.Step == spec.value(p) {
			current = plotter.XYs{{X: x, Y: y}}
		}
	}

	return render(curve, current, spec.label)
}

func render(curve, current plotter.XYs, xLabel string) ([]byte, error) {
	pl := plot.New()
	pl.Title.Text = "Sensibilidad de la Sílica Concentrada"
	pl.X.Label.Text = xLabel
	pl.Y.Label.Text = "Sílica Concentrada (%)"
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(curve)
	if err != nil {
		return nil, errors.Wrap(err, "sensitivity line")
	}
	pl.Add(line)

	if len(current) > 0 {
		point, err := plotter.NewScatter(current)
		if err != nil {
			return nil, errors.Wrap(err, "operating point")
		}
		pl.Add(point)
	}

	wt, err := pl.WriterTo(14*vg.Centimeter, 9*vg.Centimeter, "png")
	if err != nil {
		return nil, errors.Wrap(err, "render png")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "write png")
	}
	return buf.Bytes(), nil
}
