package model

// Feature names the artifact was trained on. A prediction record must carry
// exactly these names, in this order; anything else fails the prediction.
const (
	FeatureAmineFlow       = "FlujoAmina"
	FeatureAirFlow         = "FlujoAireColumna1"
	FeatureIronConcentrate = "Hierro Concentrado"
)

// FeatureNames returns the training schema in order.
func FeatureNames() []string {
	return []string{FeatureAmineFlow, FeatureAirFlow, FeatureIronConcentrate}
}

// Short parameter names used in form fields and query strings.
const (
	ParamAmine = "amina"
	ParamAir   = "aire"
	ParamIron  = "hierro"
)

// Bounds is the closed operating range of one input parameter.
type Bounds struct {
	Min     int
	Max     int
	Default int
	Step    int
}

// Clamp forces v into the bounds.
func (b Bounds) Clamp(v int) int {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Operating ranges of the flotation process parameters. The UI controls are
// generated from these, so out-of-range input is impossible by construction.
var (
	AmineFlowBounds       = Bounds{Min: 241, Max: 740, Default: 300, Step: 1}
	AirFlowBounds         = Bounds{Min: 175, Max: 372, Default: 180, Step: 1}
	IronConcentrateBounds = Bounds{Min: 62, Max: 69, Default: 63, Step: 1}
)

// Params holds the three process parameters for one prediction. Values live
// for a single request; nothing is persisted.
type Params struct {
	AmineFlow       int // kg/min
	AirFlow         int // kg/min, flotation column 1
	IronConcentrate int // %
}

// DefaultParams returns the form's initial values.
func DefaultParams() Params {
	return Params{
		AmineFlow:       AmineFlowBounds.Default,
		AirFlow:         AirFlowBounds.Default,
		IronConcentrate: IronConcentrateBounds.Default,
	}
}

// Clamped returns a copy with every field forced into its operating range.
func (p Params) Clamped() Params {
	return Params{
		AmineFlow:       AmineFlowBounds.Clamp(p.AmineFlow),
		AirFlow:         AirFlowBounds.Clamp(p.AirFlow),
		IronConcentrate: IronConcentrateBounds.Clamp(p.IronConcentrate),
	}
}

// Record builds the single-row labeled tuple handed to the predictor. Field
// names and order match the training schema exactly.
func (p Params) Record() Record {
	return Record{
		Names: FeatureNames(),
		Values: []float64{
			float64(p.AmineFlow),
			float64(p.AirFlow),
			float64(p.IronConcentrate),
		},
	}
}

// Record is an ordered, labeled feature tuple for one prediction. It is
// ephemeral: built at request time, discarded after use.
type Record struct {
	Names  []string
	Values []float64
}
