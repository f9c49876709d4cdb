package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"gonum.org/v1/gonum/mat"

	"github.com/JosMR1003/aplicacion-flotacion/internal/chart"
	"github.com/JosMR1003/aplicacion-flotacion/internal/component"
	"github.com/JosMR1003/aplicacion-flotacion/internal/model"
	apperrors "github.com/JosMR1003/aplicacion-flotacion/pkg/errors"
	"github.com/JosMR1003/aplicacion-flotacion/pkg/log"
)

// Regressor is the prediction surface the handlers depend on. Satisfied by
// *model.Predictor; tests substitute stubs.
type Regressor interface {
	PredictRecord(rec model.Record) (float64, error)
	Predict(X mat.Matrix) (*mat.Dense, error)
}

// ComponentBuilder injects the page components into the app, so handlers
// never construct markup themselves.
type ComponentBuilder struct {
	Page  func(component.PageData) templ.Component
	Error func(title, msg string) templ.Component
}

// DefaultComponents returns the production component set.
func DefaultComponents() ComponentBuilder {
	return ComponentBuilder{
		Page:  component.Page,
		Error: component.ErrorPage,
	}
}

// App holds the request handlers and their dependencies. Reg is nil when
// the model artifact failed to load; every handler then renders the
// persistent warning state and the prediction path is never reached.
type App struct {
	Reg        Regressor
	Components ComponentBuilder
	Logger     log.Logger
}

// Routes registers all handlers on mux.
func (a *App) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("POST /predecir", a.handlePredict)
	mux.HandleFunc("GET /grafico.png", a.handleChart)
	mux.HandleFunc("GET /salud", a.handleHealth)
}

func (a *App) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		a.Logger.Error("fallo al renderizar componente", "error", err,
			log.RequestIDKey, RequestIDFromContext(r.Context()))
	}
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, a.Components.Page(component.PageData{
		Params:       model.DefaultParams(),
		ModelMissing: a.Reg == nil,
	}))
}

// handlePredict is the prediction invoker: it runs only on an explicit form
// submit, never on slider movement.
func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	if a.Reg == nil {
		a.render(w, r, a.Components.Page(component.PageData{
			Params:       model.DefaultParams(),
			ModelMissing: true,
		}))
		return
	}

	if err := r.ParseForm(); err != nil {
		a.render(w, r, a.Components.Error("Solicitud inválida", "No se pudieron leer los parámetros del formulario."))
		return
	}
	params := parseParams(r.PostForm)

	v, err := a.Reg.PredictRecord(params.Record())
	if err != nil {
		a.Logger.Warn("fallo de predicción", "error", err,
			log.RequestIDKey, RequestIDFromContext(r.Context()))
		a.render(w, r, a.Components.Page(component.PageData{
			Params:   params,
			ErrorMsg: causeText(err),
		}))
		return
	}

	a.Logger.Info("predicción calculada",
		log.OperationKey, "predict",
		"amina", params.AmineFlow, "aire", params.AirFlow, "hierro", params.IronConcentrate,
		"silica", v,
		log.RequestIDKey, RequestIDFromContext(r.Context()))

	a.render(w, r, a.Components.Page(component.PageData{
		Params:   params,
		Result:   fmt.Sprintf("%.2f%%", v),
		ChartURL: chartURL(params),
	}))
}

func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	if a.Reg == nil {
		http.NotFound(w, r)
		return
	}

	param := r.URL.Query().Get("parametro")
	if param == "" {
		param = model.ParamAmine
	}
	if !chart.IsSweepParam(param) {
		http.Error(w, "parámetro desconocido", http.StatusBadRequest)
		return
	}

	params := parseParams(r.URL.Query())
	png, err := chart.Sensitivity(a.Reg, params, param)
	if err != nil {
		a.Logger.Error("fallo al generar gráfico", "error", err,
			log.RequestIDKey, RequestIDFromContext(r.Context()))
		http.Error(w, "no se pudo generar el gráfico", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]string{"status": "ok"}
	if a.Reg == nil {
		status["modelo"] = "no cargado"
	}
	_ = json.NewEncoder(w).Encode(status)
}

// parseParams reads the three form fields. Unparsable values fall back to
// the field default, then everything is clamped to its operating range, so
// out-of-range input cannot reach the predictor.
func parseParams(values url.Values) model.Params {
	p := model.DefaultParams()
	if v, err := strconv.Atoi(values.Get(model.ParamAmine)); err == nil {
		p.AmineFlow = v
	}
	if v, err := strconv.Atoi(values.Get(model.ParamAir)); err == nil {
		p.AirFlow = v
	}
	if v, err := strconv.Atoi(values.Get(model.ParamIron)); err == nil {
		p.IronConcentrate = v
	}
	return p.Clamped()
}

func chartURL(p model.Params) string {
	q := url.Values{}
	q.Set("parametro", model.ParamAmine)
	q.Set(model.ParamAmine, strconv.Itoa(p.AmineFlow))
	q.Set(model.ParamAir, strconv.Itoa(p.AirFlow))
	q.Set(model.ParamIron, strconv.Itoa(p.IronConcentrate))
	return "/grafico.png?" + q.Encode()
}

// causeText extracts the message shown inline to the user: the underlying
// cause for typed prediction failures, the full text otherwise.
func causeText(err error) string {
	var predErr *apperrors.PredictionError
	if apperrors.As(err, &predErr) {
		return predErr.Cause()
	}
	return err.Error()
}
