// Package component renders the predictor's single page as templ
// components. All user-facing copy is Spanish, matching the plant
// operators the tool is built for.
package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/JosMR1003/aplicacion-flotacion/internal/model"
)

// PageData carries everything the page needs for one render pass.
type PageData struct {
	Params       model.Params
	ModelMissing bool   // artifact failed to load: warning state, no form
	Result       string // formatted prediction, e.g. "2.35%"
	ErrorMsg     string // inline prediction failure text
	ChartURL     string // sensitivity chart image, only with a result
}

type slider struct {
	Name    string
	Label   string
	Caption string
	Bounds  model.Bounds
	Value   int
}

func sliders(p model.Params) []slider {
	return []slider{
		{
			Name:    model.ParamAmine,
			Label:   "Flujo de Amina (kg/min)",
			Caption: "Representa el flujo de amina en el proceso.",
			Bounds:  model.AmineFlowBounds,
			Value:   p.AmineFlow,
		},
		{
			Name:    model.ParamAir,
			Label:   "Flujo de Aire Columna 1 (kg/min)",
			Caption: "Importante para el proceso de transferencia de masa (burbujeo).",
			Bounds:  model.AirFlowBounds,
			Value:   p.AirFlow,
		},
		{
			Name:    model.ParamIron,
			Label:   "Hierro Concentrado (%)",
			Caption: "Condiciona parámetros de selectividad.",
			Bounds:  model.IronConcentrateBounds,
			Value:   p.IronConcentrate,
		},
	}
}

// Page renders the full application page.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w); err != nil {
			return err
		}
		if err := writeSidebar(w, data); err != nil {
			return err
		}
		if err := writeMain(w, data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func writeHead(w io.Writer) error {
	_, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Predictor de Rendimiento de Flotación</title>
<style>
body{font-family:sans-serif;margin:0;display:flex;min-height:100vh}
aside{background:#f0f2f6;padding:1.5rem;width:20rem;flex-shrink:0}
main{padding:2rem;max-width:52rem}
label{font-weight:bold;display:block;margin-top:1rem}
output{float:right;font-variant-numeric:tabular-nums}
input[type=range]{width:100%}
small{color:#555}
button{margin-top:1.5rem;padding:.6rem 1.2rem;background:#ff4b4b;color:#fff;border:0;border-radius:.5rem;cursor:pointer;font-size:1rem}
.exito{background:#d4edda;border:1px solid #c3e6cb;padding:1rem;border-radius:.5rem;margin-top:1rem}
.error{background:#f8d7da;border:1px solid #f5c6cb;padding:1rem;border-radius:.5rem;margin-top:1rem}
.aviso{background:#fff3cd;border:1px solid #ffeeba;padding:1rem;border-radius:.5rem;margin-top:1rem}
img.grafico{max-width:100%;margin-top:1rem}
details{margin-top:2rem}
</style>
</head>
<body>
`)
	return err
}

func writeSidebar(w io.Writer, data PageData) error {
	if _, err := io.WriteString(w, "<aside>\n<h2>⚙️ Parámetros de Entrada</h2>\n<p>Ajusta los deslizadores para que coincidan con los parámetros operativos del proceso de flotación.</p>\n"); err != nil {
		return err
	}

	if data.ModelMissing {
		// Without a model there is nothing to submit: the form and its
		// button are not rendered at all.
		_, err := io.WriteString(w, "</aside>\n")
		return err
	}

	if _, err := io.WriteString(w, `<form method="post" action="/predecir">`+"\n"); err != nil {
		return err
	}
	for _, s := range sliders(data.Params) {
		_, err := fmt.Fprintf(w,
			`<label for="%[1]s">%[2]s<output id="valor-%[1]s">%[3]d</output></label>
<input type="range" id="%[1]s" name="%[1]s" min="%[4]d" max="%[5]d" step="%[6]d" value="%[3]d" oninput="document.getElementById('valor-%[1]s').textContent=this.value">
<small>%[7]s</small>
`,
			s.Name, templ.EscapeString(s.Label), s.Value,
			s.Bounds.Min, s.Bounds.Max, s.Bounds.Step,
			templ.EscapeString(s.Caption))
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "<button type=\"submit\">🚀 Predecir Rendimiento</button>\n</form>\n</aside>\n")
	return err
}

func writeMain(w io.Writer, data PageData) error {
	if _, err := io.WriteString(w, `<main>
<h1>🧪 Predictor de Porcentaje de Sílica Concentrada en Proceso de Flotación</h1>
<p>Esta aplicación utiliza un modelo de machine learning de árboles potenciados
para predecir el porcentaje de sílica concentrada en un proceso de flotación,
a partir de las tres variables más significativas: el porcentaje de hierro
concentrado, el flujo de aire en la columna de flotación 1 y el flujo de amina.</p>
`); err != nil {
		return err
	}

	if data.ModelMissing {
		if _, err := io.WriteString(w, `<div class="aviso">⚠️ El modelo no pudo ser cargado. Por favor, verifica la ruta del archivo del modelo.</div>`+"\n"); err != nil {
			return err
		}
	}

	if data.Result != "" {
		if _, err := fmt.Fprintf(w, `<div class="exito"><h3>📈 Resultado de la Predicción</h3><p><strong>Rendimiento Predicho:</strong> <code>%s</code></p><p>Este valor representa el porcentaje estimado de sílica en el concentrado.</p></div>`+"\n",
			templ.EscapeString(data.Result)); err != nil {
			return err
		}
		if data.ChartURL != "" {
			if _, err := fmt.Fprintf(w, `<img class="grafico" src="%s" alt="Curva de sensibilidad">`+"\n",
				templ.EscapeString(data.ChartURL)); err != nil {
				return err
			}
		}
	}

	if data.ErrorMsg != "" {
		if _, err := fmt.Fprintf(w, `<div class="error">Ocurrió un error durante la predicción: %s</div>`+"\n",
			templ.EscapeString(data.ErrorMsg)); err != nil {
			return err
		}
	}

	if err := writeAbout(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</main>\n")
	return err
}

func writeAbout(w io.Writer) error {
	_, err := io.WriteString(w, `<details>
<summary>ℹ️ Sobre la Aplicación</summary>
<p><strong>¿Cómo funciona?</strong></p>
<ol>
<li><strong>Datos de Entrada:</strong> proporcionas los parámetros operativos clave usando los deslizadores en la barra lateral.</li>
<li><strong>Predicción:</strong> el modelo pre-entrenado recibe estas entradas y las analiza basándose en los patrones que aprendió de datos históricos.</li>
<li><strong>Resultado:</strong> la aplicación muestra el porcentaje de sílica concentrada estimado para los valores de entrada.</li>
</ol>
<p><strong>Detalles del Modelo:</strong></p>
<ul>
<li><strong>Tipo:</strong> modelo de regresión por árboles potenciados</li>
<li><strong>Propósito:</strong> predecir el valor continuo del porcentaje de sílica concentrada</li>
<li><strong>Características:</strong> Flujo de Amina, Flujo de Aire en la Columna 1 y Porcentaje de Hierro Concentrado</li>
</ul>
</details>
`)
	return err
}

// ErrorPage renders a bare error page, used by the recovery middleware.
func ErrorPage(title, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>`,
			templ.EscapeString(title), templ.EscapeString(title), templ.EscapeString(msg))
		return err
	})
}
