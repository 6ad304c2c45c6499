package main

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/interact"
	"github.com/plus3/vrscene/render"
	"github.com/plus3/vrscene/scene"
	"github.com/plus3/vrscene/session"
)

// Report summarizes a headless run.
type Report struct {
	// Configuration
	Session      string
	RotationStep float32

	// Results
	Ticks    int
	Frames   int
	Visible  int
	WallTime time.Duration
	Driver   *anim.Stats
	Buttons  []*interact.Button
	Entities []scene.EntitySnapshot
	Audio    string
}

// NewReport collects the report data from a finished run.
func NewReport(sess *session.Session, rec *render.Recorder, ticks int, wall time.Duration) *Report {
	r := &Report{
		Session:      sess.ID.String(),
		RotationStep: sess.Spin.Step,
		Ticks:        ticks,
		Frames:       rec.Frames(),
		Visible:      rec.Visible(),
		WallTime:     wall,
		Driver:       sess.Driver.Stats(),
		Buttons:      sess.Layer.Buttons(),
		Entities:     rec.Last(),
		Audio:        "disabled",
	}
	if sess.Sound != nil {
		r.Audio = sess.Sound.State().String()
	}
	return r
}

// Generate writes the report as Markdown.
func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Scene Report

## Session
- **ID:** {{.Session}}
- **Rotation Step:** {{.RotationStep}} rad/tick
- **Audio:** {{.Audio}}

## Run
- **Ticks:** {{.Ticks}}
- **Frames Rendered:** {{.Frames}}
- **Visible Entities (last frame):** {{.Visible}}
- **Wall Time:** {{.WallTime}}

## Systems
| System | Runs | Avg | Max |
|--------|------|-----|-----|
{{- range .Driver.Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Buttons
{{- range .Buttons}}
- {{.Label}}: fired {{.Fired}}
{{- end}}

## Entities
| ID | Name | Kind | Position | Rotation |
|----|------|------|----------|----------|
{{- range .Entities}}
| {{.ID}} | {{.Name}} | {{.Kind}} | {{vec .Position}} | {{vec .Rotation}} |
{{- end}}
`

	fm := template.FuncMap{
		"vec": func(v [3]float32) string {
			return fmt.Sprintf("%.2f, %.2f, %.2f", v[0], v[1], v[2])
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
