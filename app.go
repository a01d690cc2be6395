package main

import (
	"log"

	"github.com/chazu/floorsnap/pkg/config"
	"github.com/chazu/floorsnap/pkg/engine"
	"github.com/chazu/floorsnap/pkg/extract"
	"github.com/chazu/floorsnap/pkg/scene"
	"github.com/chazu/floorsnap/pkg/snap"
)

// App runs the snapping pipeline over scene source text.
type App struct {
	engine *engine.Engine
	config *config.Config
}

// MessageData is a JSON-serializable evaluation or validation message.
type MessageData struct {
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// Frame is the geometry and results of one evaluation, for plotting.
type Frame struct {
	Clients []*snap.Geometry
	Masters []*snap.Geometry
	Results []*snap.Result
}

// Report is the full result of one evaluation.
type Report struct {
	Dragged   string            `json:"dragged,omitempty"`
	Masters   int               `json:"masters"`
	Clients   int               `json:"clients"`
	Results   []snap.ResultJSON `json:"results"`
	Primary   *snap.ResultJSON  `json:"primary,omitempty"`
	Secondary *snap.ResultJSON  `json:"secondary,omitempty"`
	Errors    []MessageData     `json:"errors"`
	Warnings  []MessageData     `json:"warnings"`

	Frame Frame `json:"-"`
}

// NewApp creates a new App. A nil config means the defaults.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &App{engine: engine.NewEngine(), config: cfg}
}

// Evaluate takes scene source and returns the snap results for the
// dragged element against everything else in the scene.
func (a *App) Evaluate(source string) Report {
	report := Report{
		Results:  []snap.ResultJSON{},
		Errors:   []MessageData{},
		Warnings: []MessageData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		report.Errors = append(report.Errors, MessageData{Message: err.Error()})
		return report
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			report.Errors = append(report.Errors, MessageData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return report
	}

	// Step 2: Validate the scene.
	v := scene.ValidateAll(s)
	for _, w := range v.Warnings {
		report.Warnings = append(report.Warnings, MessageData{Tag: w.Tag, Message: w.Message})
	}
	for _, e := range v.Errors {
		report.Errors = append(report.Errors, MessageData{Tag: e.Tag, Message: e.Message})
	}
	if !v.OK() {
		return report
	}
	if s.Dragged == "" {
		if s.Len() > 0 {
			report.Warnings = append(report.Warnings, MessageData{Message: "no dragged element, nothing to snap"})
		}
		return report
	}
	report.Dragged = s.Dragged

	// Step 3: Extract the dragged element as masters and the rest as clients.
	masters, clients, err := s.Partition(s.Dragged)
	if err != nil {
		report.Errors = append(report.Errors, MessageData{Tag: s.Dragged, Message: err.Error()})
		return report
	}
	opts := a.config.ExtractOptions()
	frame := Frame{
		Masters: extract.Extract(masters, opts),
		Clients: extract.Extract(clients, opts),
	}
	report.Masters, report.Clients = len(frame.Masters), len(frame.Clients)

	// Step 4: Match, filter and select.
	results := a.config.Matcher().Match(frame.Masters, frame.Clients, a.config.Tolerance().Intensity())
	if len(masters.Beams) > 0 && a.config.GetExcludeBeamRotation() {
		results = snap.Filter(results, snap.CollinearWithRotation)
	}
	frame.Results = snap.Rank(results)
	for _, r := range frame.Results {
		report.Results = append(report.Results, r.JSON())
	}
	first, second := snap.Select(frame.Results)
	if first != nil {
		j := first.JSON()
		report.Primary = &j
	}
	if second != nil {
		j := second.JSON()
		report.Secondary = &j
	}
	report.Frame = frame
	return report
}
