// Package source loads chart series from chart documents on disk and from DynamoDB.
// Everything it returns has passed series validation.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/christophergentle/hourstats-chart/internal/series"
	"gopkg.in/yaml.v3"
)

// Document is a complete chart description: configuration, series and an optional
// recording of pointer events to replay.
type Document struct {
	Chart   chart.Config    `json:"chart" yaml:"chart"`
	Series  []series.Series `json:"series" yaml:"series"`
	Pointer []PointerEvent  `json:"pointer,omitempty" yaml:"pointer,omitempty"`
}

// PointerEvent is either a move to client position Move over a surface starting at
// Left that is Width wide, or a leave.
type PointerEvent struct {
	Move  *float64 `json:"move,omitempty" yaml:"move,omitempty"`
	Left  float64  `json:"left,omitempty" yaml:"left,omitempty"`
	Width float64  `json:"width,omitempty" yaml:"width,omitempty"`
	Leave bool     `json:"leave,omitempty" yaml:"leave,omitempty"`
}

// Apply feeds the event to v.
func (e PointerEvent) Apply(v *chart.View) {
	if e.Leave {
		v.PointerLeave()
		return
	}
	if e.Move != nil {
		v.PointerMove(*e.Move, e.Left, e.Width)
	}
}

func (e PointerEvent) validate() error {
	switch {
	case e.Leave && e.Move != nil:
		return fmt.Errorf("event has both move and leave")
	case !e.Leave && e.Move == nil:
		return fmt.Errorf("event has neither move nor leave")
	case e.Move != nil && e.Width <= 0:
		return fmt.Errorf("move event needs a positive width")
	}
	return nil
}

// Validate checks every series and pointer event.
func (d *Document) Validate() error {
	if len(d.Series) == 0 {
		return fmt.Errorf("document has no series")
	}
	if err := series.ValidateAll(d.Series); err != nil {
		return err
	}
	for i, e := range d.Pointer {
		if err := e.validate(); err != nil {
			return fmt.Errorf("pointer event %d: %w", i, err)
		}
	}
	return nil
}

// View builds a chart view for the document and replays its pointer events, so the
// view's scene is the frame after the last event.
func (d *Document) View() *chart.View {
	cfg := d.Chart
	v := chart.NewView(&cfg, d.Series)
	for _, e := range d.Pointer {
		e.Apply(v)
	}
	return v
}

// LoadFile reads a document from path. Files ending in .json are decoded as JSON,
// anything else as YAML.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart document: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseYAML decodes and validates a YAML document.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse chart document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseJSON decodes and validates a JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse chart document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
