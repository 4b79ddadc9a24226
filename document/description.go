package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"
)

type (
	// Band is the area reserved for footnotes on every page, mm.
	Band struct {
		X      float64 `yaml:"x" validate:"gte=0"`
		XLimit float64 `yaml:"x_limit" validate:"gtfield=X"`
		Y      float64 `yaml:"y" validate:"gte=0"`
		YLimit float64 `yaml:"y_limit" validate:"gtfield=Y"`
		// move laid out footnotes up so band ends at YLimit
		AnchorBottom bool `yaml:"anchor_bottom"`
	}

	// PageDescription lists footnotes referenced from a page in order of
	// their markers.
	PageDescription struct {
		Footnotes []string `yaml:"footnotes"`
	}

	// Point is a position on absolute page.
	Point struct {
		X    float64 `yaml:"x"`
		Y    float64 `yaml:"y"`
		Page int     `yaml:"page" validate:"gte=0"`
	}

	// NewFootnote describes footnote inserted by a script step.
	NewFootnote struct {
		Page int    `yaml:"page" validate:"gte=0"`
		Text string `yaml:"text"`
	}

	// Step is a single editing action. Exactly one action field must be set.
	Step struct {
		Move      string       `yaml:"move" validate:"omitempty,oneof=left right up down word-left word-right line-start line-end doc-start doc-end"`
		Extend    bool         `yaml:"extend"`
		Repeat    int          `yaml:"repeat" validate:"gte=0"`
		Click     *Point       `yaml:"click"`
		Press     *Point       `yaml:"press"`
		Drag      *Point       `yaml:"drag"`
		SelectAll string       `yaml:"select_all" validate:"omitempty,oneof=forward backward"`
		Type      string       `yaml:"type"`
		Paragraph bool         `yaml:"paragraph"`
		Delete    int          `yaml:"delete"`
		Add       *NewFootnote `yaml:"add"`
		Undo      bool         `yaml:"undo"`
		Redo      bool         `yaml:"redo"`
	}

	// Description is a paginated document with footnotes and optional
	// editing script.
	Description struct {
		Title  string            `yaml:"title"`
		Band   Band              `yaml:"band"`
		Pages  []PageDescription `yaml:"pages" validate:"min=1"`
		Script []Step            `yaml:"script" validate:"dive"`
	}
)

var errNoAction = errors.New("step has no action")

// actions returns number of action fields set.
func (s *Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Move != "",
		s.Click != nil,
		s.Press != nil,
		s.Drag != nil,
		s.SelectAll != "",
		s.Type != "",
		s.Paragraph,
		s.Delete != 0,
		s.Add != nil,
		s.Undo,
		s.Redo,
	} {
		if set {
			n++
		}
	}
	return n
}

// ParseDescription decodes and validates document description.
func ParseDescription(data []byte) (*Description, error) {
	desc := &Description{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(desc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode document description: %w", err)
	}
	if err := gencfg.Validate(desc); err != nil {
		return nil, fmt.Errorf("failed to validate document description: %w", err)
	}
	for i := range desc.Script {
		switch n := desc.Script[i].actions(); {
		case n == 0:
			return nil, fmt.Errorf("script step %d: %w", i, errNoAction)
		case n > 1:
			return nil, fmt.Errorf("script step %d: %d actions in a single step", i, n)
		}
	}
	return desc, nil
}

// ReadDescription loads document description from file.
func ReadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read document description '%s': %w", path, err)
	}
	return ParseDescription(data)
}
