package document

import (
	"bytes"
	"errors"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"fnflow/config"
	"fnflow/flow"
	"fnflow/flow/plain"
	"fnflow/footnotes"
	"fnflow/state"
)

const sample = `
title: Sample
band:
  x: 10
  x_limit: 110
  y: 200
  y_limit: 280
pages:
  - footnotes: ["first note", "second"]
  - footnotes: []
  - footnotes: ["third"]
`

func testEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Layout.IDScheme = config.IDSchemeSequential
	return &state.LocalEnv{
		Cfg: cfg,
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}
}

func newDoc(t *testing.T, text string) *Document {
	t.Helper()
	desc, err := ParseDescription([]byte(text))
	if err != nil {
		t.Fatalf("ParseDescription() error = %v", err)
	}
	return New(desc, testEnv(t))
}

func idsOf(cs []flow.Container) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID())
	}
	return out
}

func TestParseDescription(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"valid", sample, ""},
		{"no pages", "title: x\nband: {x: 0, x_limit: 10, y: 0, y_limit: 10}\n", "validate"},
		{"bad band", "band: {x: 10, x_limit: 5, y: 0, y_limit: 10}\npages: [{}]\n", "validate"},
		{"unknown field", sample + "extra: 1\n", "decode"},
		{"bad move", sample + "script:\n  - move: sideways\n", "validate"},
		{"empty step", sample + "script:\n  - extend: true\n", "no action"},
		{"two actions", sample + "script:\n  - undo: true\n    redo: true\n", "2 actions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription([]byte(tt.text))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ParseDescription() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseDescription() error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	_, err := ParseDescription([]byte(sample + "script:\n  - extend: true\n"))
	if !errors.Is(err, errNoAction) {
		t.Errorf("error = %v, want errNoAction", err)
	}
}

func TestNew(t *testing.T) {
	d := newDoc(t, sample)
	c := d.Controller()

	if d.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", d.PageCount())
	}
	if got, want := idsOf(d.FootnotesInRange(nil, nil)), []string{"fn1", "fn2", "fn3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FootnotesInRange() = %v, want %v", got, want)
	}

	lh := plain.DefaultLineHeight
	if h := c.GetHeight(0); h != 3*lh {
		t.Errorf("GetHeight(0) = %.2f, want %.2f", h, 3*lh)
	}
	if !c.IsEmptyPage(1) {
		t.Error("page 1 should be empty")
	}
	if h := c.GetHeight(2); h != 2*lh {
		t.Errorf("GetHeight(2) = %.2f, want %.2f", h, 2*lh)
	}
	if got := d.BandBounds(1); got != (flow.Bounds{Left: 10, Top: 200, Right: 110, Bottom: 280}) {
		t.Errorf("BandBounds(1) = %s", got)
	}
	if d.History().Changes()[2].String() != "footnote-added(fn3)" {
		t.Errorf("history = %v", d.History().Changes())
	}
	if !strings.Contains(d.String(), "registry(3 of 3)") {
		t.Errorf("String() = %s", d.String())
	}
}

func TestAnchorBottom(t *testing.T) {
	d := newDoc(t, strings.Replace(sample, "y_limit: 280", "y_limit: 280\n  anchor_bottom: true", 1))

	want := flow.Bounds{Left: 10, Top: 280 - 2*plain.DefaultLineHeight, Right: 110, Bottom: 280}
	if got := d.BandBounds(2); got != want {
		t.Errorf("BandBounds(2) = %s, want %s", got, want)
	}
	// hit-testing follows shifted layout
	a, ok := d.Controller().Locate(11, 279, 2)
	if !ok || a.Container.ID() != "fn3" {
		t.Errorf("Locate() = %+v, %v", a, ok)
	}
}

func TestApplySelection(t *testing.T) {
	d := newDoc(t, sample)
	c := d.Controller()

	err := d.Apply([]Step{
		{Click: &Point{X: 10.1, Y: 205, Page: 0}},
		{Move: "right", Extend: true, Repeat: 12},
		{Type: "lost"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if c.State() != footnotes.RangeSelect {
		t.Errorf("State() = %s", c.State())
	}
	if text, _ := c.GetSelectedText(false); text != "first notese" {
		t.Errorf("GetSelectedText() = %q", text)
	}
	for _, f := range d.FootnotesInRange(nil, nil) {
		if strings.Contains(f.(*plain.Container).Text(), "lost") {
			t.Error("text typed over range selection")
		}
	}

	if err := d.Apply([]Step{{SelectAll: "backward"}}); err != nil {
		t.Fatal(err)
	}
	if c.Direction() != flow.Backward || c.CurrentContainer().ID() != "fn1" {
		t.Errorf("direction %s current %s", c.Direction(), c.CurrentContainer().ID())
	}
}

func TestApplyEditing(t *testing.T) {
	d := newDoc(t, sample)
	c := d.Controller()

	err := d.Apply([]Step{
		{Click: &Point{X: 10.1, Y: 205, Page: 2}},
		{Type: strings.Repeat("long ", 20)},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// 100 runes of new text wrap into two lines before "third"
	if h := c.GetHeight(2); h != 4*plain.DefaultLineHeight {
		t.Errorf("GetHeight(2) after typing = %.2f, want %.2f", h, 4*plain.DefaultLineHeight)
	}

	if err := d.Apply([]Step{{Delete: -100}}); err != nil {
		t.Fatal(err)
	}
	if h := c.GetHeight(2); h != 2*plain.DefaultLineHeight {
		t.Errorf("GetHeight(2) after delete = %.2f, want %.2f", h, 2*plain.DefaultLineHeight)
	}
}

func TestApplyAddUndoRedo(t *testing.T) {
	d := newDoc(t, sample)
	c := d.Controller()

	if err := d.Apply([]Step{{Add: &NewFootnote{Page: 1, Text: "new"}}}); err != nil {
		t.Fatal(err)
	}
	if c.IsEmptyPage(1) || c.CurrentContainer().ID() != "fn4" {
		t.Fatalf("added footnote not placed: current %v", c.CurrentContainer())
	}

	// redo after undo drops the mapping of the footnote
	if err := d.Apply([]Step{{Undo: true}, {Redo: true}}); err != nil {
		t.Fatal(err)
	}
	if !c.IsEmptyPage(1) {
		t.Error("page 1 keeps footnote removed from the document")
	}
	if got := idsOf(d.FootnotesInRange(nil, nil)); len(got) != 3 {
		t.Errorf("FootnotesInRange() = %v", got)
	}
	if _, ok := d.Identities().Get("fn4"); !ok {
		t.Error("identity table lost fn4")
	}

	if err := d.Apply([]Step{{Undo: true}}); err != nil {
		t.Fatal(err)
	}
	if c.IsEmptyPage(1) {
		t.Error("undo did not restore footnote")
	}
}

func TestOutputName(t *testing.T) {
	d := newDoc(t, sample)

	tests := []struct {
		name  string
		cfg   config.DocumentConfig
		title string
		want  string
	}{
		{"default template", config.DocumentConfig{OutputNameTemplate: `{{ .Title | trunc 32 }}-{{ printf "%03d" .Page }}`}, "Sample", "Sample-002.png"},
		{"no template", config.DocumentConfig{}, "Sample", "Sample-2.png"},
		{"no title", config.DocumentConfig{}, "", "page-2.png"},
		{"path in name", config.DocumentConfig{OutputNameTemplate: "dir/{{ .Page }}"}, "Sample", "2.png"},
		{"transliterate", config.DocumentConfig{OutputNameTemplate: "{{ .Title }} {{ .Page }}", FileNameTransliterate: true}, "Big Title", "big-title-2.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.Title = tt.title
			got, err := d.OutputName(2, &tt.cfg)
			if err != nil {
				t.Fatalf("OutputName() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("OutputName() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := d.OutputName(2, &config.DocumentConfig{OutputNameTemplate: "{{ .Page"}); err == nil {
		t.Error("OutputName() accepted malformed template")
	}
}

func TestRenderPNG(t *testing.T) {
	d := newDoc(t, sample)
	d.Controller().SelectAll(flow.Forward)

	data, err := d.RenderPNG(0, 4)
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 54 {
		t.Errorf("image size %dx%d, want 400x54", b.Dx(), b.Dy())
	}
}
