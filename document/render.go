package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"fnflow/config"
	"fnflow/flow/raster"
)

// Values holds variables available for output name template expansion.
type Values struct {
	Context string
	Title   string
	Page    int
}

// Render paints footnotes band of page abs together with selection.
func (d *Document) Render(abs int, scale float64) *raster.Surface {
	s := raster.New(d.BandBounds(abs), scale)
	d.ctrl.DrawSelectionOnPage(abs, s)
	d.ctrl.Draw(abs, s)
	return s
}

// RenderPNG returns rendered band of page abs as PNG image.
func (d *Document) RenderPNG(abs int, scale float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(abs, scale).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("unable to encode page %d: %w", abs, err)
	}
	return buf.Bytes(), nil
}

func expandTemplate(name, field string, values Values) (string, error) {
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OutputName returns file name (with ".png" extension) for rendered band of
// page abs. Name is built from document configuration template, default is
// "<title>-<page>".
func (d *Document) OutputName(abs int, cfg *config.DocumentConfig) (string, error) {
	name := ""
	if len(cfg.OutputNameTemplate) > 0 {
		var err error
		name, err = expandTemplate(config.OutputNameTemplateFieldName, cfg.OutputNameTemplate,
			Values{Context: config.OutputNameTemplateFieldName, Title: d.Title, Page: abs})
		if err != nil {
			return "", fmt.Errorf("unable to prepare output file name: %w", err)
		}
		name = strings.TrimSpace(filepath.Base(filepath.FromSlash(name)))
	}
	if len(name) == 0 || name == "." {
		name = d.Title + "-" + strconv.Itoa(abs)
		if len(d.Title) == 0 {
			name = "page-" + strconv.Itoa(abs)
		}
	}
	if cfg.FileNameTransliterate {
		name = slug.Make(name)
	}
	return config.CleanFileName(name) + ".png", nil
}
