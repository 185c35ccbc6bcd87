package sink

import (
	"bytes"
	"html/template"

	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render/legend"
)

// Default page text.
const (
	DefaultPageTitle   = "Video Game Sales"
	DefaultDescription = "Top 100 Most Sold Video Games Grouped by Platform"
)

const pageCSS = `
      body { font-family: sans-serif; margin: 0; }
      .container { display: flex; flex-direction: column; align-items: center; }
      #title { margin-bottom: 0; }
      #description { font-weight: normal; font-size: 1em; }
      .tooltip {
        position: absolute; pointer-events: none; padding: 8px;
        background: rgba(255, 255, 224, 0.95); border: 1px solid #888; border-radius: 4px;
        font-size: 12px; line-height: 1.4;
      }`

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>{{.CSS}}
    </style>
  </head>
  <body>
    <div class="container">
      <h1 id="title">{{.Title}}</h1>
      <h2 id="description">{{.Description}}</h2>
      {{.Treemap}}
      <div class="tooltip" id="tooltip" style="opacity: 0"></div>
      {{.Legend}}
    </div>
    <script>{{.Script}}
    </script>
  </body>
</html>
`))

type PageOption func(*pageRenderer)

type pageRenderer struct {
	title       string
	description string
	svgOpts     []SVGOption
}

func WithPageTitle(t string) PageOption   { return func(r *pageRenderer) { r.title = t } }
func WithDescription(d string) PageOption { return func(r *pageRenderer) { r.description = d } }
func WithPageSVGOptions(o ...SVGOption) PageOption {
	return func(r *pageRenderer) { r.svgOpts = o }
}

// RenderPage produces a standalone HTML document with the title, the
// treemap, the hover tooltip and the legend.
func RenderPage(root *hierarchy.Node, entries []legend.Entry, opts ...PageOption) ([]byte, error) {
	r := pageRenderer{title: DefaultPageTitle, description: DefaultDescription}
	for _, opt := range opts {
		opt(&r)
	}

	data := struct {
		Title       string
		Description string
		CSS         template.CSS
		Treemap     template.HTML
		Legend      template.HTML
		Script      template.JS
	}{
		Title:       r.title,
		Description: r.description,
		CSS:         template.CSS(pageCSS),
		Treemap:     template.HTML(RenderSVG(root, r.svgOpts...)),
		Legend:      template.HTML(RenderLegend(entries)),
		Script:      template.JS(tooltipJS),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
