package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pasjesplank/plank/internal/model"
)

// Placeholder texts for the two non-grid states.
const (
	EmptyText     = "Nog geen kaarten"
	NoMatchesText = "Geen kaarten in deze categorie"
)

var funcs = template.FuncMap{
	"initial": func(c model.Card) string { return c.Initial() },
	"glyph":   func(c model.Category) string { return c.Glyph() },
	"label":   func(c model.Category) string { return c.Label() },
}

const gridTemplate = `
{{- define "card" -}}
<div class="loyalty-card" data-id="{{.ID}}">
  <div class="card-color-bar" style="background: {{.Color}}"></div>
  <div class="card-body">
    <div class="card-store-icon" style="background: {{.Color}}">{{initial .}}</div>
    <div class="card-info">
      <div class="card-store-name">{{.StoreName}}</div>
      <div class="card-category-badge"><span class="cat-emoji">{{glyph .Category}}</span> {{label .Category}}</div>
      <div class="card-barcode-preview">
        <svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="4" y1="6" x2="4" y2="18"/><line x1="7" y1="6" x2="7" y2="18"/><line x1="10" y1="6" x2="10" y2="18"/>
          <line x1="13" y1="6" x2="13" y2="18"/><line x1="16" y1="6" x2="16" y2="18"/><line x1="19" y1="6" x2="19" y2="18"/>
        </svg>
        {{.BarcodeNumber}}
      </div>
    </div>
    <svg class="card-arrow" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><polyline points="9,18 15,12 9,6"/></svg>
  </div>
</div>
{{- end -}}

{{- define "grid" -}}
{{- if eq .State.String "empty" -}}
<div class="empty-state"><p>{{.EmptyText}}</p></div>
{{- else if eq .State.String "no_matches" -}}
<p class="no-matches">{{.NoMatchesText}}</p>
{{- else -}}
{{- range .Groups -}}
{{- if .ShowHeader}}
<div class="category-group-header"><span class="group-emoji">{{glyph .Category}}</span> {{label .Category}}</div>
{{- end -}}
{{- range .Cards}}
{{template "card" .}}
{{- end -}}
{{- end -}}
{{- end -}}
{{- end -}}

{{- define "filters" -}}
<button class="filter-chip{{if eq .Active "all"}} active{{end}}" data-filter="all">Alle</button>
{{- range .Categories}}
<button class="filter-chip{{if eq $.Active (print .Key)}} active{{end}}" data-filter="{{.Key}}"><span class="cat-emoji">{{.Glyph}}</span> {{.Label}}</button>
{{- end -}}
{{- end -}}
`

var templates = template.Must(template.New("render").Funcs(funcs).Parse(gridTemplate))

type gridData struct {
	Plan
	EmptyText     string
	NoMatchesText string
}

// HTML renders the plan as grid markup. Store names and barcode numbers are
// escaped, so user text never becomes markup.
func HTML(plan Plan) (template.HTML, error) {
	var buf bytes.Buffer
	data := gridData{Plan: plan, EmptyText: EmptyText, NoMatchesText: NoMatchesText}
	if err := templates.ExecuteTemplate(&buf, "grid", data); err != nil {
		return "", fmt.Errorf("failed to render grid: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// FilterBar renders the filter chips with the active one marked. Each chip
// carries data-filter, which the drag gesture also uses as its drop target.
func FilterBar(active string) (template.HTML, error) {
	if !model.IsValidFilter(active) {
		active = model.FilterAll
	}
	var buf bytes.Buffer
	data := struct {
		Active     string
		Categories []model.CategoryInfo
	}{active, model.Categories}
	if err := templates.ExecuteTemplate(&buf, "filters", data); err != nil {
		return "", fmt.Errorf("failed to render filter bar: %w", err)
	}
	return template.HTML(buf.String()), nil
}
