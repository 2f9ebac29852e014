package dashboard

import (
	"html/template"
	"io"
	"net/url"

	"github.com/Masterminds/sprig/v3"
	"github.com/driftdeck/driftdeck/internal/models"
	"github.com/labstack/echo/v4"
)

const layoutTemplate = `{{ define "header" }}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title | default "DriftDeck" }}</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; color: #222; }
aside { width: 18rem; min-height: 100vh; background: #f0f2f6; padding: 1.5rem; }
main { padding: 1.5rem 2rem; flex: 1; }
.warning { background: #fff8e1; border-left: 4px solid #ffb000; padding: 0.7rem 1rem; }
.error { background: #fdecea; border-left: 4px solid #b00020; padding: 0.7rem 1rem; }
.unavailable { color: #999; text-decoration: line-through; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
<aside>
<h2>{{ .AppTitle }}</h2>
<hr>
<p>{{ .Tagline }}</p>
</aside>
<main>
{{ end }}
{{ define "footer" }}</main>
</body>
</html>
{{ end }}`

const indexTemplate = `{{ template "header" . }}
{{- if not .Projects }}
<p class="warning">No projects found. Please add a project and restart the app.</p>
{{- else }}
{{- range .Projects }}
<section>
<h3>{{ .Name }}</h3>
{{- if not .Reports }}
<p class="warning">No reports available for this project.</p>
{{- else }}
<ul>
{{- range .Reports }}
{{- if .Available }}
<li><a href="{{ .Href }}">{{ .Name }}</a>{{ with .Metadata }} ({{ .Model }}, accuracy {{ printf "%.3f" .Accuracy }}){{ end }}</li>
{{- else }}
<li class="unavailable">{{ .Name }}</li>
{{- end }}
{{- end }}
</ul>
{{- end }}
</section>
{{- end }}
{{- end }}
{{ template "footer" . }}`

const reportTemplate = `{{ template "header" . }}
<p><a href="/">&larr; all projects</a></p>
{{- if .Body }}
<h3>Report: {{ .Report }}</h3>
<p>Project {{ .Project }}</p>
<pre>{{ .Body }}</pre>
{{- else }}
<p class="error">{{ .Error }}</p>
{{- end }}
{{ template "footer" . }}`

// projectView is one project section on the index page.
type projectView struct {
	Name    string
	Reports []reportView
}

// reportView is one report entry with its page link.
type reportView struct {
	models.ReportSummary
	Href string
}

func newProjectView(project string, summaries []models.ReportSummary) projectView {
	reports := make([]reportView, 0, len(summaries))
	for _, summary := range summaries {
		reports = append(reports, reportView{
			ReportSummary: summary,
			Href:          reportHref(project, summary.Name),
		})
	}
	return projectView{Name: project, Reports: reports}
}

// reportHref builds the report page path with each name escaped as a
// single path segment.
func reportHref(project, report string) string {
	return "/projects/" + url.PathEscape(project) + "/reports/" + url.PathEscape(report)
}

type pageView struct {
	Title    string
	AppTitle string
	Tagline  string
	Projects []projectView
	Project  string
	Report   string
	Body     string
	Error    string
}

// renderer implements echo.Renderer over the page templates.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() *renderer {
	base := template.Must(template.New("layout").Funcs(sprig.FuncMap()).Parse(layoutTemplate))
	return &renderer{
		pages: map[string]*template.Template{
			"index":  template.Must(template.Must(base.Clone()).New("index").Parse(indexTemplate)),
			"report": template.Must(template.Must(base.Clone()).New("report").Parse(reportTemplate)),
		},
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return echo.ErrNotFound
	}
	return tmpl.ExecuteTemplate(w, name, data)
}
