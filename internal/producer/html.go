package producer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/driftdeck/driftdeck/internal/models"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Project }} / {{ .Name }}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ddd; padding: 0.3rem 0.7rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.drifted { color: #b00020; font-weight: bold; }
.ok { color: #04b575; }
</style>
</head>
<body>
<h1>{{ .Meta.Description }}</h1>
<p>Project <strong>{{ .Project }}</strong>, model <strong>{{ .Meta.Model }}</strong>, run <code>{{ .Meta.RunID | default "n/a" }}</code>, generated {{ dateInZone "2006-01-02 15:04:05 MST" .Meta.CreatedAt "UTC" }}.</p>

<h2>Classification</h2>
{{- with .Meta.Metrics }}
<table>
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Accuracy</td><td>{{ printf "%.4f" .Accuracy }}</td></tr>
<tr><td>Precision</td><td>{{ printf "%.4f" .Precision }}</td></tr>
<tr><td>Recall</td><td>{{ printf "%.4f" .Recall }}</td></tr>
<tr><td>F1</td><td>{{ printf "%.4f" .F1 }}</td></tr>
<tr><td>Support</td><td>{{ .Support }}</td></tr>
</table>
<table>
<tr><th>Actual \ Predicted</th><th>0</th><th>1</th></tr>
{{- range $actual, $row := .Confusion }}
<tr><td>{{ $actual }}</td>{{ range $row }}<td>{{ . }}</td>{{ end }}</tr>
{{- end }}
</table>
{{- end }}

<h2>Data drift</h2>
{{- with .Meta.Drift }}
<p class="{{ if .DatasetDrift }}drifted{{ else }}ok{{ end }}">{{ .String | title }} (method {{ .Method | upper }}, p &lt; {{ .Threshold }}).</p>
<table>
<tr><th>Feature</th><th>Statistic</th><th>p-value</th><th>Drifted</th></tr>
{{- range .Features }}
<tr><td>{{ .Feature }}</td><td>{{ printf "%.4f" .Statistic }}</td><td>{{ printf "%.4f" .PValue }}</td><td class="{{ if .Drifted }}drifted{{ else }}ok{{ end }}">{{ ternary "yes" "no" .Drifted }}</td></tr>
{{- end }}
</table>
{{- end }}
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Funcs(sprig.FuncMap()).Parse(reportTemplate))

type reportView struct {
	Project string
	Name    string
	Meta    *models.ReportMetadata
}

// RenderHTML renders the human-readable report page.
func RenderHTML(project, name string, meta *models.ReportMetadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, reportView{Project: project, Name: name, Meta: meta}); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
