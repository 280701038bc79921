package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
)

// HTMLFormatter produces a standalone HTML report with a fan chart per scenario.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string      { return "html" }
func (h HTMLFormatter) Extension() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"compact": FormatCompact,
	"pct":     FormatPercentage,
	"assumptions": func(sc ScenarioReport) []string {
		return GenerateAssumptions(sc.Input, sc.Config)
	},
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*Report
		Recommendation Recommendation
	}{report, AnalyzeScenarios(report)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
