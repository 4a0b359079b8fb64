package navigator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/multierr"

	"cellquest/assets"
)

// DiagnosticsValues are available to diagnostics template.
type DiagnosticsValues struct {
	Key        string
	Directory  string
	Candidates []string
	Present    []string
	Errors     []string
}

// ParseDiagnostics prepares template used to explain missing chapter image.
func ParseDiagnostics(text string) (*template.Template, error) {
	tmpl, err := template.New("diagnostics").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse diagnostics template: %w", err)
	}
	return tmpl, nil
}

func diagnosticsValues(nf *assets.NotFoundError) DiagnosticsValues {
	v := DiagnosticsValues{
		Key:        string(nf.Key),
		Directory:  nf.Dir(),
		Candidates: nf.Attempts,
		Present:    nf.Present,
	}
	for _, err := range multierr.Errors(nf.Err) {
		v.Errors = append(v.Errors, err.Error())
	}
	return v
}

func renderDiagnostics(tmpl *template.Template, nf *assets.NotFoundError) (string, error) {
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, diagnosticsValues(nf)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// plainDiagnostics is used when configured template fails.
func plainDiagnostics(nf *assets.NotFoundError) string {
	return fmt.Sprintf("⚠️ Could not load the image for this chapter.\n\nFiles tried:\n%s\n", strings.Join(nf.Attempts, "\n"))
}
