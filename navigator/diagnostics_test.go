package navigator

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"cellquest/assets"
	"cellquest/config"
)

func notFound() *assets.NotFoundError {
	return &assets.NotFoundError{
		Key:      "tissues",
		Base:     "assets/images/06_tissues",
		Attempts: assets.Candidates("assets/images/06_tissues", nil),
		Present:  []string{"01_membrane.png", "06_tissue.png"},
		Err: multierr.Combine(
			errors.New("assets/images/06_tissues.png: missing"),
			errors.New("assets/images/06_tissues.jpg: missing"),
		),
	}
}

func TestRenderDiagnostics(t *testing.T) {
	tmpl, err := ParseDiagnostics(`{{ .Key }} in {{ .Directory }}: {{ join ", " .Candidates }}; present {{ .Present | join "," }}; {{ len .Errors }} errors`)
	if err != nil {
		t.Fatalf("ParseDiagnostics returned error: %v", err)
	}

	got, err := renderDiagnostics(tmpl, notFound())
	if err != nil {
		t.Fatalf("renderDiagnostics returned error: %v", err)
	}
	want := "tissues in assets/images: " +
		"assets/images/06_tissues.png, assets/images/06_tissues.jpg, assets/images/06_tissues.jpeg, assets/images/06_tissues.svg, assets/images/06_tissues.webp; " +
		"present 01_membrane.png,06_tissue.png; 2 errors"
	if got != want {
		t.Fatalf("unexpected diagnostics:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseDiagnosticsError(t *testing.T) {
	if _, err := ParseDiagnostics("{{ .Key "); err == nil {
		t.Fatal("expected error for malformed template")
	}
}

func TestRenderDiagnosticsFallback(t *testing.T) {
	tmpl, err := ParseDiagnostics("{{ .Missing.Field }}")
	if err != nil {
		t.Fatalf("ParseDiagnostics returned error: %v", err)
	}
	if _, err := renderDiagnostics(tmpl, notFound()); err == nil {
		t.Fatal("expected execution error")
	}

	text := plainDiagnostics(notFound())
	for _, c := range notFound().Attempts {
		if !strings.Contains(text, c) {
			t.Errorf("plain diagnostics do not mention %q", c)
		}
	}
}

func TestDefaultDiagnosticsTemplate(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}
	opts, err := OptionsFromConfig(&cfg.Presentation)
	if err != nil {
		t.Fatalf("OptionsFromConfig returned error: %v", err)
	}
	if opts.CharDelay != testCharDelay || opts.SettleDelay != testSettleDelay {
		t.Fatalf("unexpected default pacing: %s, %s", opts.CharDelay, opts.SettleDelay)
	}

	got, err := renderDiagnostics(opts.Diagnostics, notFound())
	if err != nil {
		t.Fatalf("renderDiagnostics returned error: %v", err)
	}
	for _, s := range append(notFound().Attempts, "06_tissue.png", "assets/images") {
		if !strings.Contains(got, s) {
			t.Errorf("default diagnostics do not mention %q:\n%s", s, got)
		}
	}
}

func TestOptionsFromConfigBadTemplate(t *testing.T) {
	_, err := OptionsFromConfig(&config.PresentationConfig{DiagnosticsTemplate: "{{ end }}"})
	if err == nil {
		t.Fatal("expected error for bad template")
	}
}
