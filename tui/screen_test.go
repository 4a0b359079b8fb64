package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap/zaptest"

	"cellquest/config"
	"cellquest/content"
	"cellquest/navigator"
)

type missingLoader struct{}

func (missingLoader) Fetch(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("missing")
}

func testScreen(t *testing.T) *screen {
	t.Helper()
	log := zaptest.NewLogger(t)
	cfg := &config.PresentationConfig{ImageWidth: 64, ImageHeight: 48}
	s := newScreen(context.Background(), tview.NewApplication(), cfg, missingLoader{}, log)
	// only Open actions are dispatched here, loop is never used
	s.engine = navigator.New(context.Background(), content.Default(), nil, s,
		navigator.NewLoop(func(func()) { t.Error("unexpected loop use") }), log, navigator.Options{})
	return s
}

func press(t *testing.T, p tview.Primitive, key tcell.Key) {
	t.Helper()
	p.InputHandler()(tcell.NewEventKey(key, 0, tcell.ModNone), func(tview.Primitive) {})
}

func TestScreenControls(t *testing.T) {
	s := testScreen(t)

	s.SetControls([]navigator.Control{
		{Label: "Begin", Action: navigator.GoTo(content.ChapterMembrane)},
		{Label: "Open: 01_membrane.png", Action: navigator.Open("assets/images/01_membrane.png")},
	})
	if s.controls.GetButtonCount() != 2 {
		t.Fatalf("expected 2 buttons, got %d", s.controls.GetButtonCount())
	}
	if s.controls.GetButton(0).GetLabel() != "Begin" || s.controls.GetButton(1).GetLabel() != "Open: 01_membrane.png" {
		t.Fatal("unexpected button labels")
	}

	s.SetControls(nil)
	if s.controls.GetButtonCount() != 0 {
		t.Fatalf("controls must be cleared, got %d", s.controls.GetButtonCount())
	}
}

func TestScreenText(t *testing.T) {
	s := testScreen(t)

	s.SetText("🧩 CHAPTER 1")
	if got := s.text.GetText(true); got != "🧩 CHAPTER 1" {
		t.Fatalf("unexpected text %q", got)
	}
	s.SetText("")
	if got := s.text.GetText(true); got != "" {
		t.Fatalf("text must be replaced, got %q", got)
	}
}

func TestScreenViewer(t *testing.T) {
	s := testScreen(t)

	s.SetControls([]navigator.Control{
		{Label: "Open: 06_tissues.svg", Action: navigator.Open("assets/images/06_tissues.svg")},
	})
	press(t, s.controls.GetButton(0), tcell.KeyEnter)

	if name, _ := s.pages.GetFrontPage(); name != pageViewer {
		t.Fatalf("viewer must be shown, front page %q", name)
	}
	if !strings.Contains(s.viewerStatus.GetText(true), "assets/images/06_tissues.svg") {
		t.Fatalf("unexpected viewer status %q", s.viewerStatus.GetText(true))
	}
	seq := s.viewerSeq

	if ev := s.viewerStatus.GetInputCapture()(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); ev != nil {
		t.Fatal("escape must be consumed by viewer")
	}
	if name, _ := s.pages.GetFrontPage(); name != pageMain {
		t.Fatalf("main page must be back, front page %q", name)
	}
	if s.viewerSeq == seq {
		t.Fatal("closing viewer must invalidate pending load")
	}
}

func TestScreenLoad(t *testing.T) {
	s := testScreen(t)

	img, status := s.load("assets/images/06_tissues.png")
	if img != nil {
		t.Fatal("nothing must be decoded for missing file")
	}
	if !strings.Contains(status, "missing") {
		t.Fatalf("status must explain failure, got %q", status)
	}
}
