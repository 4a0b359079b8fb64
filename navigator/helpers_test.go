package navigator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"cellquest/assets"
	"cellquest/config"
	"cellquest/content"
)

// fakeLoop runs everything on the test goroutine with virtual time.
type fakeLoop struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
	posted []func()
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (l *fakeLoop) Post(fn func()) {
	l.posted = append(l.posted, fn)
}

func (l *fakeLoop) AfterFunc(d time.Duration, fn func()) Timer {
	l.seq++
	t := &fakeTimer{at: l.now + d, seq: l.seq, fn: fn}
	l.timers = append(l.timers, t)
	return t
}

// Go runs task right away, continuation waits in the queue like it would
// wait for the event loop.
func (l *fakeLoop) Go(task func() func()) {
	if next := task(); next != nil {
		l.Post(next)
	}
}

func (l *fakeLoop) flush() {
	for len(l.posted) > 0 {
		fn := l.posted[0]
		l.posted = l.posted[1:]
		fn()
	}
}

func (l *fakeLoop) pending() []*fakeTimer {
	var res []*fakeTimer
	for _, t := range l.timers {
		if !t.fired && !t.stopped {
			res = append(res, t)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].at != res[j].at {
			return res[i].at < res[j].at
		}
		return res[i].seq < res[j].seq
	})
	return res
}

// advance moves clock by d firing due timers in order.
func (l *fakeLoop) advance(d time.Duration) {
	end := l.now + d
	for {
		l.flush()
		p := l.pending()
		if len(p) == 0 || p[0].at > end {
			break
		}
		t := p[0]
		l.now = t.at
		t.fired = true
		t.fn()
	}
	l.now = end
	l.flush()
}

// idle runs until nothing is scheduled.
func (l *fakeLoop) idle() {
	for {
		l.flush()
		p := l.pending()
		if len(p) == 0 {
			return
		}
		t := p[0]
		l.now = t.at
		t.fired = true
		t.fn()
	}
}

type event struct {
	at    time.Duration
	kind  string
	value string
}

// recorder is a Surface remembering current state of every region and
// history of calls.
type recorder struct {
	loop *fakeLoop

	text     string
	image    string
	visible  bool
	controls []Control
	opened   []string
	events   []event
}

func (r *recorder) record(kind, value string) {
	r.events = append(r.events, event{at: r.loop.now, kind: kind, value: value})
}

func (r *recorder) SetText(text string) {
	r.text = text
	r.record("text", text)
}

func (r *recorder) ShowImage(asset *assets.Asset) {
	r.image = asset.Path
	r.visible = true
	r.record("image", asset.Path)
}

func (r *recorder) HideImage() {
	r.visible = false
	r.record("hide", "")
}

func (r *recorder) SetControls(controls []Control) {
	r.controls = controls
	r.record("controls", "")
}

func (r *recorder) Open(path string) {
	r.opened = append(r.opened, path)
	r.record("open", path)
}

// texts returns every text shown since event i.
func (r *recorder) texts(from int) []string {
	var res []string
	for _, e := range r.events[from:] {
		if e.kind == "text" {
			res = append(res, e.value)
		}
	}
	return res
}

type snapshot struct {
	text     string
	image    string
	visible  bool
	controls []Control
}

func (r *recorder) snapshot() snapshot {
	img := ""
	if r.visible {
		img = r.image
	}
	return snapshot{text: r.text, image: img, visible: r.visible, controls: append([]Control(nil), r.controls...)}
}

// mapLoader serves candidates from memory, everything else is missing.
type mapLoader struct {
	files map[string][]byte
	calls []string
}

func (l *mapLoader) Fetch(_ context.Context, path, _ string) ([]byte, error) {
	l.calls = append(l.calls, path)
	if data, ok := l.files[path]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func pngData(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("unable to encode png: %v", err)
	}
	return buf.Bytes()
}

var testImages = map[string]string{
	"membrane": "assets/images/01_membrane",
	"types":    "assets/images/02_prokaryote_vs_eukaryote",
	"animal":   "assets/images/03_animal_eukaryote",
	"plant":    "assets/images/04_plant_eukaryote",
	"levels":   "assets/images/05_organization_levels",
	"tissues":  "assets/images/06_tissues",
}

const (
	testCharDelay   = 24 * time.Millisecond
	testSettleDelay = 220 * time.Millisecond
)

type harness struct {
	loop    *fakeLoop
	surface *recorder
	loader  *mapLoader
	engine  *Engine
}

// newHarness creates engine over book with every file from files available.
func newHarness(t *testing.T, book *content.Book, files ...string) *harness {
	t.Helper()

	data := pngData(t)
	loader := &mapLoader{files: make(map[string][]byte)}
	for _, f := range files {
		loader.files[f] = data
	}

	log := zaptest.NewLogger(t)
	resolver := assets.NewResolver(&config.AssetsConfig{
		Extensions: []string{"png", "jpg", "jpeg", "svg", "webp"},
		Images:     testImages,
	}, loader, log)

	loop := &fakeLoop{}
	surface := &recorder{loop: loop}

	tmpl, err := ParseDiagnostics("Files tried:\n{{ range .Candidates }}{{ . }}\n{{ end }}in {{ .Directory }}")
	if err != nil {
		t.Fatalf("unable to parse template: %v", err)
	}
	engine := New(context.Background(), book, resolver, surface, loop, log, Options{
		CharDelay:   testCharDelay,
		SettleDelay: testSettleDelay,
		Diagnostics: tmpl,
	})
	return &harness{loop: loop, surface: surface, loader: loader, engine: engine}
}

func allImages() []string {
	return []string{
		"assets/images/01_membrane.png",
		"assets/images/02_prokaryote_vs_eukaryote.png",
		"assets/images/03_animal_eukaryote.png",
		"assets/images/04_plant_eukaryote.png",
		"assets/images/05_organization_levels.png",
		"assets/images/06_tissues.png",
	}
}

// failingResolver returns the same error for any key.
type failingResolver struct {
	err error
}

func (r failingResolver) Resolve(context.Context, content.ImageKey) (*assets.Asset, error) {
	return nil, r.err
}

var errBroken = errors.New("broken")
