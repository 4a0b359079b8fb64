// Package navigator drives the slideshow: it enters chapters, waits for their
// images, types chapter text and offers choices, or explains what went wrong
// when image could not be loaded.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"text/template"
	"time"

	"go.uber.org/zap"

	"cellquest/assets"
	"cellquest/config"
	"cellquest/content"
)

// ImageResolver finds chapter image by its key.
type ImageResolver interface {
	Resolve(ctx context.Context, key content.ImageKey) (*assets.Asset, error)
}

// Phase of the current chapter entry.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseRevealing
	PhaseWaiting
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseRevealing:
		return "revealing"
	case PhaseWaiting:
		return "waiting"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Options control pacing and error presentation.
type Options struct {
	CharDelay   time.Duration
	SettleDelay time.Duration
	Diagnostics *template.Template
}

// OptionsFromConfig prepares engine options out of presentation
// configuration.
func OptionsFromConfig(cfg *config.PresentationConfig) (Options, error) {
	tmpl, err := ParseDiagnostics(cfg.DiagnosticsTemplate)
	if err != nil {
		return Options{}, err
	}
	return Options{
		CharDelay:   cfg.CharDelay,
		SettleDelay: cfg.SettleDelay,
		Diagnostics: tmpl,
	}, nil
}

// Engine is a single-focus state machine, one chapter is active at any time.
// Every entry advances generation, callbacks scheduled by previous entries
// see stale generation and do nothing. All methods must be called on the
// loop goroutine.
type Engine struct {
	ctx      context.Context
	book     *content.Book
	resolver ImageResolver
	surface  Surface
	loop     Loop
	log      *zap.Logger
	opts     Options

	current    content.ChapterID
	phase      Phase
	generation uint64
	controls   []Control
	timer      Timer
	cancel     context.CancelFunc
}

// New creates engine. Context bounds lifetime of image resolutions.
func New(ctx context.Context, book *content.Book, resolver ImageResolver, surface Surface, loop Loop, log *zap.Logger, opts Options) *Engine {
	if opts.Diagnostics == nil {
		opts.Diagnostics = template.Must(ParseDiagnostics(`⚠️ Could not load the image for this chapter.{{ range .Candidates }}
{{ . }}{{ end }}`))
	}
	return &Engine{
		ctx:      ctx,
		book:     book,
		resolver: resolver,
		surface:  surface,
		loop:     loop,
		log:      log.Named("navigator"),
		opts:     opts,
		current:  book.Start(),
	}
}

// Current returns active chapter.
func (e *Engine) Current() content.ChapterID {
	return e.current
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Generation returns number of chapter entries so far.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// Controls returns controls currently offered.
func (e *Engine) Controls() []Control {
	return append([]Control(nil), e.controls...)
}

// Start enters the first chapter of the book.
func (e *Engine) Start() {
	e.Enter(e.book.Start())
}

// Enter makes chapter active, discarding whatever previous chapter was doing.
func (e *Engine) Enter(id content.ChapterID) {
	e.abandon()
	gen := e.generation

	e.current = id
	e.setControls(nil)
	e.surface.SetText("")
	e.surface.HideImage()

	ch, ok := e.book.Lookup(id)
	if !ok {
		e.log.Error("Chapter is not in the book", zap.Stringer("chapter", id))
		e.fail(fmt.Sprintf("⚠️ Unknown chapter: %s", id), nil)
		return
	}
	e.log.Debug("Entering chapter", zap.Stringer("chapter", id), zap.Uint64("generation", gen))

	if !ch.HasImage() {
		e.reveal(gen, ch)
		return
	}

	e.phase = PhaseResolving
	ctx, cancel := context.WithCancel(e.ctx)
	e.cancel = cancel
	e.loop.Go(func() func() {
		asset, err := e.resolver.Resolve(ctx, ch.Image)
		return func() {
			e.resolved(gen, ch, asset, err)
		}
	})
}

// Activate dispatches action of i-th offered control.
func (e *Engine) Activate(i int) error {
	if i < 0 || i >= len(e.controls) {
		return fmt.Errorf("no control %d, %d offered", i, len(e.controls))
	}
	e.Dispatch(e.controls[i].Action)
	return nil
}

// Dispatch performs action.
func (e *Engine) Dispatch(a Action) {
	switch a.Kind {
	case ActionGoTo:
		e.Enter(a.Target)
	case ActionOpen:
		e.log.Debug("Opening candidate", zap.String("path", a.Path))
		e.surface.Open(a.Path)
	default:
		e.log.Warn("Ignoring unknown action", zap.Stringer("action", a))
	}
}

// Stop abandons active chapter, nothing scheduled before runs afterwards.
func (e *Engine) Stop() {
	e.abandon()
	e.phase = PhaseIdle
}

// abandon invalidates everything scheduled by the current entry.
func (e *Engine) abandon() {
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) resolved(gen uint64, ch *content.Chapter, asset *assets.Asset, err error) {
	if gen != e.generation {
		e.log.Debug("Dropping stale image resolution", zap.Stringer("chapter", ch.ID), zap.Uint64("generation", gen))
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}

	var nf *assets.NotFoundError
	switch {
	case err == nil:
		e.surface.ShowImage(asset)
		e.reveal(gen, ch)
	case errors.As(err, &nf):
		e.missing(ch, nf)
	case errors.Is(err, assets.ErrUnknownImageKey):
		e.log.Error("Chapter refers to unknown image", zap.Stringer("chapter", ch.ID), zap.String("key", string(ch.Image)))
		e.fail(fmt.Sprintf("⚠️ Unknown image key: %s", ch.Image), nil)
	default:
		e.log.Error("Unable to resolve chapter image", zap.Stringer("chapter", ch.ID), zap.Error(err))
		e.fail(fmt.Sprintf("⚠️ %v", err), nil)
	}
}

// reveal types chapter body and offers its transitions once done.
func (e *Engine) reveal(gen uint64, ch *content.Chapter) {
	e.phase = PhaseRevealing
	tw := NewTypewriter(ch.Body)
	e.log.Debug("Revealing chapter text", zap.Stringer("chapter", ch.ID), zap.Int("chars", tw.Len()),
		zap.Duration("duration", time.Duration(max(tw.Len()-1, 0))*e.opts.CharDelay+e.opts.SettleDelay))

	var step func()
	step = func() {
		if gen != e.generation {
			return
		}
		if text, more := tw.Next(); more {
			e.surface.SetText(text)
			e.timer = e.loop.AfterFunc(e.opts.CharDelay, step)
			return
		}
		e.timer = e.loop.AfterFunc(e.opts.SettleDelay, func() {
			if gen != e.generation {
				return
			}
			e.timer = nil
			e.phase = PhaseWaiting
			e.setControls(transitionControls(ch))
		})
	}
	step()
}

func transitionControls(ch *content.Chapter) []Control {
	controls := make([]Control, 0, len(ch.Transitions))
	for _, t := range ch.Transitions {
		controls = append(controls, Control{Label: t.Label, Action: GoTo(t.Target)})
	}
	return controls
}

// missing presents diagnostics instead of chapter, which is never shown.
func (e *Engine) missing(ch *content.Chapter, nf *assets.NotFoundError) {
	text, err := renderDiagnostics(e.opts.Diagnostics, nf)
	if err != nil {
		e.log.Warn("Unable to render diagnostics template", zap.Error(err))
		text = plainDiagnostics(nf)
	}

	controls := make([]Control, 0, len(nf.Attempts)+1)
	for _, candidate := range nf.Attempts {
		controls = append(controls, Control{Label: "Open: " + path.Base(candidate), Action: Open(candidate)})
	}

	ret := e.book.Returns()
	back := Control{Label: ret.RecoveryLabel, Action: GoTo(ret.Recovery)}
	if ch.ID == ret.Recovery {
		// recovery chapter itself is broken, going there again is pointless
		back = Control{Label: ret.StartLabel, Action: GoTo(ret.Start)}
	}
	e.fail(text, append(controls, back))
}

// fail shows error layout. Without explicit controls only "back to start" is
// offered.
func (e *Engine) fail(text string, controls []Control) {
	if controls == nil {
		ret := e.book.Returns()
		controls = []Control{{Label: ret.StartLabel, Action: GoTo(ret.Start)}}
	}
	e.phase = PhaseFailed
	e.surface.HideImage()
	e.surface.SetText(text)
	e.setControls(controls)
}

func (e *Engine) setControls(controls []Control) {
	e.controls = controls
	e.surface.SetControls(append([]Control(nil), controls...))
}
