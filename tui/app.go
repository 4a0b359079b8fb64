// Package tui shows the slideshow in a terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/rivo/tview"
	"go.uber.org/zap"

	"cellquest/assets"
	"cellquest/content"
	"cellquest/navigator"
	"cellquest/state"
)

// Run shows the book starting with chapter start until reader quits (Ctrl-C)
// or ctx is done.
func Run(ctx context.Context, env *state.LocalEnv, resolver *assets.Resolver, start content.ChapterID) error {
	opts, err := navigator.OptionsFromConfig(&env.Cfg.Presentation)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tview.NewApplication()
	s := newScreen(ctx, app, &env.Cfg.Presentation, resolver.Loader(), env.Log)
	loop := navigator.NewLoop(func(fn func()) { app.QueueUpdateDraw(fn) })
	engine := navigator.New(ctx, env.Book, resolver, s, loop, env.Log, opts)
	s.engine = engine

	loop.Post(func() { engine.Enter(start) })

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	env.Log.Debug("Starting slideshow", zap.Stringer("chapter", start))
	if err := app.SetRoot(s.pages, true).EnableMouse(true).Run(); err != nil {
		return fmt.Errorf("terminal failure: %w", err)
	}
	// event loop is gone, nothing runs concurrently with us anymore
	engine.Stop()
	env.Log.Debug("Slideshow ended", zap.Stringer("chapter", engine.Current()), zap.Uint64("entries", engine.Generation()))
	return nil
}
