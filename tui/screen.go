package tui

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"cellquest/assets"
	"cellquest/config"
	"cellquest/navigator"
	"cellquest/utils/images"
)

const (
	pageMain   = "main"
	pageViewer = "viewer"

	controlsHeight = 3
)

// screen is terminal rendition of navigator.Surface. All methods run on the
// tview event goroutine.
type screen struct {
	ctx    context.Context
	app    *tview.Application
	cfg    *config.PresentationConfig
	loader assets.Loader
	log    *zap.Logger

	// set once engine is created, button handlers dispatch to it
	engine *navigator.Engine

	pages    *tview.Pages
	layout   *tview.Flex
	picture  *tview.Image
	text     *tview.TextView
	controls *tview.Form

	viewer       *tview.Flex
	viewerImage  *tview.Image
	viewerStatus *tview.TextView
	// viewerSeq drops results of previous open requests
	viewerSeq int
}

func newScreen(ctx context.Context, app *tview.Application, cfg *config.PresentationConfig, loader assets.Loader, log *zap.Logger) *screen {
	s := &screen{
		ctx:    ctx,
		app:    app,
		cfg:    cfg,
		loader: loader,
		log:    log.Named("tui"),
	}

	s.picture = tview.NewImage()
	s.picture.SetBorder(false)

	s.text = tview.NewTextView()
	s.text.SetWordWrap(true).SetScrollable(true)
	s.text.SetBorder(true).SetBorderPadding(0, 0, 1, 1)

	s.controls = tview.NewForm()
	s.controls.SetButtonsAlign(tview.AlignCenter).SetBorderPadding(1, 0, 0, 0)

	s.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.picture, 0, 0, false).
		AddItem(s.text, 0, 2, false).
		AddItem(s.controls, 0, 0, true)

	s.viewerImage = tview.NewImage()
	s.viewerStatus = tview.NewTextView()
	s.viewerStatus.SetTextAlign(tview.AlignCenter)
	s.viewer = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.viewerImage, 0, 1, false).
		AddItem(s.viewerStatus, 2, 0, true)
	s.viewer.SetBorder(true)
	s.viewerStatus.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyEnter, ev.Rune() == 'q':
			s.closeViewer()
			return nil
		}
		return ev
	})

	s.pages = tview.NewPages().
		AddPage(pageMain, s.layout, true, true).
		AddPage(pageViewer, s.viewer, true, false)
	return s
}

func (s *screen) SetText(text string) {
	s.text.SetText(text)
	s.text.ScrollToEnd()
}

func (s *screen) ShowImage(asset *assets.Asset) {
	s.picture.SetImage(images.Fit(asset.Image, s.cfg.ImageWidth, s.cfg.ImageHeight))
	s.picture.SetTitle(asset.Path)
	s.layout.ResizeItem(s.picture, 0, 3)
}

func (s *screen) HideImage() {
	s.layout.ResizeItem(s.picture, 0, 0)
}

func (s *screen) SetControls(controls []navigator.Control) {
	s.controls.ClearButtons()
	if len(controls) == 0 {
		s.layout.ResizeItem(s.controls, 0, 0)
		s.app.SetFocus(s.text)
		return
	}
	for _, c := range controls {
		action := c.Action
		s.controls.AddButton(c.Label, func() {
			if s.engine != nil {
				s.engine.Dispatch(action)
			}
		})
	}
	s.layout.ResizeItem(s.controls, controlsHeight, 0)
	s.controls.SetFocus(0)
	s.app.SetFocus(s.controls)
}

// Open shows exactly the requested path in a separate page, no other
// extension is tried so the reader sees what is wrong with this one.
func (s *screen) Open(path string) {
	s.viewerSeq++
	seq := s.viewerSeq

	s.viewer.SetTitle(fmt.Sprintf(" %s ", path))
	s.viewerImage.SetImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	s.viewerStatus.SetText("Loading " + path + "…")
	s.pages.SwitchToPage(pageViewer)
	s.app.SetFocus(s.viewerStatus)

	go func() {
		img, status := s.load(path)
		s.app.QueueUpdateDraw(func() {
			if seq != s.viewerSeq {
				return
			}
			if img != nil {
				s.viewerImage.SetImage(images.Fit(img, s.cfg.ImageWidth, s.cfg.ImageHeight))
			}
			s.viewerStatus.SetText(status + "\nEsc to go back")
		})
	}()
}

func (s *screen) load(path string) (image.Image, string) {
	data, err := s.loader.Fetch(s.ctx, path, strconv.FormatInt(time.Now().UnixNano(), 10))
	if err != nil {
		s.log.Debug("Unable to open candidate", zap.String("path", path), zap.Error(err))
		return nil, fmt.Sprintf("⚠️ %s: %v", path, err)
	}
	img, format, err := images.Decode(data, s.cfg.ImageWidth, s.cfg.ImageHeight)
	if err != nil {
		s.log.Debug("Candidate is not an image", zap.String("path", path), zap.Error(err))
		return nil, fmt.Sprintf("⚠️ %s: %v", path, err)
	}
	b := img.Bounds()
	return img, fmt.Sprintf("%s (%s, %dx%d)", path, format, b.Dx(), b.Dy())
}

func (s *screen) closeViewer() {
	s.viewerSeq++
	s.pages.SwitchToPage(pageMain)
	if s.controls.GetButtonCount() > 0 {
		s.app.SetFocus(s.controls)
	} else {
		s.app.SetFocus(s.text)
	}
}
