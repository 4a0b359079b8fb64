package navigator

import (
	"fmt"

	"cellquest/assets"
	"cellquest/content"
)

// ActionKind tells what activating a control does.
type ActionKind int

const (
	// ActionGoTo enters another chapter.
	ActionGoTo ActionKind = iota
	// ActionOpen opens exact asset path in a separate viewing context.
	ActionOpen
)

// Action is a plain value describing what a control does, so controls can be
// compared and inspected without invoking them.
type Action struct {
	Kind   ActionKind
	Target content.ChapterID
	Path   string
}

func GoTo(id content.ChapterID) Action {
	return Action{Kind: ActionGoTo, Target: id}
}

func Open(path string) Action {
	return Action{Kind: ActionOpen, Path: path}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionGoTo:
		return "goto " + a.Target.String()
	case ActionOpen:
		return "open " + a.Path
	default:
		return fmt.Sprintf("Action(%d)", int(a.Kind))
	}
}

// Control is one button of the controls region.
type Control struct {
	Label  string
	Action Action
}

// Surface is where the engine presents chapters. It has three regions the
// engine owns completely: text, image and controls. Every call replaces
// previous content of the region. Surface methods are only called on the
// loop goroutine.
type Surface interface {
	SetText(text string)
	ShowImage(asset *assets.Asset)
	HideImage()
	// SetControls replaces all controls, empty list hides the region.
	SetControls(controls []Control)
	// Open shows exact asset path outside of the chapter flow.
	Open(path string)
}
