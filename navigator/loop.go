package navigator

import (
	"time"
)

// Loop serializes engine work on a single goroutine, usually UI event loop.
type Loop interface {
	// Post queues fn to run on the loop.
	Post(fn func())
	// AfterFunc runs fn on the loop once d elapsed unless stopped.
	AfterFunc(d time.Duration, fn func()) Timer
	// Go runs task off the loop, continuation it returns (if any) is posted
	// back to the loop.
	Go(task func() func())
}

// Timer is a pending AfterFunc.
type Timer interface {
	Stop() bool
}

type postLoop struct {
	post func(fn func())
}

// NewLoop creates Loop on top of function which executes its argument on
// the loop goroutine, tview.Application.QueueUpdateDraw for example.
func NewLoop(post func(fn func())) Loop {
	return &postLoop{post: post}
}

func (l *postLoop) Post(fn func()) {
	l.post(fn)
}

func (l *postLoop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.post(fn) })
}

func (l *postLoop) Go(task func() func()) {
	go func() {
		if next := task(); next != nil {
			l.post(next)
		}
	}()
}
