package content

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Returns describes where the reader is sent when a chapter cannot be shown.
type Returns struct {
	// Start is the first chapter, also the target of "back to start" offered
	// on configuration errors.
	Start      ChapterID
	StartLabel string

	// Recovery is the safe chapter offered when chapter image is missing.
	Recovery      ChapterID
	RecoveryLabel string
}

// Book is the static, validated set of chapters.
type Book struct {
	returns  Returns
	order    []ChapterID
	chapters map[ChapterID]*Chapter
}

// NewBook validates chapters and builds a catalog out of them. Every
// transition target and both return targets must be present.
func NewBook(returns Returns, chapters ...Chapter) (*Book, error) {
	b := &Book{
		returns:  returns,
		order:    make([]ChapterID, 0, len(chapters)),
		chapters: make(map[ChapterID]*Chapter, len(chapters)),
	}
	if len(chapters) == 0 {
		return nil, errors.New("book has no chapters")
	}

	var err error
	for i := range chapters {
		ch := chapters[i]
		if _, exists := b.chapters[ch.ID]; exists {
			err = multierr.Append(err, fmt.Errorf("duplicate chapter %s", ch.ID))
			continue
		}
		// private copy, callers may not change catalog later
		ch.Transitions = append([]Transition(nil), ch.Transitions...)
		b.chapters[ch.ID] = &ch
		b.order = append(b.order, ch.ID)
	}
	for _, id := range b.order {
		for _, t := range b.chapters[id].Transitions {
			if _, ok := b.chapters[t.Target]; !ok {
				err = multierr.Append(err, fmt.Errorf("chapter %s: transition %q leads to unknown chapter %s", id, t.Label, t.Target))
			}
		}
	}
	if _, ok := b.chapters[returns.Start]; !ok {
		err = multierr.Append(err, fmt.Errorf("start chapter %s is not in the book", returns.Start))
	}
	if _, ok := b.chapters[returns.Recovery]; !ok {
		err = multierr.Append(err, fmt.Errorf("recovery chapter %s is not in the book", returns.Recovery))
	}
	if err != nil {
		return nil, fmt.Errorf("invalid book: %w", err)
	}
	return b, nil
}

// Lookup returns chapter by its identifier.
func (b *Book) Lookup(id ChapterID) (*Chapter, bool) {
	ch, ok := b.chapters[id]
	return ch, ok
}

func (b *Book) Start() ChapterID {
	return b.returns.Start
}

func (b *Book) Returns() Returns {
	return b.returns
}

// Chapters returns all chapters in declaration order.
func (b *Book) Chapters() []*Chapter {
	res := make([]*Chapter, 0, len(b.order))
	for _, id := range b.order {
		res = append(res, b.chapters[id])
	}
	return res
}

// ImageKeys returns distinct image keys used by chapters in declaration order.
func (b *Book) ImageKeys() []ImageKey {
	seen := make(map[ImageKey]bool)
	var keys []ImageKey
	for _, id := range b.order {
		k := b.chapters[id].Image
		if k == ImageNone || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// Walk visits chapters depth first starting from the start chapter. Each
// chapter is expanded once, later arrivals are reported with seen set so
// cycles can be printed without looping. Returning false from fn stops the
// walk.
func (b *Book) Walk(fn func(depth int, via *Transition, ch *Chapter, seen bool) bool) {
	visited := make(map[ChapterID]bool, len(b.chapters))

	var walk func(depth int, via *Transition, id ChapterID) bool
	walk = func(depth int, via *Transition, id ChapterID) bool {
		ch := b.chapters[id]
		if visited[id] {
			return fn(depth, via, ch, true)
		}
		visited[id] = true
		if !fn(depth, via, ch, false) {
			return false
		}
		for i := range ch.Transitions {
			if !walk(depth+1, &ch.Transitions[i], ch.Transitions[i].Target) {
				return false
			}
		}
		return true
	}
	walk(0, nil, b.returns.Start)
}
