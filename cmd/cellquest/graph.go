package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"cellquest/content"
	"cellquest/state"
	"cellquest/utils/debug"
)

// describeBook renders chapter graph as indented tree starting with the first
// chapter. Chapters reachable more than once are expanded at first visit only.
func describeBook(book *content.Book) string {
	tw := debug.NewTreeWriter("  ")
	book.Walk(func(depth int, via *content.Transition, ch *content.Chapter, seen bool) bool {
		label := ""
		if via != nil {
			label = fmt.Sprintf("[%s] ", via.Label)
		}
		switch {
		case seen:
			tw.Line(depth, "%s-> %s", label, ch.ID)
		case ch.HasImage():
			tw.Line(depth, "%s%s %q (image: %s)", label, ch.ID, ch.Title, ch.Image)
		default:
			tw.Line(depth, "%s%s %q", label, ch.ID, ch.Title)
		}
		return true
	})
	return tw.String()
}

func outputGraph(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	return writeOutput(env, cmd, "chapter graph", []byte(describeBook(env.Book)))
}
