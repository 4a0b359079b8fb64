package navigator

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Graphemes splits text into user-perceived characters, so accented letters
// and emoji are revealed whole.
func Graphemes(text string) []string {
	text = norm.NFC.String(text)
	res := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		res = append(res, g.Str())
	}
	return res
}

// Typewriter reveals text one character at a time. It only keeps position,
// pacing is up to the caller.
type Typewriter struct {
	chars []string
	pos   int
	shown strings.Builder
}

func NewTypewriter(text string) *Typewriter {
	return &Typewriter{chars: Graphemes(text)}
}

// Len returns number of characters to reveal.
func (t *Typewriter) Len() int {
	return len(t.chars)
}

// Next reveals one more character and returns visible text. Returns false
// when everything is visible already.
func (t *Typewriter) Next() (string, bool) {
	if t.pos >= len(t.chars) {
		return t.shown.String(), false
	}
	t.shown.WriteString(t.chars[t.pos])
	t.pos++
	return t.shown.String(), true
}
