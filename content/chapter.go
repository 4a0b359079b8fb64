// Package content holds the static chapter catalog of the slideshow.
package content

import (
	"fmt"
	"strings"
)

// ChapterID identifies one chapter of the book.
type ChapterID int

const (
	ChapterWelcome ChapterID = iota
	ChapterMembrane
	ChapterTypes
	ChapterAnimal
	ChapterPlant
	ChapterLevels
	ChapterTissues
)

var chapterIDNames = [...]string{
	ChapterWelcome:  "welcome",
	ChapterMembrane: "membrane",
	ChapterTypes:    "types",
	ChapterAnimal:   "animal",
	ChapterPlant:    "plant",
	ChapterLevels:   "levels",
	ChapterTissues:  "tissues",
}

// ErrInvalidChapterID is returned when name does not match any chapter.
var ErrInvalidChapterID = fmt.Errorf("not a valid ChapterID, try [%s]", strings.Join(ChapterIDNames(), ", "))

func (x ChapterID) IsValid() bool {
	return x >= ChapterWelcome && int(x) < len(chapterIDNames)
}

func (x ChapterID) String() string {
	if x.IsValid() {
		return chapterIDNames[x]
	}
	return fmt.Sprintf("ChapterID(%d)", int(x))
}

// ChapterIDNames returns list of possible chapter names in declaration order.
func ChapterIDNames() []string {
	names := make([]string, len(chapterIDNames))
	copy(names, chapterIDNames[:])
	return names
}

// ParseChapterID converts chapter name (case insensitive) to ChapterID.
func ParseChapterID(name string) (ChapterID, error) {
	for i, n := range chapterIDNames {
		if strings.EqualFold(n, name) {
			return ChapterID(i), nil
		}
	}
	return ChapterID(0), fmt.Errorf("%s is %w", name, ErrInvalidChapterID)
}

// ImageKey names a chapter image independently of where the file lives and
// what format it has. Empty key means chapter has no image.
type ImageKey string

const (
	ImageNone     ImageKey = ""
	ImageMembrane ImageKey = "membrane"
	ImageTypes    ImageKey = "types"
	ImageAnimal   ImageKey = "animal"
	ImagePlant    ImageKey = "plant"
	ImageLevels   ImageKey = "levels"
	ImageTissues  ImageKey = "tissues"
)

// Transition is a navigation choice offered after chapter text is revealed.
// It is a plain value so choices can be compared directly.
type Transition struct {
	Label  string
	Target ChapterID
}

func (t Transition) String() string {
	return fmt.Sprintf("%q -> %s", t.Label, t.Target)
}

// Chapter is one immutable unit of content.
type Chapter struct {
	ID          ChapterID
	Title       string
	Image       ImageKey
	Body        string
	Transitions []Transition
}

// HasImage reports whether entering chapter requires image resolution.
func (c *Chapter) HasImage() bool {
	return c.Image != ImageNone
}
