package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/tagjump/pkg/tagger"
	"github.com/charmbracelet/lipgloss"
)

var (
	tagStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#faf4ed", Dark: "#191724"}).
			Background(lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#f6c177"})
	caretStyle  = lipgloss.NewStyle().Reverse(true)
	gutterStyle = lipgloss.NewStyle().Faint(true)
)

// Terminal draws the visible lines of a document with tags laid over the
// first characters of each tagged match.
type Terminal struct {
	out         io.Writer
	markers     []tagger.Marker
	showOffsets bool
}

// NewTerminal creates a renderer writing to out.
func NewTerminal(out io.Writer, showOffsets bool) *Terminal {
	return &Terminal{out: out, showOffsets: showOffsets}
}

// Render implements tagger.Renderer. It only records the markers; Draw
// paints them once the input line has been handled.
func (t *Terminal) Render(markers []tagger.Marker) {
	t.markers = markers
}

// Draw prints lines [first, last) of text.
func (t *Terminal) Draw(text []rune, starts []int, first, last, caret int) {
	tags := make(map[int]string, len(t.markers))
	for _, m := range t.markers {
		tags[m.Offset] = m.Tag
	}
	for line := first; line < last && line < len(starts); line++ {
		begin := starts[line]
		end := len(text)
		if line+1 < len(starts) {
			end = starts[line+1] - 1
		}
		gutter := gutterStyle.Render(fmt.Sprintf("%4d ", line+1))
		fmt.Fprintln(t.out, gutter+t.paint(text, begin, end, caret, tags))
	}
	if t.showOffsets && len(t.markers) > 0 {
		parts := make([]string, len(t.markers))
		for i, m := range t.markers {
			parts[i] = fmt.Sprintf("%s@%d", m.Tag, m.Offset)
		}
		fmt.Fprintln(t.out, gutterStyle.Render(strings.Join(parts, " ")))
	}
}

func (t *Terminal) paint(text []rune, begin, end, caret int, tags map[int]string) string {
	var sb strings.Builder
	for i := begin; i < end; {
		if tag, ok := tags[i]; ok {
			sb.WriteString(tagStyle.Render(tag))
			i += len([]rune(tag))
			continue
		}
		if i == caret {
			sb.WriteString(caretStyle.Render(string(text[i])))
		} else {
			sb.WriteRune(text[i])
		}
		i++
	}
	return sb.String()
}
