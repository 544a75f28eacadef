// Package cli is an interactive front-end for trying tag jumps on a file
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bastiangx/tagjump/internal/logger"
	"github.com/bastiangx/tagjump/internal/utils"
	"github.com/bastiangx/tagjump/pkg/search"
	"github.com/bastiangx/tagjump/pkg/tagger"
	"github.com/charmbracelet/log"
	"github.com/ergochat/readline"
	"github.com/juju/errors"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem(":reset"),
	readline.PcItem(":back"),
	readline.PcItem(":next"),
	readline.PcItem(":down"),
	readline.PcItem(":up"),
	readline.PcItem(":regex"),
	readline.PcItem(":quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// InputHandler feeds typed characters to a tagger one keystroke at a time
// and shows the tagged view of a document. It is the tagger's editor,
// jumper and scroller.
type InputHandler struct {
	text      []rune
	starts    []int
	top       int
	viewLines int
	caret     int
	query     []rune
	regex     bool
	term      *Terminal
	tagger    *tagger.Tagger
	out       io.Writer
}

// NewInputHandler prepares a session over text showing viewLines lines.
func NewInputHandler(text []rune, alphabet tagger.Alphabet, viewLines int, shorten bool, term *Terminal, out io.Writer) *InputHandler {
	h := &InputHandler{
		text:      text,
		starts:    utils.LineStarts(text),
		viewLines: max(1, viewLines),
		term:      term,
		out:       out,
	}
	h.tagger = tagger.New(h, alphabet,
		tagger.WithRenderer(term),
		tagger.WithJumper(h),
		tagger.WithScroller(h),
		tagger.WithCompaction(shorten),
		tagger.WithLogger(logger.New("cli")),
	)
	return h
}

// ViewBounds implements tagger.Editor.
func (h *InputHandler) ViewBounds() tagger.Range {
	start := h.starts[h.top]
	last := h.top + h.viewLines
	if last >= len(h.starts) {
		return tagger.Range{Start: start, End: len(h.text)}
	}
	return tagger.Range{Start: start, End: h.starts[last]}
}

func (h *InputHandler) CaretOffset() int { return h.caret }
func (h *InputHandler) Text() []rune     { return h.text }

// Jump implements tagger.Jumper.
func (h *InputHandler) Jump(offset int) bool {
	h.caret = offset
	line := sort.SearchInts(h.starts, offset+1) - 1
	fmt.Fprintf(h.out, "jumped to %d:%d (offset %d)\n", line+1, offset-h.starts[line]+1, offset)
	if !h.ViewBounds().Contains(offset) {
		h.top = line
	}
	h.query = h.query[:0]
	return true
}

// ScrollToNextOccurrence implements tagger.Scroller.
func (h *InputHandler) ScrollToNextOccurrence() bool {
	matches, err := search.Find(h.text, string(h.query), h.regex)
	if err != nil {
		return false
	}
	end := h.ViewBounds().End
	i := sort.SearchInts(matches, end)
	if i == len(matches) {
		return false
	}
	h.top = sort.SearchInts(h.starts, matches[i]+1) - 1
	return true
}

// Start runs the prompt until :quit or EOF.
func (h *InputHandler) Start() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              "› ",
		AutoComplete:        completer,
		InterruptPrompt:     "^C",
		EOFPrompt:           ":quit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return errors.Annotate(err, "cli: open prompt")
	}
	defer rl.Close()

	log.Print("tagjump CLI: type query characters, then a tag to jump (:quit to exit)")
	h.draw()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			h.tagger.Reset()
			h.query = h.query[:0]
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Trace(err)
		}
		if !h.handleLine(line) {
			return nil
		}
		h.draw()
	}
}

// handleLine applies one input line and reports whether to keep going.
func (h *InputHandler) handleLine(line string) bool {
	switch strings.TrimSpace(line) {
	case ":quit", ":q":
		return false
	case ":reset":
		h.tagger.Reset()
		h.query = h.query[:0]
	case ":back":
		if len(h.query) > 0 {
			h.query = h.query[:len(h.query)-1]
			h.cycle()
		}
	case ":next":
		if !h.tagger.JumpToNearestVisible() {
			log.Warn("No visible tag to jump to")
		}
	case ":down":
		h.scroll(h.viewLines)
	case ":up":
		h.scroll(-h.viewLines)
	case ":regex":
		h.regex = !h.regex
		h.tagger.Reset()
		h.query = h.query[:0]
		log.Infof("Regex mode: %v", h.regex)
	default:
		h.Type(line)
	}
	return true
}

// Type feeds every character of s as a separate keystroke.
func (h *InputHandler) Type(s string) {
	for _, r := range s {
		h.query = append(h.query, r)
		if h.cycle().Jumped {
			return
		}
	}
}

func (h *InputHandler) cycle() tagger.Result {
	q := string(h.query)
	matches, err := search.Find(h.text, q, h.regex)
	if err != nil {
		log.Warnf("Search failed: %v", err)
		return tagger.Result{}
	}
	view := h.ViewBounds()
	res := h.tagger.MarkOrJump(q, h.regex, matches)
	log.Debug("cycle", "query", q, "matches", len(matches), "visible", len(search.InRange(matches, view.Start, view.End)), "tags", len(res.Markers), "full", res.Full)
	if !res.Full {
		log.Warnf("Not every match could be tagged for %q", q)
	}
	return res
}

func (h *InputHandler) scroll(lines int) {
	old := h.ViewBounds()
	h.top = max(0, min(h.top+lines, len(h.starts)-1))
	if len(h.query) > 0 && h.tagger.HasMatchBetween(old, h.ViewBounds()) {
		h.cycle()
	}
}

func (h *InputHandler) draw() {
	h.term.Draw(h.text, h.starts, h.top, h.top+h.viewLines, h.caret)
	if len(h.query) > 0 {
		fmt.Fprintf(h.out, "query: %q\n", string(h.query))
	}
}
