package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openfoods/openfoods/internal/domain"
)

const maxNameWidth = 48

// printer writes styled output to the configured streams.
type printer struct {
	out, err io.Writer
	theme    Theme
}

func (p printer) ok(msg string) {
	fmt.Fprintln(p.out, p.theme.Success.Render(p.theme.SymOK+" "+msg))
}

func (p printer) fail(msg string) {
	fmt.Fprintln(p.err, p.theme.Error.Render(p.theme.SymFail+" "+msg))
}

func (p printer) hint(msg string) {
	fmt.Fprintln(p.err, p.theme.Muted.Render("Hint: "+msg))
}

func (p printer) panel(lines []string) {
	fmt.Fprintln(p.out, p.theme.Panel.Render(strings.Join(lines, "\n")))
}

func (p printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// listLines renders the header and one line per food.
func (p printer) listLines(foods []domain.Food, total int) []string {
	t := p.theme
	liked := countLiked(foods)

	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d",
			t.Title.Render("Foods"),
			t.Liked.Render(t.SymLiked), liked,
			t.Accent.Render("Total"), total,
		),
		"",
	}
	if len(foods) == 0 {
		return append(lines, t.Muted.Render("no foods"))
	}

	for _, f := range foods {
		sym := t.Muted.Render(t.SymUnliked)
		if f.IsLiked {
			sym = t.Liked.Render(t.SymLiked)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			t.Muted.Render(fmt.Sprintf("%3d.", f.ID)),
			sym,
			truncate(f.Name, maxNameWidth),
			t.Muted.Render("("+f.CountryOfOrigin+")"),
		))
	}
	return lines
}

// detailLines renders every field of a single food.
func (p printer) detailLines(f domain.Food) []string {
	t := p.theme
	state := t.Muted.Render(t.SymUnliked + " not liked")
	if f.IsLiked {
		state = t.Liked.Render(t.SymLiked + " liked")
	}
	return []string{
		t.Title.Render(f.Name) + "  " + t.Muted.Render(fmt.Sprintf("#%d", f.ID)),
		state,
		"",
		f.Description,
		"",
		t.Accent.Render("Country") + "       " + f.CountryOfOrigin,
		t.Accent.Render("Photo") + "         " + f.PhotoURL,
		t.Accent.Render("Last updated") + "  " + FormatUpdated(f.LastUpdatedDate),
	}
}

// FormatUpdated renders a food timestamp for humans.
func FormatUpdated(ts time.Time) string {
	if ts.IsZero() {
		return "unknown"
	}
	return ts.UTC().Format("2006-01-02 15:04 MST")
}

func countLiked(foods []domain.Food) int {
	n := 0
	for _, f := range foods {
		if f.IsLiked {
			n++
		}
	}
	return n
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
