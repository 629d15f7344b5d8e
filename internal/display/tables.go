package display

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ErrUnrecognized is returned when query output has no flag legend
// separator, usually because ffmpeg printed an error instead of a list.
var ErrUnrecognized = errors.New("unrecognized ffmpeg listing")

// Legend is one "flag = meaning" line from the header of a listing.
type Legend struct {
	Flags   string
	Meaning string
}

// Entry is one row of a codec or format listing.
type Entry struct {
	Flags       string
	Name        string
	Description string
}

// Listing is a parsed "ffmpeg -codecs" or "ffmpeg -formats" output.
type Listing struct {
	Title   string
	Legend  []Legend
	Entries []Entry
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	flagStyle   = cellStyle.Foreground(lipgloss.Color("214"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)
)

// ParseListing parses the flag-column layout shared by -codecs, -encoders,
// -decoders and -formats:
//
//	Codecs:
//	 D..... = Decoding supported
//	 .E.... = Encoding supported
//	 -------
//	 D.VI.S 012v    Uncompressed 4:2:2 10-bit
//
// The legend's flag token gives the width of the flag column, falling back
// to the dashed separator when there is no legend; flags may contain spaces
// (" E mp4").
func ParseListing(raw string) (Listing, error) {
	var l Listing
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	sep := -1
	width := 0
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if strings.Trim(t, "-") == "" {
			sep, width = i, len(t)
			break
		}
		if flags, meaning, ok := strings.Cut(t, " = "); ok {
			l.Legend = append(l.Legend, Legend{Flags: flags, Meaning: strings.TrimSpace(meaning)})
			continue
		}
		if l.Title == "" {
			l.Title = strings.TrimSuffix(t, ":")
		}
	}
	if sep < 0 {
		return Listing{}, ErrUnrecognized
	}
	// The separator can run one dash past the flags; the legend cannot.
	if len(l.Legend) > 0 {
		width = len(l.Legend[0].Flags)
	}

	for _, line := range lines[sep+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// One leading space precedes the flag column.
		body := strings.TrimPrefix(line, " ")
		if len(body) <= width {
			continue
		}
		flags := body[:width]
		rest := strings.TrimSpace(body[width:])
		name, desc, _ := strings.Cut(rest, " ")
		l.Entries = append(l.Entries, Entry{
			Flags:       flags,
			Name:        name,
			Description: strings.TrimSpace(desc),
		})
	}
	return l, nil
}

// RenderListing draws the listing as a bordered table followed by the flag
// legend.
func RenderListing(l Listing) string {
	rows := make([][]string, len(l.Entries))
	for i, e := range l.Entries {
		rows[i] = []string{e.Flags, e.Name, e.Description}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return flagStyle
			default:
				return cellStyle
			}
		}).
		Headers("Flags", "Name", "Description").
		Rows(rows...)

	var b strings.Builder
	if l.Title != "" {
		b.WriteString(titleStyle.Render(l.Title))
		b.WriteString("\n")
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	if len(l.Legend) > 0 {
		b.WriteString(RenderLegend(l.Legend))
	}
	return b.String()
}

// RenderLegend lists the flag meanings, one per line.
func RenderLegend(legend []Legend) string {
	var b strings.Builder
	for _, lg := range legend {
		b.WriteString(legendStyle.Render(lg.Flags + "  " + lg.Meaning))
		b.WriteString("\n")
	}
	return b.String()
}

// ParseHWAccels returns the method names from "ffmpeg -hwaccels" output,
// dropping the "Hardware acceleration methods:" header.
func ParseHWAccels(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasSuffix(t, ":") {
			continue
		}
		out = append(out, t)
	}
	return out
}

// RenderHWAccels draws the accelerator names as a one-column table.
func RenderHWAccels(names []string) string {
	rows := make([][]string, len(names))
	for i, n := range names {
		rows[i] = []string{n}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Hardware acceleration").
		Rows(rows...)
	return t.String() + "\n"
}

// RenderHelp frames the free-form "ffmpeg -h encoder=<name>" text in a box
// under a title.
func RenderHelp(title, raw string) string {
	body := strings.TrimRight(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	return titleStyle.Render(title) + "\n" + boxStyle.Render(body) + "\n"
}
