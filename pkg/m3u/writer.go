package m3u

import (
	"fmt"
	"io"
	"strings"
)

// Header is the extended M3U header line.
const Header = "#EXTM3U"

// Writer provides streaming M3U playlist writing.
//
// The header is only emitted when requested: playlist fragments meant for
// composition into a larger file must not carry their own #EXTM3U line.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

// NewWriter creates a new M3U writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the M3U header. Writing it more than once is a no-op.
func (w *Writer) WriteHeader() error {
	if w.headerWritten {
		return nil
	}
	if _, err := fmt.Fprintln(w.w, Header); err != nil {
		return fmt.Errorf("writing M3U header: %w", err)
	}
	w.headerWritten = true
	return nil
}

// WriteEntry writes a single channel entry to the M3U playlist.
func (w *Writer) WriteEntry(entry *Entry) error {
	if _, err := fmt.Fprintln(w.w, FormatExtinf(entry)); err != nil {
		return fmt.Errorf("writing EXTINF: %w", err)
	}
	if _, err := fmt.Fprintln(w.w, entry.URL); err != nil {
		return fmt.Errorf("writing URL: %w", err)
	}
	return nil
}

// FormatExtinf renders the EXTINF metadata line for an entry, without a
// trailing newline. Attribute order is fixed so output is deterministic.
func FormatExtinf(entry *Entry) string {
	var attrs []string

	if entry.ChannelNumber > 0 {
		attrs = append(attrs, fmt.Sprintf(`tvg-chno="%d"`, entry.ChannelNumber))
	}
	if entry.TvgID != "" {
		attrs = append(attrs, fmt.Sprintf(`tvg-id="%s"`, escapeQuotes(entry.TvgID)))
	}
	if entry.TvgName != "" {
		attrs = append(attrs, fmt.Sprintf(`tvg-name="%s"`, escapeQuotes(entry.TvgName)))
	}
	if entry.TvgLogo != "" {
		attrs = append(attrs, fmt.Sprintf(`tvg-logo="%s"`, escapeQuotes(entry.TvgLogo)))
	}
	if entry.GroupTitle != "" {
		attrs = append(attrs, fmt.Sprintf(`group-title="%s"`, escapeQuotes(entry.GroupTitle)))
	}

	duration := entry.Duration
	if duration == 0 {
		duration = -1 // Default to -1 for live streams
	}

	if len(attrs) > 0 {
		return fmt.Sprintf("#EXTINF:%d %s,%s", duration, strings.Join(attrs, " "), entry.Title)
	}
	return fmt.Sprintf("#EXTINF:%d,%s", duration, entry.Title)
}

// escapeQuotes escapes double quotes in attribute values.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
