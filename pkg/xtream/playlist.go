package xtream

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jmylchreest/goxtream/pkg/m3u"
)

// HeaderMode controls whether a built playlist starts with the #EXTM3U
// header line.
type HeaderMode int

const (
	// HeaderDefault uses the builder's own default: omitted for the
	// single-category builder (fragments meant for composition), included
	// for the full builder (a complete file).
	HeaderDefault HeaderMode = iota

	// HeaderInclude always emits the header as the first line.
	HeaderInclude

	// HeaderOmit never emits the header.
	HeaderOmit
)

// PlaylistOptions configures the playlist builders. The zero value builds
// a live-only playlist with no channel numbering and no file output.
type PlaylistOptions struct {
	// Live, VOD, and Series select the domains for BuildM3U. When none
	// are set, live is used. BuildM3UFromCategory ignores these; the
	// category carries its own domain.
	Live   bool
	VOD    bool
	Series bool

	// StartChannel, when positive, assigns sequential tvg-chno values
	// starting at this number, in server-return order. The counter runs
	// continuously across category and domain boundaries.
	StartChannel int

	// Header controls the leading #EXTM3U line.
	Header HeaderMode

	// FilePath, when set, writes the built playlist to this path as a
	// single whole-document write.
	FilePath string
}

// BuildM3UFromCategory renders the streams of one previously fetched
// category as EXTINF/URL line pairs. Streams are rendered in
// server-return order with no client-side sorting.
func (c *Client) BuildM3UFromCategory(ctx context.Context, category Category, opts *PlaylistOptions) ([]string, error) {
	if opts == nil {
		opts = &PlaylistOptions{}
	}

	chno := opts.StartChannel
	lines, err := c.renderCategory(ctx, category, &chno)
	if err != nil {
		return nil, err
	}

	if opts.Header == HeaderInclude {
		lines = append([]string{m3u.Header}, lines...)
	}

	if opts.FilePath != "" {
		if err := writeLines(opts.FilePath, lines); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// BuildM3U builds a playlist spanning every category of the selected
// domains. Domains are processed in the fixed order live, vod, series;
// within a domain, categories and streams keep server-return order. A
// requested channel counter increments across all boundaries so every
// entry in the final file gets a unique sequential number.
func (c *Client) BuildM3U(ctx context.Context, opts *PlaylistOptions) ([]string, error) {
	if opts == nil {
		opts = &PlaylistOptions{}
	}

	sel := CategorySelection{Live: opts.Live, VOD: opts.VOD, Series: opts.Series}
	if !sel.Live && !sel.VOD && !sel.Series {
		sel.Live = true
	}

	categories, err := c.GetCategories(ctx, sel)
	if err != nil {
		return nil, err
	}

	var lines []string
	if opts.Header != HeaderOmit {
		lines = append(lines, m3u.Header)
	}

	chno := opts.StartChannel
	for _, category := range categories {
		categoryLines, err := c.renderCategory(ctx, category, &chno)
		if err != nil {
			return nil, err
		}
		lines = append(lines, categoryLines...)
	}

	c.logger.Debug("playlist built",
		slog.Int("categories", len(categories)),
		slog.Int("lines", len(lines)),
	)

	if opts.FilePath != "" {
		if err := writeLines(opts.FilePath, lines); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// renderCategory fetches one category's streams and renders them. chno is
// the running channel counter; zero or negative disables numbering.
func (c *Client) renderCategory(ctx context.Context, category Category, chno *int) ([]string, error) {
	sel := StreamSelection{CategoryID: category.CategoryID.String()}
	switch category.StreamType {
	case StreamTypeLive:
		sel.Live = true
	case StreamTypeVOD:
		sel.VOD = true
	case StreamTypeSeries:
		sel.Series = true
	default:
		return nil, fmt.Errorf("xtream: category %q has no stream type", category.CategoryName)
	}

	streams, err := c.GetStreams(ctx, sel)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(streams)*2)
	for i := range streams {
		entry := c.buildEntry(&streams[i], category.CategoryName, *chno)
		if *chno > 0 {
			*chno++
		}
		lines = append(lines, m3u.FormatExtinf(entry), entry.URL)
	}
	return lines, nil
}

// buildEntry converts one stream into a playlist entry.
func (c *Client) buildEntry(s *Stream, groupTitle string, chno int) *m3u.Entry {
	entry := &m3u.Entry{
		Title:      s.Name,
		TvgID:      s.EPGChannelID,
		TvgName:    s.Name,
		TvgLogo:    s.Logo(),
		GroupTitle: groupTitle,
	}
	if chno > 0 {
		entry.ChannelNumber = chno
	}

	switch s.StreamType {
	case StreamTypeVOD:
		entry.URL = c.VODStreamURL(s.ID(), s.ContainerExtension)
	case StreamTypeSeries:
		entry.URL = c.SeriesStreamURL(s.ID(), s.ContainerExtension)
	default:
		entry.URL = c.LiveStreamURL(s.ID())
	}
	return entry
}

// writeLines persists playlist lines as one whole-document write, joined
// with newlines and terminated by one.
func writeLines(path string, lines []string) error {
	return writeDocument(path, strings.Join(lines, "\n")+"\n")
}

// writeDocument writes text to path as a single complete overwrite.
func writeDocument(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("xtream: writing %s: %w", path, err)
	}
	return nil
}
