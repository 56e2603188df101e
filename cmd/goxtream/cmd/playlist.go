package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/goxtream/pkg/m3u"
	"github.com/jmylchreest/goxtream/pkg/xtream"
)

var (
	playlistOutput       string
	playlistStats        bool
	playlistLive         bool
	playlistVOD          bool
	playlistSeries       bool
	playlistStartChannel int
	playlistNoHeader     bool
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Playlist commands",
	Long:  `Fetch the server-generated playlist or build one from the catalog.`,
}

// playlistFetchCmd fetches the server's own precomputed M3U playlist.
var playlistFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the server-generated M3U playlist",
	Long: `Fetch the panel's own precomputed M3U playlist from get.php. This
endpoint is absent on some servers; a not-found failure is a server
limitation, not a client bug.`,
	RunE: runPlaylistFetch,
}

// playlistStatsCmd summarizes a local playlist file.
var playlistStatsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Summarize a local M3U playlist file",
	Long: `Parse a local M3U playlist file and print entry and group counts.
Gzip, bzip2, and xz compressed playlists are detected automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaylistStats,
}

// playlistBuildCmd builds a playlist from the catalog.
var playlistBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an M3U playlist from the catalog",
	Long: `Build an M3U playlist by listing every category of the selected
stream types and rendering each category's streams in server order.
With no type flags a live-only playlist is built.

--start-channel assigns sequential tvg-chno numbers across the whole
playlist, continuing across category and type boundaries.`,
	RunE: runPlaylistBuild,
}

func init() {
	playlistCmd.PersistentFlags().StringVarP(&playlistOutput, "output", "o", "", "write the playlist to a file")

	playlistFetchCmd.Flags().BoolVar(&playlistStats, "stats", false, "print entry and group counts instead of the playlist")

	playlistBuildCmd.Flags().BoolVar(&playlistLive, "live", false, "include live streams")
	playlistBuildCmd.Flags().BoolVar(&playlistVOD, "vod", false, "include VOD streams")
	playlistBuildCmd.Flags().BoolVar(&playlistSeries, "series", false, "include series")
	playlistBuildCmd.Flags().IntVar(&playlistStartChannel, "start-channel", 0, "first tvg-chno value (0 = no numbering)")
	playlistBuildCmd.Flags().BoolVar(&playlistNoHeader, "no-header", false, "omit the #EXTM3U header")

	playlistCmd.AddCommand(playlistFetchCmd)
	playlistCmd.AddCommand(playlistStatsCmd)
	playlistCmd.AddCommand(playlistBuildCmd)
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylistFetch(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	text, err := client.DownloadM3U(cmd.Context(), playlistOutput)
	if err != nil {
		return err
	}

	if playlistStats {
		return printPlaylistStats(strings.NewReader(text))
	}

	if playlistOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(text), playlistOutput)
		return nil
	}
	fmt.Print(text)
	return nil
}

func runPlaylistBuild(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	opts := &xtream.PlaylistOptions{
		Live:         playlistLive,
		VOD:          playlistVOD,
		Series:       playlistSeries,
		StartChannel: playlistStartChannel,
		FilePath:     playlistOutput,
	}
	if playlistNoHeader {
		opts.Header = xtream.HeaderOmit
	}

	lines, err := client.BuildM3U(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if playlistOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d lines to %s\n", len(lines), playlistOutput)
		return nil
	}
	fmt.Println(strings.Join(lines, "\n"))
	return nil
}

func runPlaylistStats(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening playlist: %w", err)
	}
	defer f.Close()

	return printPlaylistStats(f)
}

// printPlaylistStats parses a playlist and prints a summary. Compressed
// input is detected from magic bytes.
func printPlaylistStats(r io.Reader) error {
	entries := 0
	groups := make(map[string]int)

	parser := &m3u.Parser{OnEntry: func(e *m3u.Entry) error {
		entries++
		if e.GroupTitle != "" {
			groups[e.GroupTitle]++
		}
		return nil
	}}
	if err := parser.ParseCompressed(r); err != nil {
		return fmt.Errorf("parsing playlist: %w", err)
	}

	fmt.Printf("Entries: %d\n", entries)
	fmt.Printf("Groups:  %d\n", len(groups))

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-40s %d\n", name, groups[name])
	}
	return nil
}
