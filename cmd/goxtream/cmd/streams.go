package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/goxtream/pkg/xtream"
)

var (
	streamsLive     bool
	streamsVOD      bool
	streamsSeries   bool
	streamsCategory string
	streamsJSON     bool
	streamsURLs     bool
)

// streamsCmd lists streams for the selected domains.
var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "List streams",
	Long: `List streams for the selected stream types, optionally filtered by
category. At least one type must be selected; --vod and --series cannot
be combined in one call.`,
	RunE: runStreams,
}

func init() {
	streamsCmd.Flags().BoolVar(&streamsLive, "live", false, "list live streams")
	streamsCmd.Flags().BoolVar(&streamsVOD, "vod", false, "list VOD streams")
	streamsCmd.Flags().BoolVar(&streamsSeries, "series", false, "list series")
	streamsCmd.Flags().StringVar(&streamsCategory, "category", "", "filter by category id")
	streamsCmd.Flags().BoolVar(&streamsJSON, "json", false, "output as JSON")
	streamsCmd.Flags().BoolVar(&streamsURLs, "urls", false, "print delivery URLs")
	rootCmd.AddCommand(streamsCmd)
}

func runStreams(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	streams, err := client.GetStreams(cmd.Context(), xtream.StreamSelection{
		Live:       streamsLive,
		VOD:        streamsVOD,
		Series:     streamsSeries,
		CategoryID: streamsCategory,
	})
	if err != nil {
		return err
	}

	if streamsJSON {
		out, err := json.MarshalIndent(streams, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding streams: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for i := range streams {
		s := &streams[i]
		if streamsURLs {
			fmt.Printf("%-8s %-10d %-40s %s\n", s.StreamType, s.ID(), s.Name, deliveryURL(client, s))
			continue
		}
		fmt.Printf("%-8s %-10d %s\n", s.StreamType, s.ID(), s.Name)
	}
	return nil
}

func deliveryURL(client *xtream.Client, s *xtream.Stream) string {
	switch s.StreamType {
	case xtream.StreamTypeVOD:
		return client.VODStreamURL(s.ID(), s.ContainerExtension)
	case xtream.StreamTypeSeries:
		return client.SeriesStreamURL(s.ID(), s.ContainerExtension)
	default:
		return client.LiveStreamURL(s.ID())
	}
}
