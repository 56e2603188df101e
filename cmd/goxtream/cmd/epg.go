package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/goxtream/pkg/xtream"
)

var (
	epgStreamID int64
	epgShort    bool
	epgLimit    int
	epgJSON     bool
)

// epgCmd retrieves EPG listings.
var epgCmd = &cobra.Command{
	Use:   "epg",
	Short: "Show EPG listings",
	Long: `Retrieve EPG listings. Without --stream-id the full data table for all
streams is fetched. --short requests the server's short listing for one
stream and requires --stream-id.`,
	RunE: runEPG,
}

func init() {
	epgCmd.Flags().Int64Var(&epgStreamID, "stream-id", 0, "restrict to one stream")
	epgCmd.Flags().BoolVar(&epgShort, "short", false, "fetch the short listing")
	epgCmd.Flags().IntVar(&epgLimit, "limit", 0, "short listing length (0 = server default)")
	epgCmd.Flags().BoolVar(&epgJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(epgCmd)
}

func runEPG(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	var listings []xtream.EPGListing
	if epgShort {
		listings, err = client.GetShortEPG(cmd.Context(), epgStreamID, epgLimit)
	} else {
		listings, err = client.GetEPG(cmd.Context(), epgStreamID)
	}
	if err != nil {
		return err
	}

	if epgJSON {
		out, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding listings: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for i := range listings {
		l := &listings[i]
		fmt.Printf("%s - %s  %s\n",
			l.StartTime().Format(time.DateTime),
			l.EndTime().Format("15:04"),
			l.Title)
	}
	return nil
}
