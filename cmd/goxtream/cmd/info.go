package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/goxtream/pkg/xtream"
)

// infoCmd prints the detail record for a VOD item or series.
var infoCmd = &cobra.Command{
	Use:   "info <vod|series> <id>",
	Short: "Show VOD or series details",
	Long: `Fetch the raw detail record for a VOD item or a series (including its
episodes) and print it as JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	streamType, ok := xtream.ParseStreamType(args[0])
	if !ok {
		return fmt.Errorf("unknown stream type %q (want vod or series)", args[0])
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[1], err)
	}

	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	info, err := client.GetInfo(cmd.Context(), streamType, id)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding info: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
