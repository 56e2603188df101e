package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// panelCmd fetches the legacy panel summary.
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Show the legacy panel summary",
	Long: `Fetch the legacy panel_api.php summary and print it as JSON. The
endpoint is absent on many servers; expect a not-found failure there.`,
	RunE: runPanel,
}

func init() {
	rootCmd.AddCommand(panelCmd)
}

func runPanel(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	panel, err := client.GetPanel(cmd.Context())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(panel, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding panel info: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
