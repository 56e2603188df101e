package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var xmltvOutput string

// xmltvCmd fetches the raw XMLTV EPG document.
var xmltvCmd = &cobra.Command{
	Use:   "xmltv",
	Short: "Fetch the raw XMLTV EPG document",
	Long: `Fetch the server's full XMLTV EPG document. The document is passed
through without parsing or validation and can be very large.`,
	RunE: runXMLTV,
}

func init() {
	xmltvCmd.Flags().StringVarP(&xmltvOutput, "output", "o", "", "write the document to a file")
	rootCmd.AddCommand(xmltvCmd)
}

func runXMLTV(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	text, err := client.DownloadXMLTV(cmd.Context(), xmltvOutput)
	if err != nil {
		return err
	}

	if xmltvOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(text), xmltvOutput)
		return nil
	}
	fmt.Print(text)
	return nil
}
