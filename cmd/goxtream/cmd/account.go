package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var accountJSON bool

// accountCmd authenticates and prints the account and server summary.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show account and server information",
	Long: `Authenticate against the panel and print the account state, expiry,
connection limits, allowed output formats, and server details.`,
	RunE: runAccount,
}

func init() {
	accountCmd.Flags().BoolVar(&accountJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	user, err := client.UserInfo()
	if err != nil {
		return err
	}
	server, err := client.ServerInfo()
	if err != nil {
		return err
	}

	if accountJSON {
		out, err := json.MarshalIndent(map[string]any{
			"user_info":   user,
			"server_info": server,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding account info: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Username:           %s\n", user.Username)
	fmt.Printf("Status:             %s\n", user.Status)
	if exp := user.ExpirationTime(); !exp.IsZero() {
		fmt.Printf("Expires:            %s\n", exp.Format(time.RFC1123))
	}
	fmt.Printf("Trial:              %t\n", user.IsTrial.Int() == 1)
	fmt.Printf("Connections:        %d/%d\n", user.ActiveConnections.Int(), user.MaxConnections.Int())
	fmt.Printf("Output formats:     %v\n", user.AllowedOutputFormats)
	fmt.Printf("Server:             %s://%s:%d\n", server.ServerProtocol, server.URL, server.Port.Int())
	fmt.Printf("Server timezone:    %s\n", server.Timezone)
	return nil
}
