package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type StatusInfo struct {
	Reachable     bool   `json:"reachable"`
	Gateway       string `json:"gateway"`
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gateway and mailbox status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	status := StatusInfo{Gateway: gatewayHTTPAddr}

	if err := client.Health(ctx); err == nil {
		status.Reachable = true
		if auth, err := client.AuthStatus(ctx); err == nil {
			status.Authenticated = auth.Authenticated
			status.Email = auth.Email
		}
	}

	if PrintJSON(status) {
		return nil
	}

	fmt.Println()
	PrintKeyValue("Gateway", status.Gateway)
	if status.Reachable {
		PrintKeyValue("Status", SuccessStyle.Render("reachable"))
	} else {
		PrintKeyValue("Status", DimStyle.Render("unreachable"))
		PrintHint("Start one locally with 'mailchat serve'")
		return nil
	}

	if status.Authenticated {
		PrintKeyValue("Mailbox", SuccessStyle.Render(status.Email))
	} else {
		PrintKeyValue("Mailbox", DimStyle.Render("not connected"))
		PrintHint(fmt.Sprintf("Open %s/api/v1/auth/login in your browser to connect Gmail", gatewayHTTPAddr))
	}
	return nil
}
