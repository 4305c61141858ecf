package cli

import (
	"github.com/spf13/cobra"

	"github.com/beam-cloud/mailchat/pkg/gateway"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway in the foreground",
	Long:  `Start the mailchat gateway and block until interrupted.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	gw, err := gateway.NewGateway()
	if err != nil {
		return err
	}
	return gw.Start()
}
