package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/beam-cloud/mailchat/pkg/gateway"
)

// Build information (injected at compile time via ldflags)
var (
	Version = "dev"
)

const defaultGatewayHTTP = "http://localhost:1996"

var (
	gatewayHTTPAddr string
	jsonOutput      bool
)

// Custom help template with styled output
var helpTemplate = `{{with .Long}}{{. | trim}}

{{end}}{{if .HasAvailableSubCommands}}` + `{{.CommandPath}}` + ` ` + `<command>` + `

{{end}}{{if .HasAvailableSubCommands}}Commands:
{{range .Commands}}{{if .IsAvailableCommand}}  {{rpad .Name .NamePadding }}  {{.Short}}
{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}
Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}
`

var rootCmd = &cobra.Command{
	Use:   "mailchat",
	Short: "Chat with your inbox",
	Long: lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render("mailchat") + ` - Chat with your inbox

Ask questions about your Gmail inbox in plain language. The assistant
fetches and summarizes matching emails behind the scenes.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		SetJSONOutput(jsonOutput)
	},
}

func init() {
	rootCmd.SetHelpTemplate(helpTemplate)
	rootCmd.SetVersionTemplate(fmt.Sprintf("  %s version %s\n", BrandStyle.Render("mailchat"), Version))

	rootCmd.PersistentFlags().StringVar(&gatewayHTTPAddr, "gateway", getEnv("MAILCHAT_GATEWAY", defaultGatewayHTTP), "Gateway HTTP address")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getClient() (*gateway.Client, error) {
	return gateway.NewClient(gatewayHTTPAddr)
}

func exitError(err error) {
	PrintError(err)
	os.Exit(1)
}
