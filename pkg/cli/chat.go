package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apiv1 "github.com/beam-cloud/mailchat/pkg/api/v1"
	"github.com/beam-cloud/mailchat/pkg/gateway"
)

var forceRefresh bool

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the assistant",
	Long: `Send a message to the inbox assistant.

With a message argument, sends it and prints the reply. Without arguments,
starts an interactive session.`,
	Example: `  mailchat chat "summarize my unread emails"
  mailchat chat "show emails from github.com this week"
  mailchat chat`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&forceRefresh, "force", false, "Bypass the email cache for this message")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := client.Health(ctx); err != nil {
		PrintConnectionError(gatewayHTTPAddr, err)
		os.Exit(1)
	}

	if len(args) > 0 {
		return sendMessage(ctx, client, strings.Join(args, " "))
	}
	return interactiveChat(ctx, client)
}

func sendMessage(ctx context.Context, client *gateway.Client, message string) error {
	var reply *apiv1.ChatResponse
	err := RunSpinnerCtx(ctx, "Thinking...", func(ctx context.Context) error {
		var err error
		reply, err = client.Chat(ctx, message, forceRefresh)
		return err
	})
	if err != nil {
		return chatError(err)
	}

	if PrintJSON(reply) {
		return nil
	}

	fmt.Println()
	fmt.Println(reply.Reply)
	if reply.UsedEmailContext {
		PrintHint("Answered using your mailbox")
	}
	return nil
}

func interactiveChat(ctx context.Context, client *gateway.Client) error {
	fmt.Println()
	fmt.Printf("  %s\n", BrandStyle.Render("mailchat"))
	PrintHint("Ask about your inbox. Type 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(BoldStyle.Render("> "))
		if !scanner.Scan() {
			break
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}

		if err := sendMessage(ctx, client, message); err != nil {
			PrintError(err)
		}
		fmt.Println()
	}
	return scanner.Err()
}

// chatError rewrites the auth-required API error into a CLI hint
func chatError(err error) error {
	if strings.Contains(err.Error(), "connect your Google account") {
		PrintWarning("Mailbox not connected")
		PrintHint(fmt.Sprintf("Open %s/api/v1/auth/login in your browser to connect Gmail", gatewayHTTPAddr))
		return nil
	}
	return err
}
