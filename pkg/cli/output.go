package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON controls whether commands should output JSON instead of styled text
var outputJSON bool

// SetJSONOutput sets the JSON output mode
func SetJSONOutput(enabled bool) {
	outputJSON = enabled
}

// PrintJSON outputs data as JSON if JSON mode is enabled, returns true if it did
func PrintJSON(data interface{}) bool {
	if !outputJSON {
		return false
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(data)
	return true
}

// PrintError prints an error message with a red X
func PrintError(err error) {
	fmt.Printf("  %s %s\n", ErrorStyle.Render(SymbolError), ErrorStyle.Render(err.Error()))
}

// PrintErrorMsg prints a simple error message string
func PrintErrorMsg(msg string) {
	fmt.Printf("  %s %s\n", ErrorStyle.Render(SymbolError), ErrorStyle.Render(msg))
}

// PrintWarning prints a warning message with a yellow indicator
func PrintWarning(msg string) {
	fmt.Printf("  %s %s\n", WarningStyle.Render(SymbolWarning), WarningStyle.Render(msg))
}

// PrintHint prints a subtle hint/suggestion
func PrintHint(msg string) {
	fmt.Printf("\n  %s\n", HintStyle.Render(msg))
}

// PrintSuggestions prints a list of suggestions
func PrintSuggestions(title string, suggestions []string) {
	fmt.Println()
	fmt.Printf("  %s\n", DimStyle.Render(title))
	for _, s := range suggestions {
		fmt.Printf("    %s %s\n", DimStyle.Render(SymbolBullet), s)
	}
}

// PrintKeyValue prints a key-value pair with consistent alignment
func PrintKeyValue(key, value string) {
	styledKey := KeyStyle.Render(key)
	fmt.Printf("  %s %s\n", styledKey, value)
}

// PrintConnectionError prints a styled connection error with suggestions
func PrintConnectionError(addr string, err error) {
	fmt.Println()
	PrintErrorMsg("Cannot connect to gateway")
	fmt.Println()
	fmt.Printf("  The gateway at %s is not responding.\n", CodeStyle.Render(addr))

	PrintSuggestions("Suggestions:", []string{
		"Start one locally: " + CodeStyle.Render("mailchat serve"),
		"Verify the gateway is running at the specified address",
		"Check your " + CodeStyle.Render("MAILCHAT_GATEWAY") + " environment variable",
	})
	fmt.Println()
}
