package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette - professional, subtle colors inspired by modern CLIs
var (
	ColorPrimary = lipgloss.Color("#0EA5E9") // Sky blue - brand color
	ColorSuccess = lipgloss.Color("#22C55E") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorSubtle  = lipgloss.Color("#6B7280") // Gray
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Symbols for consistent visual language
const (
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolBullet  = "•"
)

// Text styles
var (
	// Brand
	BrandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Text variations
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	// Key-value styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(12)

	// Code/path style
	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Hint style for suggestions
	HintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)
