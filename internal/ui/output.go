package ui

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// PrintSuccess prints a success message.
func PrintSuccess(format string, args ...any) {
	successColor.Printf("✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message.
func PrintError(format string, args ...any) {
	errorColor.Printf("✗ %s\n", fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...any) {
	warningColor.Printf("⚠ %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an informational message.
func PrintInfo(format string, args ...any) {
	infoColor.Printf("ℹ %s\n", fmt.Sprintf(format, args...))
}

// PrintChatBanner prints the welcome banner for chat mode.
func PrintChatBanner(agentID string) {
	title := Styles.Title.Render("Agent Engine Chat: " + agentID)
	fmt.Println(Styles.Banner.Render(title))
}
