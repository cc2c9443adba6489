// Package format renders operator-facing console output.
package format

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Console colors
var (
	ErrorColor   = color.New(color.FgHiRed)
	WarningColor = color.New(color.FgHiYellow)
	SuccessColor = color.New(color.FgHiGreen)
	InfoColor    = color.New(color.FgHiBlue)
	HeadingColor = color.New(color.FgHiWhite, color.Bold)
)

// Status symbols
const (
	SuccessSymbol = "✅"
	WarningSymbol = "⚠️ "
	ErrorSymbol   = "❌"
	InfoSymbol    = "ℹ️ "
)

// DividerWidth is the widest divider printed.
const DividerWidth = 60

func init() {
	if _, ok := os.LookupEnv("ULTRANODE_NO_COLOR"); ok {
		EnableColor(false)
	}
	if _, ok := os.LookupEnv("ULTRANODE_FORCE_COLOR"); ok {
		EnableColor(true)
	}
}

// EnableColor turns colored output on or off globally.
func EnableColor(enable bool) {
	color.NoColor = !enable
	if enable {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

// IsColorEnabled reports whether colored output is on.
func IsColorEnabled() bool {
	return !color.NoColor
}

// Success formats a message with the success symbol in green.
func Success(format string, a ...interface{}) string {
	return SuccessColor.Sprintf("%s %s", SuccessSymbol, fmt.Sprintf(format, a...))
}

// Warning formats a message with the warning symbol in yellow.
func Warning(format string, a ...interface{}) string {
	return WarningColor.Sprintf("%s %s", WarningSymbol, fmt.Sprintf(format, a...))
}

// Error formats a message with the error symbol in red.
func Error(format string, a ...interface{}) string {
	return ErrorColor.Sprintf("%s %s", ErrorSymbol, fmt.Sprintf(format, a...))
}

// Info formats a message with the info symbol in blue.
func Info(format string, a ...interface{}) string {
	return InfoColor.Sprintf("%s %s", InfoSymbol, fmt.Sprintf(format, a...))
}

// Header formats a bold heading.
func Header(format string, a ...interface{}) string {
	return HeadingColor.Sprintf(format, a...)
}

// TerminalWidth returns the width of stdout, or DividerWidth when it is not
// a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DividerWidth
	}
	return width
}

// Divider repeats ch across the terminal, capped at DividerWidth.
func Divider(ch string) string {
	width := TerminalWidth()
	if width > DividerWidth {
		width = DividerWidth
	}
	return strings.Repeat(ch, width)
}
