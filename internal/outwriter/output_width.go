package outwriter

import (
	"os"
	"unicode/utf8"

	"github.com/huangsam/dealflow/internal/contract"
	"golang.org/x/term"
)

// getMaxTableNameWidth calculates the maximum width for deal names in table output
// based on terminal width and the width of the fixed columns.
func getMaxTableNameWidth(cfg *contract.Config, fixedColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedColumns - 10
	if available < 15 {
		return 15
	}
	if available > 80 {
		return 80
	}
	return available
}

// truncateName shortens s to at most maxWidth runes, marking the cut with an ellipsis.
func truncateName(s string, maxWidth int) string {
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return string([]rune(s)[:maxWidth])
	}
	return string([]rune(s)[:maxWidth-3]) + "..."
}
