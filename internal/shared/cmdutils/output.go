// Package cmdutils holds console formatting shared by CLI commands.
package cmdutils

import (
	"fmt"
	"strings"

	"github.com/wwcxin/cyberbot-new/internal/shared/stringutils"
)

const Logo = "🤖"

// Mark renders a check result.
func Mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// Rule returns a horizontal rule n columns wide.
func Rule(n int) string { return strings.Repeat("-", n) }

// Cell truncates s to width runes for a table column.
func Cell(s string, width int) string {
	if width <= 3 {
		return s
	}
	return stringutils.Truncate(s, width-3)
}

// Banner prints the command heading.
func Banner(title string) {
	fmt.Printf("%s cyberbot %s\n\n", Logo, title)
}
