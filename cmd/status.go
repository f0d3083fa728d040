// File: cmd/status.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	statusTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	statusHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	blockedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	allowedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	unknownStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusBoxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// renderStatus builds the category status table. With a non-nil after map the
// table shows a before/after pair and marks changed rows; otherwise a single
// state column is shown.
func renderStatus(catalog []string, before, after map[string]bool) string {
	nameWidth := len("Category")
	for _, name := range catalog {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
	}

	var b strings.Builder
	if after == nil {
		b.WriteString(statusHeaderStyle.Render(fmt.Sprintf("%-*s  %-8s", nameWidth, "Category", "State")))
	} else {
		b.WriteString(statusHeaderStyle.Render(fmt.Sprintf("%-*s  %-8s  %-8s", nameWidth, "Category", "Before", "After")))
	}

	for _, name := range catalog {
		b.WriteByte('\n')
		if after == nil {
			b.WriteString(fmt.Sprintf("%-*s  %s", nameWidth, name, stateCell(before, name)))
			continue
		}
		row := fmt.Sprintf("%-*s  %s  %s", nameWidth, name, stateCell(before, name), stateCell(after, name))
		prev, prevKnown := before[name]
		next, nextKnown := after[name]
		if prevKnown && nextKnown && prev != next {
			row += "  *"
		}
		b.WriteString(row)
	}
	return statusBoxStyle.Render(b.String())
}

// stateCell renders one Blocked/Allowed cell, padded before styling so the
// ANSI escape codes do not skew column alignment.
func stateCell(states map[string]bool, name string) string {
	blocked, known := states[name]
	switch {
	case !known:
		return unknownStyle.Render(fmt.Sprintf("%-8s", "Unknown"))
	case blocked:
		return blockedStyle.Render(fmt.Sprintf("%-8s", "Blocked"))
	default:
		return allowedStyle.Render(fmt.Sprintf("%-8s", "Allowed"))
	}
}

// printStatus writes the status table to the command's stdout.
func printStatus(cmd *cobra.Command, catalog []string, before, after map[string]bool) {
	title := "Category status"
	if after != nil {
		title = "Category status (before / after)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), statusTitleStyle.Render(title))
	fmt.Fprintln(cmd.OutOrStdout(), renderStatus(catalog, before, after))
}
