package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alfredjeanlab/dsm/internal/ui"
	"github.com/spf13/cobra"
)

// Patterns used to colorize Cobra's default help output.
var (
	// Section headers: unindented line ending with ":" (e.g. "Flags:").
	reGroupHeader = regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`)

	// Flag names at the start of a flag line, e.g. "  -c, --context".
	reFlagName = regexp.MustCompile(`(?m)^(\s+)((?:-\w, )?--[\w-]+)`)

	// Flag type annotations: e.g. "--context string", "--timeout duration".
	reFlagType = regexp.MustCompile(`(--?\S+\s+)(string|duration)\b`)

	// (default "foo") annotations.
	reDefault = regexp.MustCompile(`\(default "[^"]*"\)`)
)

// colorizedHelpFunc returns a Cobra help function that post-processes the
// default help text with ANSI colors when the terminal supports it.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		var buf bytes.Buffer
		if cmd.Long != "" {
			fmt.Fprintln(&buf, strings.TrimSpace(cmd.Long))
			fmt.Fprintln(&buf)
		}
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)

		if !ui.ShouldUseColor() {
			fmt.Fprint(out, buf.String())
			return
		}
		fmt.Fprint(out, colorizeHelpOutput(buf.String()))
	}
}

// colorizeHelpOutput applies ANSI styling to Cobra's plain-text help.
func colorizeHelpOutput(s string) string {
	s = reGroupHeader.ReplaceAllStringFunc(s, func(match string) string {
		return ui.RenderAccent(strings.TrimSpace(match))
	})

	s = reFlagName.ReplaceAllStringFunc(s, func(match string) string {
		parts := reFlagName.FindStringSubmatch(match)
		if len(parts) == 3 {
			return parts[1] + ui.RenderCommand(parts[2])
		}
		return match
	})

	s = reFlagType.ReplaceAllStringFunc(s, func(match string) string {
		parts := reFlagType.FindStringSubmatch(match)
		if len(parts) == 3 {
			return parts[1] + ui.RenderMuted(parts[2])
		}
		return match
	})

	return reDefault.ReplaceAllStringFunc(s, ui.RenderMuted)
}
