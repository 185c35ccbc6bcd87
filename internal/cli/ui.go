package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/salesmap/pkg/pipeline"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorGood   = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorBad    = lipgloss.Color("167") // soft red
	colorCmd    = lipgloss.Color("75")  // light blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleValue renders paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)

	// StyleNumber renders sales figures and counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGood)
	styleIconError   = lipgloss.NewStyle().Foreground(colorBad)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleFormat      = lipgloss.NewStyle().Foreground(colorMuted).Width(7)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleCached      = lipgloss.NewStyle().Foreground(colorGood)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printLine(s string) { fmt.Fprintln(stdout, s) }

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(StyleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	printLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	printLine(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	printLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// salesFigure formats a sales total in millions of units, as the dataset
// records them.
func salesFigure(v float64) string {
	return fmt.Sprintf("%.2fM", v)
}

// printSummary reports a finished render:
//
//	✓ Rendered 158.29M sales
//	  3 games · 2 platforms · output cached
func printSummary(stats pipeline.Stats, info pipeline.CacheInfo) {
	printSuccess("Rendered %s sales", StyleNumber.Render(salesFigure(stats.Total)))

	parts := []string{
		StyleDim.Render(plural(stats.LeafCount, "game", "games")),
		StyleDim.Render(plural(stats.GroupCount, "platform", "platforms")),
	}
	switch {
	case info.RenderHit:
		parts = append(parts, styleCached.Render("output cached"))
	case info.DatasetHit:
		parts = append(parts, styleCached.Render("dataset cached"))
	default:
		parts = append(parts, StyleDim.Render("fresh"))
	}
	printLine("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printArtifact lists one written file with its format.
func printArtifact(format, path string) {
	printLine("  " + StyleDim.Render(iconArrow) + " " + styleFormat.Render(format) + StyleValue.Render(path))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
