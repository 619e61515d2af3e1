package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - swapped links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleExtended = lipgloss.NewStyle().Foreground(colorBlue)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconWarning  = "!"
	iconInfo     = "›"
	iconArrow    = "→"
	iconExtended = "swapped"
	iconFresh    = "heralded"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Session Display
// =============================================================================

// printResult prints one session or hop on a single status line followed by
// a dim detail line.
func printResult(r entanglement.Result) {
	link := fmt.Sprintf("%s <-> %s", r.NodeA, r.NodeB)
	if r.Metadata.Extended {
		link = fmt.Sprintf("%s (hop %d)", link, r.Metadata.Hop)
	}
	if r.Success {
		printSuccess("%s  %s  F=%s", StyleValue.Render(link), StyleHighlight.Render(string(r.BellState)),
			StyleNumber.Render(fmt.Sprintf("%.4f", r.Fidelity)))
	} else {
		printError("%s  not entangled", StyleValue.Render(link))
	}

	parts := []string{
		fmt.Sprintf("%d attempts", r.Attempts),
		fmt.Sprintf("%.3fms", r.TotalTimeMS()),
	}
	if r.Metadata.DDSequence != "" {
		parts = append(parts, fmt.Sprintf("%s×%d", r.Metadata.DDSequence, r.Metadata.DDPulses))
	}
	switch {
	case r.Metadata.Extended:
		parts = append(parts, styleExtended.Render(iconExtended))
	case r.Success:
		parts = append(parts, styleComputed.Render(iconFresh))
	}

	line := "  " + StyleDim.Render(r.ID)
	for _, part := range parts {
		line += StyleDim.Render(" · ") + StyleDim.Render(part)
	}
	fmt.Println(line)
}

// printSessionStats prints aggregate statistics as key-value lines.
func printSessionStats(s entanglement.Stats) {
	printKeyValue("Attempts", fmt.Sprintf("%d", s.TotalAttempts))
	printKeyValue("Entangled", fmt.Sprintf("%d", s.SuccessfulEntanglements))
	printKeyValue("Rate", fmt.Sprintf("%.1f%% per attempt", 100*s.SuccessRate))
	printKeyValue("Fidelity", fmt.Sprintf("%.4f avg", s.AverageFidelity))
	printKeyValue("Per session", fmt.Sprintf("%.2f attempts", s.AverageAttempts))
	if s.DDSequence != "" {
		printKeyValue("DD", string(s.DDSequence))
	}
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
