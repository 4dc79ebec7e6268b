package browse

import "github.com/charmbracelet/lipgloss"

// MinLeftWidth is the minimum character width for the left pane.
const MinLeftWidth = 32

// mutedText dims secondary content such as phone numbers in the list.
var mutedText = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

// labelText styles the field labels in the detail pane.
var labelText = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}).
	Bold(true)

// errorText styles error lines in the status bar.
var errorText = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// PaneWidths calculates the left and right pane widths from a total width.
// Left pane gets half (minimum MinLeftWidth), right pane gets the rest.
func PaneWidths(totalWidth int) (left, right int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	left = totalWidth / 2
	if left < MinLeftWidth {
		left = MinLeftWidth
	}
	right = totalWidth - left
	if right < 0 {
		right = 0
	}
	return left, right
}
