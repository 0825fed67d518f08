package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	stepCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true)

	stepTodoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// StepBar renders the position of the current stage among all stages,
// e.g. "Step 3/8  ●●◉○○○○○".
func StepBar(current, total int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Step %d/%d  ", current, total))
	for i := 1; i <= total; i++ {
		switch {
		case i < current:
			sb.WriteString(stepDoneStyle.Render("●"))
		case i == current:
			sb.WriteString(stepCurrentStyle.Render("◉"))
		default:
			sb.WriteString(stepTodoStyle.Render("○"))
		}
	}
	return sb.String()
}
