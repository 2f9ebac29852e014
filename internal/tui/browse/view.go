package browse

import (
	"fmt"
	"strings"

	"github.com/driftdeck/driftdeck/internal/tui"
)

// Render renders the outcome of a flow run.
func Render(result *Result) (string, error) {
	var b strings.Builder

	b.WriteString(tui.RenderHeader())
	b.WriteString("\n\n")

	if result.Notice != "" {
		b.WriteString(tui.WarningStyle.Render(result.Notice))
		b.WriteString("\n")
		return b.String(), nil
	}

	body, err := result.Document.MarshalIndent()
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	b.WriteString(tui.HeaderStyle.Render(fmt.Sprintf("Report: %s", result.Report)))
	b.WriteString("\n")
	b.WriteString(tui.SubtleStyle.Render(fmt.Sprintf("Project: %s", result.Project)))
	b.WriteString("\n\n")
	b.Write(body)
	b.WriteString("\n")

	return b.String(), nil
}
