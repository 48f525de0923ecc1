package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// renderSummary formats the post-run report: counts first, then every
// collected diagnostic grouped by category.
func renderSummary(report *domain.Report, outPath string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", okStyle.Render("Wrote"), outPath)
	fmt.Fprintf(&b, "  %d file(s) scanned • %d def(s) • %d patch(es)\n",
		report.FilesScanned, report.DefCount, report.PatchCount)

	if !report.HasProblems() {
		return b.String()
	}

	writeGroup := func(style lipgloss.Style, title string, diags []domain.Diagnostic) {
		if len(diags) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s\n", style.Render(fmt.Sprintf("%s (%d):", title, len(diags))))
		for _, d := range diags {
			fmt.Fprintf(&b, "  %s %s\n", d.FilePath, faintStyle.Render(d.Message))
		}
	}

	writeGroup(errStyle, "Unreadable roots", report.RootErrors)
	writeGroup(errStyle, "Parse errors", report.ParseErrors)
	writeGroup(warnStyle, "Duplicate defNames", report.DuplicateWarnings)

	return b.String()
}
