package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"planforge/internal/scaffold"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func renderReport(res *scaffold.Result) string {
	var sections []string
	if res.OK() {
		sections = append(sections, titleStyle.Render("Project structure successfully generated"))
	} else {
		sections = append(sections, warnStyle.Render("Project structure generated with errors"))
	}
	sections = append(sections, dimStyle.Render(fmt.Sprintf("%s → %s", res.ProjectName, res.Root)))

	if res.Layout != nil {
		sections = append(sections, boxStyle.Render(strings.TrimRight(scaffold.RenderLayout(filepath.Base(res.Root), res.Layout), "\n")))
	}

	counts := fmt.Sprintf("%d dirs created · %d files written · %d placeholders",
		len(res.Created), len(res.Written), len(res.Placeholders))
	sections = append(sections, counts)

	if len(res.Removed) > 0 {
		sections = append(sections, dimStyle.Render("removed duplicates: "+strings.Join(res.Removed, ", ")))
	}
	for _, s := range res.Skipped {
		line := fmt.Sprintf("skipped %s: %s (%s)", s.Source, s.Text, s.Reason)
		if s.Line > 0 {
			line = fmt.Sprintf("skipped %s line %d: %s (%s)", s.Source, s.Line, s.Text, s.Reason)
		}
		sections = append(sections, dimStyle.Render(line))
	}
	for _, a := range res.Anomalies {
		sections = append(sections, warnStyle.Render(fmt.Sprintf("%s %s %s: %s", a.Phase, a.Op, a.Path, a.Err)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
