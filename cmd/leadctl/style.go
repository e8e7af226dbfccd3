package main

import (
	"fmt"
	"strings"

	"leadgenius_backend/internal/leads/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	hotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	coldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func statusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusHot:
		return hotStyle
	case domain.StatusWarm:
		return warmStyle
	default:
		return coldStyle
	}
}

// summaryLine renders "HOT  82/100  (probability 0.82, bank)".
func summaryLine(res domain.ScoringResult) string {
	label := statusStyle(res.Status).Render(fmt.Sprintf("%-4s", strings.ToUpper(string(res.Status))))
	detail := dimStyle.Render(fmt.Sprintf("(probability %.2f, %s)", res.Probability, res.DatasetType))
	line := fmt.Sprintf("%s %3d/100  %s", label, res.Score, detail)
	if res.Error != "" {
		line += "\n" + dimStyle.Render("fallback: "+res.Error)
	}
	return line
}
