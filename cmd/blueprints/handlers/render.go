package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/blueprints/internal/provisioning"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// renderSummary produces a lipgloss-styled deployment summary.
func renderSummary(s *provisioning.Summary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  blueprint %s", s.Name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %-12s %s\n", "Deployment", s.DeploymentID)
	if s.Version != "" {
		fmt.Fprintf(&b, "  %-12s %s\n", "Version", s.Version)
	}
	if s.ServerVersion != "" {
		fmt.Fprintf(&b, "  %-12s %s\n", "Server", s.ServerVersion)
	}
	if s.Endpoint != "" {
		fmt.Fprintf(&b, "  %-12s %s\n", "Endpoint", s.Endpoint)
	}
	if s.Network != nil {
		fmt.Fprintf(&b, "  %-12s %s\n", "Network", s.Network)
	}
	fmt.Fprintf(&b, "  %-12s %s\n", "Duration", s.Duration.Round(time.Millisecond))

	if len(s.AddOns) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Add-ons"))
		b.WriteString("\n")
		for _, a := range s.AddOns {
			fmt.Fprintf(&b, "    %s %s\n", okStyle.Render("✓"), a.ID)
		}
	}
	for _, id := range s.FailedAddOns {
		fmt.Fprintf(&b, "    %s %s\n", failStyle.Render("✗"), id)
	}

	if len(s.Teams) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Teams"))
		b.WriteString("\n")
		for _, team := range s.Teams {
			fmt.Fprintf(&b, "    %s %s\n", okStyle.Render("✓"), team)
		}
	}

	b.WriteString("\n")
	if s.Succeeded() {
		b.WriteString(okStyle.Render("  Deployment succeeded"))
	} else {
		phase := s.FailedPhase
		if phase == "" {
			phase = "unknown"
		}
		b.WriteString(failStyle.Render(fmt.Sprintf("  Deployment failed in phase %s", phase)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + s.Error))
	}
	b.WriteString("\n")

	return b.String()
}
