package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func lightBlue() lipgloss.Color {
	return lipgloss.Color("#87CEEB")
}

func darkBlue() lipgloss.Color {
	return lipgloss.Color("#4682B4")
}

func sentimentColor(sentiment string) lipgloss.Color {
	switch sentiment {
	case "Warning":
		return lipgloss.Color("1")
	case "Rumor":
		return lipgloss.Color("3")
	default:
		return lipgloss.Color("7")
	}
}
