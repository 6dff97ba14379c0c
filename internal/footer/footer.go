package footer

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/teaflash/teaflash/internal/styles"
)

const (
	StatusDisconnected = iota
	StatusConnecting
	StatusConnected
)

// Model renders the one-line status footer: connection state, device
// name, DTR/CTS line indicators, watched file and key hints.
type Model struct {
	width int
}

func New() Model {
	return Model{}
}

func (m *Model) SetWidth(w int) {
	m.width = w
}

func (m Model) View(device string, status int, dtr, cts bool, watch string, sp spinner.Model) string {
	var connectionSymbol string

	switch status {
	case StatusConnected:
		connectionSymbol = fmt.Sprintf(" %s ", styles.ConnectSymbolStyle.Render("●"))
	case StatusConnecting:
		connectionSymbol = fmt.Sprintf(" %s", sp.View())
	default:
		connectionSymbol = fmt.Sprintf(" %s ", styles.DisconnectedSymbolStyle.Render("●"))
	}
	connectionSymbol = zone.Mark("consymbol", connectionSymbol)

	name := device
	if name == "" {
		name = "no device"
	}

	lines := " " + lineDot("DTR", dtr) + " " + lineDot("CTS", cts)

	var watching string
	if watch != "" {
		watching = styles.WatchSymbolStyle.Render(" ⟳ "+filepath.Base(watch)) + " "
	}

	helpText := " | ctrl+f: device · ctrl+u: flash · ctrl+o: help"

	return lipgloss.NewStyle().MaxWidth(m.width).Render(
		connectionSymbol +
			styles.FooterStyle.Render(name) +
			lines +
			watching +
			styles.FooterStyle.Render(helpText))
}

func lineDot(label string, on bool) string {
	if on {
		return styles.LineOnStyle.Render("●") + styles.FooterStyle.Render(label)
	}
	return styles.LineOffStyle.Render("○") + styles.FooterStyle.Render(label)
}
