package styles

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

var (
	AdaptiveGray        = lipgloss.AdaptiveColor{Light: "#545454", Dark: "#989898"}
	AdaptiveGrayTwo     = lipgloss.AdaptiveColor{Light: "#858585", Dark: "#5f5f5f"}
	AdaptivePink        = lipgloss.AdaptiveColor{Light: "#9f008f", Dark: "#f943e3"}
	AdaptiveCyan        = lipgloss.AdaptiveColor{Light: "#006362", Dark: "#96ffec"}
	AdaptiveGreen       = lipgloss.AdaptiveColor{Light: "#41ab00", Dark: "#6cff11"}
	AdaptiveRed         = lipgloss.AdaptiveColor{Light: "#8f0000", Dark: "#be0000"}
	AdaptiveYellow      = lipgloss.AdaptiveColor{Light: "#7a6a00", Dark: "#e6d54a"}
	AdaptiveBorderColor = AdaptiveGray

	CursorStyle = lipgloss.NewStyle().Foreground(AdaptivePink)

	ConnectSymbolStyle      = lipgloss.NewStyle().Foreground(AdaptiveGreen)
	DisconnectedSymbolStyle = lipgloss.NewStyle().Foreground(AdaptiveRed)
	LineOnStyle             = lipgloss.NewStyle().Foreground(AdaptiveGreen)
	LineOffStyle            = lipgloss.NewStyle().Foreground(AdaptiveGrayTwo)
	WatchSymbolStyle        = lipgloss.NewStyle().Foreground(AdaptiveCyan)

	FocusedPlaceholderStyle = lipgloss.NewStyle().Foreground(AdaptiveGray)
	BorderStyle             = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(AdaptiveBorderColor)
	SelectedCmdStyle        = lipgloss.NewStyle().Foreground(AdaptivePink)
	SpinnerStyle            = lipgloss.NewStyle().Foreground(AdaptivePink)
	VpTxMsgStyle            = lipgloss.NewStyle().Foreground(AdaptivePink)
	ErrMsgStyle             = lipgloss.NewStyle().Foreground(AdaptiveRed)
	WarnMsgStyle            = lipgloss.NewStyle().Foreground(AdaptiveYellow)
	InfoMsgStyle            = lipgloss.NewStyle().Foreground(AdaptiveGray)
	FooterStyle             = lipgloss.NewStyle().Foreground(AdaptiveGray)
	FocusedPromtStyle       = lipgloss.NewStyle().Foreground(AdaptivePink)
	BlurredPromtStyle       = lipgloss.NewStyle().Foreground(AdaptiveGray)

	PopupBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).
				BorderForeground(AdaptiveCyan).Padding(0, 1)
	PopupTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AdaptiveCyan)

	HelpOverlayBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).
				BorderForeground(AdaptiveCyan).Padding(0, 1, 1)
	PercentRenderStyle     = lipgloss.NewStyle().Foreground(AdaptiveCyan)
	MsgLogStartRenderStyle = lipgloss.NewStyle().Foreground(AdaptiveGray)
)

// Adds a border with title to viewport and returns viewport string.
func AddBorder(vp viewport.Model, title string, footer string, ownFooterStyle bool) string {
	border := BorderStyle.GetBorderStyle()
	borderStyle := lipgloss.NewStyle().Foreground(AdaptiveBorderColor)

	var vpTitle string

	if title != "" {
		vpTitle = borderStyle.Render(border.Top + border.MiddleRight + " " + title + " " + border.MiddleLeft)
		// Remove title if width is too low
		if lipgloss.Width(vpTitle) > vp.Width {
			vpTitle = ""
		}
	}

	// Manually construct the top line of the border with the title inside.
	vpTitleBar := lipgloss.JoinHorizontal(
		lipgloss.Left,
		borderStyle.Render(border.TopLeft),
		vpTitle,
		borderStyle.
			Render(strings.Repeat(border.Top, max(0, vp.Width-lipgloss.
				Width(vpTitle)+BorderStyle.GetHorizontalPadding()))),
		borderStyle.Render(border.TopRight),
	)

	var vpFooter string

	if footer != "" {
		if ownFooterStyle {
			vpFooter = borderStyle.Render(border.MiddleRight) + " " + footer + " " +
				borderStyle.Render(border.MiddleLeft) + borderStyle.Render(border.Bottom)
		} else {
			vpFooter = borderStyle.Render(border.MiddleRight + " " + footer + " " +
				border.MiddleLeft + border.Bottom)
		}
		// Remove footer if width is too low
		if lipgloss.Width(vpFooter) > vp.Width {
			vpFooter = ""
		}
	}

	// Same construction for the bottom line with the footer inside.
	vpFooterBar := lipgloss.JoinHorizontal(
		lipgloss.Left,
		borderStyle.Render(border.BottomLeft),
		borderStyle.
			Render(strings.Repeat(border.Top, max(0, vp.Width-lipgloss.
				Width(vpFooter)+BorderStyle.GetHorizontalPadding()))),
		vpFooter,
		borderStyle.Render(border.BottomRight),
	)

	// Render the viewport content inside a box that has NO top and bottom border.
	vpBody := BorderStyle.BorderTop(false).BorderBottom(false).Render(vp.View())

	return lipgloss.JoinVertical(lipgloss.Left, vpTitleBar, vpBody, vpFooterBar)
}
