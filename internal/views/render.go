package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData carries everything the root View needs for one frame.
type AppData struct {
	Header      string
	LeftPane    string
	RightPane   string
	StatusLine  string
	StatusIsErr bool
	Toast       string
	Footer      string
}

// The left pane holds the active view, the narrower right pane holds
// the palette and help.
const (
	leftPaneWidth  = 62
	rightPaneWidth = 46
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	toastStyle  = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1).Foreground(lipgloss.Color("214"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// RenderApp lays out a frame: header, the two panes side by side, then
// status line, optional toast, and the key footer.
func RenderApp(data AppData) string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(leftPaneWidth).Render(data.LeftPane),
		paneStyle.Width(rightPaneWidth).Render(data.RightPane),
	)

	out := make([]string, 0, 5)
	out = append(out, headerStyle.Render(data.Header), panes)
	if data.StatusLine != "" {
		if data.StatusIsErr {
			out = append(out, errStyle.Render(data.StatusLine))
		} else {
			out = append(out, okStyle.Render(data.StatusLine))
		}
	}
	if data.Toast != "" {
		out = append(out, toastStyle.Render(data.Toast))
	}
	if data.Footer != "" {
		out = append(out, footerStyle.Render(data.Footer))
	}
	return strings.Join(out, "\n")
}

// RenderMarkdown renders help text wrapped to the right pane. Falls
// back to the raw markdown if the renderer cannot be built.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(rightPaneWidth-4),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
