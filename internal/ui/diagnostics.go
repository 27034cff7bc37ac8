package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nutmunch/internal/logtail"
)

const diagMaxLines = 400

type diagState struct {
	viewport viewport.Model
	lines    []string
	err      error
}

type logLinesMsg struct {
	lines []string
	err   error
}

func (m Model) refreshLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, diagMaxLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// updateDiagViewport re-renders the log lines into the viewport, keeping the
// bottom in view unless the user scrolled up.
func (m *Model) updateDiagViewport() {
	if !m.ready {
		return
	}
	atBottom := m.diag.viewport.AtBottom() || m.diag.viewport.TotalLineCount() == 0
	m.diag.viewport.Width = m.width
	m.diag.viewport.Height = max(1, m.contentHeight()-1)

	rendered := make([]string, 0, len(m.diag.lines))
	for _, line := range m.diag.lines {
		rendered = append(rendered, m.renderLogLine(logtail.Parse(line)))
	}
	m.diag.viewport.SetContent(strings.Join(rendered, "\n"))
	if atBottom {
		m.diag.viewport.GotoBottom()
	}
}

func (m Model) renderLogLine(e logtail.Entry) string {
	styles := m.theme.Styles()
	if e.Raw != "" {
		return styles.MutedText.Render(truncate(e.Raw, m.width))
	}

	level := styles.InfoText
	switch e.Level {
	case "WARN":
		level = styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		level = styles.DangerText
	case "DEBUG":
		level = styles.FaintText
	}

	var b strings.Builder
	if e.Time != "" {
		b.WriteString(styles.FaintText.Render(e.Time) + " ")
	}
	b.WriteString(level.Render(pad(e.Level, 5)) + " ")
	if e.Logger != "" {
		b.WriteString(styles.AccentText.Render(e.Logger) + " ")
	}
	b.WriteString(styles.Text.Render(e.Message))
	if len(e.Fields) > 0 {
		b.WriteString(" " + styles.MutedText.Render(strings.Join(e.Fields, " ")))
	}
	return b.String()
}

func (m Model) handleDiagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshLogsCmd()
	case key.Matches(msg, m.keys.Top):
		m.diag.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.diag.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.diag.viewport, cmd = m.diag.viewport.Update(msg)
	return m, cmd
}

// renderDiagnostics renders the client log tail.
func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()

	var title string
	switch {
	case m.logPath == "":
		return styles.MutedText.Render(" Logging to the terminal; set output under [log] in the config to a file to see it here.")
	case m.diag.err != nil:
		title = styles.DangerText.Render(" Could not read " + m.logPath + ": " + m.diag.err.Error())
	case len(m.diag.lines) == 0:
		return styles.MutedText.Render(" " + m.logPath + " is empty.")
	default:
		title = styles.FaintText.Render(" " + m.logPath)
	}
	return title + "\n" + m.diag.viewport.View()
}
