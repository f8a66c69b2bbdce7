package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	session "github.com/koscakluka/parley-core/core"
	"github.com/muesli/reflow/wordwrap"
)

type timelineMsg []session.TimelineEntry

type composerMsg struct {
	draft   string
	preview string
}

type statusMsg session.Status

type sessionEndedMsg struct{ reason string }

type captureErrorMsg struct{ err error }

var (
	senderStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	ownStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	noticeStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
	translatedStyle = lipgloss.NewStyle().Faint(true)
	previewStyle    = lipgloss.NewStyle().Faint(true)
	clipStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	statusStyles = map[session.Status]lipgloss.Style{
		session.StatusOnline:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		session.StatusDisconnected: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		session.StatusTranscribing: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		session.StatusComplete:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}

	statusLabels = map[session.Status]string{
		session.StatusOnline:       "Online",
		session.StatusDisconnected: "Disconnected",
		session.StatusTranscribing: "Transcribing...",
		session.StatusComplete:     "Complete",
	}
)

type model struct {
	session *session.Session

	viewport viewport.Model
	input    textarea.Model

	entries []session.TimelineEntry
	preview string
	status  session.Status
	notice  string

	width  int
	height int
	ready  bool
	ended  bool
}

func newModel(s *session.Session) model {
	input := textarea.New()
	input.Placeholder = "Speak or type a message..."
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	return model{
		session: s,
		input:   input,
		status:  s.Status(),
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputHeight := m.input.Height() + 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-inputHeight-2)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - inputHeight - 2
		}
		m.input.SetWidth(msg.Width)
		m.refreshTimeline()
		return m, nil

	case tea.KeyMsg:
		m.session.Activity(session.ActivityKey)
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.session.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			m.session.SetDraft(strings.TrimSpace(m.input.Value()))
			m.session.SendComposedText()
			return m, nil
		case tea.KeyCtrlR:
			if m.session.IsRecording() {
				if err := m.session.StopRecording(); err != nil {
					m.notice = fmt.Sprintf("failed to stop recording: %v", err)
				}
			} else {
				if err := m.session.StartRecording(); err != nil {
					m.notice = fmt.Sprintf("failed to start recording: %v", err)
				}
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		// Typing is a manual edit; it wins over any pending preview.
		m.session.SetDraft(m.input.Value())
		return m, cmd

	case tea.MouseMsg:
		switch msg.Action {
		case tea.MouseActionPress:
			m.session.Activity(session.ActivityClick)
		case tea.MouseActionMotion:
			m.session.Activity(session.ActivityPointer)
		default:
			m.session.Activity(session.ActivityScroll)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case timelineMsg:
		m.entries = msg
		m.refreshTimeline()
		return m, nil

	case composerMsg:
		if m.input.Value() != msg.draft {
			m.input.SetValue(msg.draft)
			m.input.CursorEnd()
		}
		m.preview = msg.preview
		return m, nil

	case statusMsg:
		m.status = session.Status(msg)
		return m, nil

	case captureErrorMsg:
		m.notice = fmt.Sprintf("capture error: %v", msg.err)
		return m, nil

	case sessionEndedMsg:
		m.notice = msg.reason
		m.ended = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refreshTimeline() {
	if !m.ready {
		return
	}

	var b strings.Builder
	ownID := m.session.Identity().UserID
	for _, entry := range m.entries {
		if entry.System {
			b.WriteString(noticeStyle.Render(entry.Text))
			b.WriteString("\n")
			continue
		}

		style := senderStyle
		name := entry.Sender
		if entry.Sender == ownID {
			style = ownStyle
			name = "You"
		}

		b.WriteString(style.Render(name))
		if entry.AudioArtifact != "" {
			b.WriteString(" " + clipStyle.Render("[voice]"))
		}
		b.WriteString("\n")
		b.WriteString(entry.Text)
		if entry.Translated != "" && entry.Translated != entry.Text {
			b.WriteString("\n" + translatedStyle.Render(entry.Translated))
		}
		b.WriteString("\n\n")
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(wordwrap.String(b.String(), m.viewport.Width))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	statusLine := m.statusLine()

	composer := m.input.View()
	if m.preview != "" {
		composer += "\n" + previewStyle.Render(m.preview)
	}

	return statusLine + "\n" + m.viewport.View() + "\n" + composer
}

func (m model) statusLine() string {
	style, ok := statusStyles[m.status]
	if !ok {
		style = lipgloss.NewStyle()
	}
	label, ok := statusLabels[m.status]
	if !ok {
		label = string(m.status)
	}

	line := style.Render("● " + label)
	if m.session.IsRecording() {
		line += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("● REC")
	}
	if m.notice != "" {
		line += "  " + noticeStyle.Render(m.notice)
	}
	return line
}
