package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xaenox/bookdesk/internal/models"
	"github.com/xaenox/bookdesk/internal/state"
)

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.chat.BeginConversations()
		return m, m.fetchConversationsCmd(m.chat.UserID)

	case "ctrl+p", "ctrl+n":
		if len(m.chat.Conversations) == 0 {
			return m, nil
		}
		if msg.String() == "ctrl+p" {
			m.convCursor = (m.convCursor + len(m.chat.Conversations) - 1) % len(m.chat.Conversations)
		} else {
			m.convCursor = (m.convCursor + 1) % len(m.chat.Conversations)
		}
		id := m.chat.Conversations[m.convCursor].ID
		m.chat.SetCurrentConversation(id)
		m.chat.BeginMessages()
		m.refreshViewport()
		return m, m.fetchMessagesCmd(id)

	case "enter":
		text := strings.TrimSpace(m.textarea.Value())
		if text == "" || m.chat.Sending {
			return m, nil
		}
		payload := models.SendPayload{
			UserID:         m.chat.UserID,
			Message:        text,
			ConversationID: m.chat.CurrentConversationID,
		}
		m.chat.BeginSend()
		m.textarea.Reset()
		return m, m.sendMessageCmd(payload)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) viewChat() string {
	convs := m.renderConversations()
	right := m.viewport.View() + "\n" + m.textarea.View()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Pane.Width(convPaneWidth).Render(convs),
		" ",
		right,
	)
}

func (m Model) renderConversations() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Conversations") + "\n")
	if len(m.chat.Conversations) == 0 {
		b.WriteString(m.styles.Muted.Render("none yet — just start typing") + "\n")
	}
	for i, c := range m.chat.Conversations {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		line := clip(title, convPaneWidth-4)
		if c.ID == m.chat.CurrentConversationID {
			line = m.styles.Selected.Render(line)
		} else if i == m.convCursor {
			line = m.styles.Header.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// refreshViewport re-renders the active conversation into the viewport and
// scrolls to the latest message.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m *Model) renderHistory() string {
	msgs := m.chat.CurrentMessages()
	if len(msgs) == 0 {
		return m.styles.Muted.Render("no messages")
	}

	var b strings.Builder
	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(m.styles.UserLabel.Render("You") + "\n")
			b.WriteString(msg.Content + "\n\n")
		case models.RoleSystem:
			b.WriteString(m.styles.Muted.Render("system: "+msg.Content) + "\n\n")
		default:
			b.WriteString(m.styles.AssistantLabel.Render("Assistant") + "\n")
			b.WriteString(m.renderMarkdown(msg.Content) + "\n")
		}
	}
	return b.String()
}

// renderMarkdown renders assistant content with glamour, falling back to the
// raw text when the renderer is unavailable or chokes on the input.
func (m *Model) renderMarkdown(content string) (out string) {
	if m.renderer == nil {
		return content + "\n"
	}
	defer func() {
		if r := recover(); r != nil {
			out = content + "\n"
		}
	}()
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func (m *Model) sendMessageCmd(p models.SendPayload) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return state.SendMessage(context.Background(), client, p)
	}
}
