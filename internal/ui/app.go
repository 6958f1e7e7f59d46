// Package ui is the bubbletea presentation layer. It reads derived views
// from the state containers and dispatches their operations as commands; it
// never mutates state except through Begin/Apply.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/xaenox/bookdesk/internal/api"
	"github.com/xaenox/bookdesk/internal/state"
	"go.uber.org/zap"
)

type tab int

const (
	tabBooks tab = iota
	tabChat
)

const convPaneWidth = 30

// Model is the root bubbletea model: two tabs over the two state modules.
type Model struct {
	client *api.Client
	logger *zap.Logger
	styles Styles

	books *state.BooksState
	chat  *state.ChatState

	tab    tab
	width  int
	height int
	ready  bool

	// catalog tab
	cursor int
	form   *bookForm

	// chat tab
	convCursor int
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer
}

func New(client *api.Client, userID int64, logger *zap.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message and press enter..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:   client,
		logger:   logger,
		styles:   DefaultStyles(),
		books:    &state.BooksState{},
		chat:     state.NewChatState(userID),
		textarea: ta,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	m.books.BeginFetch()
	m.chat.BeginConversations()
	return tea.Batch(
		m.fetchBooksCmd(),
		m.fetchConversationsCmd(m.chat.UserID),
		m.spinner.Tick,
		textarea.Blink,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case state.BooksFetched, state.BookCreated, state.BookUpdated, state.BookDeleted:
		m.books.Apply(msg)
		if m.cursor >= len(m.books.Items) && m.cursor > 0 {
			m.cursor = len(m.books.Items) - 1
		}
		return m, nil

	case state.ConversationsFetched:
		m.chat.Apply(msg)
		if m.convCursor >= len(m.chat.Conversations) {
			m.convCursor = 0
		}
		return m, nil

	case state.MessagesFetched:
		m.chat.Apply(msg)
		m.refreshViewport()
		return m, nil

	case state.MessageSent:
		m.chat.Apply(msg)
		m.syncConvCursor()
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			if m.tab == tabBooks {
				m.tab = tabChat
			} else {
				m.tab = tabBooks
			}
			return m, nil
		}
		if m.tab == tabBooks {
			return m.updateBooks(msg)
		}
		return m.updateChat(msg)
	}

	if m.tab == tabChat {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs() + "\n\n")

	if m.tab == tabBooks {
		b.WriteString(m.viewBooks())
	} else {
		b.WriteString(m.viewChat())
	}

	b.WriteString("\n" + m.renderFooter())
	return b.String()
}

func (m Model) renderTabs() string {
	books := m.styles.TabInactive.Render("Catalog")
	chat := m.styles.TabInactive.Render("Chat")
	if m.tab == tabBooks {
		books = m.styles.TabActive.Render("Catalog")
	} else {
		chat = m.styles.TabActive.Render("Chat")
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, books, chat)
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.tab == tabBooks && m.books.Err != "":
		status = m.styles.Error.Render(m.books.Err)
	case m.tab == tabChat && m.chat.Err != "":
		status = m.styles.Error.Render(m.chat.Err)
	case m.books.Loading || m.chat.Busy():
		status = m.spinner.View() + m.styles.Muted.Render(" working...")
	}

	var help string
	if m.tab == tabBooks {
		help = "n new · e edit · d delete · r refresh · ctrl+t chat · q quit"
	} else {
		help = "enter send · ctrl+p/ctrl+n switch conversation · ctrl+r refresh · ctrl+t catalog"
	}
	return status + "\n" + m.styles.Muted.Render(help)
}

// layout recomputes component sizes after a terminal resize.
func (m *Model) layout() {
	chatWidth := m.width - convPaneWidth - 6
	if chatWidth < 20 {
		chatWidth = 20
	}
	chatHeight := m.height - 12
	if chatHeight < 5 {
		chatHeight = 5
	}
	m.viewport = viewport.New(chatWidth, chatHeight)
	m.textarea.SetWidth(chatWidth)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-2),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
		renderer = nil
	}
	m.renderer = renderer
}

// syncConvCursor points the conversation cursor at the current conversation
// after a send possibly prepended a new one.
func (m *Model) syncConvCursor() {
	for i, c := range m.chat.Conversations {
		if c.ID == m.chat.CurrentConversationID {
			m.convCursor = i
			return
		}
	}
}

func (m *Model) fetchBooksCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return state.FetchBooks(context.Background(), client)
	}
}

func (m *Model) fetchConversationsCmd(userID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return state.FetchConversations(context.Background(), client, userID)
	}
}

func (m *Model) fetchMessagesCmd(conversationID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return state.FetchMessages(context.Background(), client, conversationID)
	}
}
