package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xaenox/bookdesk/internal/models"
	"github.com/xaenox/bookdesk/internal/state"
)

const (
	fieldTitle = iota
	fieldYear
	fieldISBN
	fieldAuthorID
	fieldCopies
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Publication year", "ISBN", "Author id", "Available copies"}

// bookForm collects input for a create (id zero) or an update.
type bookForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	id     int64
	errMsg string
}

func newBookForm(book *models.Book) *bookForm {
	f := &bookForm{}
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 120
		in.Width = 40
		f.inputs[i] = in
	}
	if book != nil {
		f.id = book.ID
		f.inputs[fieldTitle].SetValue(book.Title)
		f.inputs[fieldYear].SetValue(strconv.Itoa(book.PublicationYear))
		f.inputs[fieldISBN].SetValue(book.ISBN)
		f.inputs[fieldAuthorID].SetValue(strconv.FormatInt(book.AuthorID, 10))
		f.inputs[fieldCopies].SetValue(strconv.Itoa(book.AvailableCopies))
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f *bookForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// draft validates the form and builds the create payload.
func (f *bookForm) draft() (models.BookDraft, error) {
	year, err := atoiField(f.inputs[fieldYear].Value(), "publication_year")
	if err != nil {
		return models.BookDraft{}, err
	}
	authorID, err := atoiField(f.inputs[fieldAuthorID].Value(), "author_id")
	if err != nil {
		return models.BookDraft{}, err
	}
	copies, err := atoiField(f.inputs[fieldCopies].Value(), "available_copies")
	if err != nil {
		return models.BookDraft{}, err
	}
	draft := models.BookDraft{
		Title:           strings.TrimSpace(f.inputs[fieldTitle].Value()),
		PublicationYear: year,
		ISBN:            strings.TrimSpace(f.inputs[fieldISBN].Value()),
		AuthorID:        int64(authorID),
		AvailableCopies: copies,
	}
	if err := draft.Validate(); err != nil {
		return models.BookDraft{}, err
	}
	return draft, nil
}

func atoiField(s, name string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

func (m Model) updateBooks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateBookForm(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.books.Items)-1 {
			m.cursor++
		}
	case "r":
		m.books.BeginFetch()
		return m, m.fetchBooksCmd()
	case "n":
		m.form = newBookForm(nil)
	case "e":
		if m.cursor < len(m.books.Items) {
			book := m.books.Items[m.cursor]
			m.form = newBookForm(&book)
		}
	case "d":
		if m.cursor < len(m.books.Items) {
			return m, m.deleteBookCmd(m.books.Items[m.cursor].ID)
		}
	}
	return m, nil
}

func (m Model) updateBookForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "enter":
		if f.focus < fieldCount-1 {
			f.setFocus(f.focus + 1)
			return m, nil
		}
		draft, err := f.draft()
		if err != nil {
			f.errMsg = err.Error()
			return m, nil
		}
		id := f.id
		m.form = nil
		if id == 0 {
			return m, m.createBookCmd(draft)
		}
		return m, m.updateBookCmd(id, draft)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m Model) viewBooks() string {
	if m.form != nil {
		return m.viewBookForm()
	}

	var b strings.Builder
	header := fmt.Sprintf("%-5s %-40s %-6s %-16s %-8s %-6s",
		"ID", "Title", "Year", "ISBN", "Author", "Copies")
	b.WriteString(m.styles.Header.Render(header) + "\n")

	if len(m.books.Items) == 0 && !m.books.Loading {
		b.WriteString(m.styles.Muted.Render("no books yet — press n to add one") + "\n")
	}
	for i, book := range m.books.Items {
		row := fmt.Sprintf("%-5d %-40s %-6d %-16s %-8d %-6d",
			book.ID, clip(book.Title, 40), book.PublicationYear,
			clip(book.ISBN, 16), book.AuthorID, book.AvailableCopies)
		if i == m.cursor {
			row = m.styles.Selected.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}

func (m Model) viewBookForm() string {
	var b strings.Builder
	title := "New book"
	if m.form.id != 0 {
		title = fmt.Sprintf("Edit book %d", m.form.id)
	}
	b.WriteString(m.styles.Header.Render(title) + "\n\n")
	for i, in := range m.form.inputs {
		b.WriteString(m.styles.FormLabel.Render(fieldLabels[i]) + in.View() + "\n")
	}
	if m.form.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.form.errMsg) + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("enter next/save · esc cancel"))
	return b.String()
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func (m *Model) createBookCmd(draft models.BookDraft) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return state.CreateBook(context.Background(), client, draft)
	}
}

func (m *Model) updateBookCmd(id int64, draft models.BookDraft) tea.Cmd {
	client := m.client
	patch := models.BookPatch{
		Title:           &draft.Title,
		PublicationYear: &draft.PublicationYear,
		ISBN:            &draft.ISBN,
		AuthorID:        &draft.AuthorID,
		AvailableCopies: &draft.AvailableCopies,
	}
	return func() tea.Msg {
		return state.UpdateBook(context.Background(), client, id, patch)
	}
}

func (m *Model) deleteBookCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return state.DeleteBook(context.Background(), client, id)
	}
}
