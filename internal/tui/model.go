package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kailas-cloud/docsearch/internal/domain"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/docsearch/internal/usecase/upload"
)

// UploadWidget is the upload widget as the TUI drives it.
type UploadWidget interface {
	State() uploaduc.State
	SelectFile(f *domain.File) (uploaduc.State, error)
	Submit(ctx context.Context) (uploaduc.State, error)
}

// SearchWidget is the search widget as the TUI drives it.
type SearchWidget interface {
	State() searchuc.State
	SetQuery(text string) searchuc.State
	Submit(ctx context.Context) (searchuc.State, error)
}

type focusField int

const (
	focusQuery focusField = iota
	focusFile
)

type searchDoneMsg struct {
	state searchuc.State
	err   error
}

type uploadDoneMsg struct {
	state uploaduc.State
	err   error
}

// Model is the bubbletea model for both widgets. Network calls run as
// tea.Cmds, so the inputs stay live while a request is outstanding.
type Model struct {
	ctx      context.Context
	upload   UploadWidget
	search   SearchWidget
	renderer Renderer

	query textinput.Model
	path  textinput.Model
	focus focusField

	// set when a submit is dispatched, before the widget marks itself busy
	searching bool
	uploading bool

	answer string
	notice string
	width  int
}

// New creates the model. ctx is passed to every submit.
func New(ctx context.Context, upload UploadWidget, search SearchWidget, r Renderer) *Model {
	query := textinput.New()
	query.Prompt = "ask> "
	query.Placeholder = "Ask a question about your documents..."
	query.CharLimit = 2000
	query.Focus()

	path := textinput.New()
	path.Prompt = "file> "
	path.Placeholder = "path/to/document.pdf"

	if r == nil {
		r = PlainRenderer{}
	}

	return &Model{
		ctx:      ctx,
		upload:   upload,
		search:   search,
		renderer: r,
		query:    query,
		path:     path,
		focus:    focusQuery,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.query.Width = msg.Width - len(m.query.Prompt) - 2
		m.path.Width = msg.Width - len(m.path.Prompt) - 2
		return m, nil

	case searchDoneMsg:
		m.searching = false
		m.answer = ""
		if msg.err == nil {
			m.answer = RenderOrRaw(m.renderer, msg.state.Result)
		}
		return m, nil

	case uploadDoneMsg:
		m.uploading = false
		if msg.err == nil {
			m.path.Reset()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab":
		return m, m.toggleFocus()

	case "ctrl+u":
		return m, m.submitUpload()

	case "ctrl+l":
		m.clearFile()
		return m, nil

	case "enter":
		if m.focus == focusQuery {
			return m, m.submitSearch()
		}
		m.selectFile()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusQuery {
		m.query, cmd = m.query.Update(msg)
		m.search.SetQuery(m.query.Value())
		return m, cmd
	}

	if !m.canSelect() {
		return m, nil
	}
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusQuery {
		m.focus = focusFile
		m.query.Blur()
		return m.path.Focus()
	}
	m.focus = focusQuery
	m.path.Blur()
	return m.query.Focus()
}

func (m *Model) canSelect() bool {
	return !m.uploading && m.upload.State().CanSelect()
}

func (m *Model) submitSearch() tea.Cmd {
	if m.searching || !m.search.State().CanSubmit() {
		return nil
	}
	m.searching = true
	m.notice = ""

	ctx, search := m.ctx, m.search
	return func() tea.Msg {
		st, err := search.Submit(ctx)
		return searchDoneMsg{state: st, err: err}
	}
}

// submitUpload also runs without a selection so the widget can prompt for one.
func (m *Model) submitUpload() tea.Cmd {
	st := m.upload.State()
	if m.uploading || st.Busy {
		return nil
	}
	m.uploading = st.HasFile
	m.notice = ""

	ctx, upload := m.ctx, m.upload
	return func() tea.Msg {
		st, err := upload.Submit(ctx)
		return uploadDoneMsg{state: st, err: err}
	}
}

func (m *Model) selectFile() {
	path := strings.TrimSpace(m.path.Value())
	if path == "" {
		return
	}
	if !m.canSelect() {
		m.notice = "an upload is in progress"
		return
	}

	f, err := domain.ReadFile(path)
	if err != nil {
		m.notice = fmt.Sprintf("cannot read %s: %v", path, err)
		return
	}
	if _, err := m.upload.SelectFile(f); err != nil {
		m.notice = "an upload is in progress"
		return
	}
	m.notice = ""
}

func (m *Model) clearFile() {
	if !m.canSelect() {
		m.notice = "an upload is in progress"
		return
	}
	if _, err := m.upload.SelectFile(nil); err != nil {
		m.notice = "an upload is in progress"
		return
	}
	m.path.Reset()
	m.notice = ""
}

// View implements tea.Model.
func (m *Model) View() string {
	up := m.upload.State()
	se := m.search.State()

	var b strings.Builder

	b.WriteString(headerStyle.Render("Upload"))
	b.WriteString("\n")
	b.WriteString(m.path.View())
	if !m.canSelect() {
		b.WriteString(dimStyle.Render("  (locked)"))
	}
	b.WriteString("\n")
	b.WriteString(button("Upload", up.CanSubmit() && !m.uploading))
	if up.Status != "" {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(up.Status))
	}
	b.WriteString("\n\n")

	searchBusy := m.searching || se.Busy
	b.WriteString(headerStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.query.View())
	b.WriteString("\n")
	b.WriteString(button("Search", se.CanSubmit() && !m.searching))
	if searchBusy {
		b.WriteString("  ")
		b.WriteString(busyStyle.Render("Searching..."))
	}
	b.WriteString("\n\n")

	switch {
	case searchBusy:
	case se.Error != "":
		b.WriteString(errorStyle.Render(se.Error))
		b.WriteString("\n")
	case m.answer != "":
		b.WriteString(answerStyle.Render(m.answer))
		b.WriteString("\n")
		if len(se.RetrievedDocs) > 0 {
			b.WriteString(dimStyle.Render("retrieved from: " + strings.Join(se.RetrievedDocs, ", ")))
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"tab: switch field • enter: search / select file • ctrl+u: upload • ctrl+l: clear file • esc: quit",
	))
	return b.String()
}

func button(label string, enabled bool) string {
	if enabled {
		return enabledButtonStyle.Render("[ " + label + " ]")
	}
	return disabledButtonStyle.Render("[ " + label + " ]")
}
