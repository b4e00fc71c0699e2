package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	apierrors "github.com/longevai/ragchat/internal/errors"
	"github.com/longevai/ragchat/internal/models"
	"github.com/longevai/ragchat/internal/render"
)

// animationTickMsg advances the loading animation. id ties the tick to the
// query that started it, so a chain left over from an earlier query stops.
type animationTickMsg struct {
	id int
}

// Message types for the TUI
type (
	responseMsg struct {
		answer  string
		elapsed time.Duration
	}
	errMsg struct {
		err     error
		elapsed time.Duration
	}
)

// Querier sends one question and returns the answer text
type Querier interface {
	Query(ctx context.Context, query string) (string, error)
}

// Options configures the chat view
type Options struct {
	Title       string
	Welcome     string
	Placeholder string
	// Endpoint is shown in the header
	Endpoint string
	Render   render.Options
	Logger   zerolog.Logger
	// Clipboard copies text; defaults to the system clipboard
	Clipboard func(string) error
}

// Model represents the TUI state
type Model struct {
	client Querier
	ctx    context.Context
	opts   Options
	logger zerolog.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	transcript     models.Transcript
	loading        bool
	ready          bool
	animationFrame int
	animationID    int
	notice         string
	noticeIsError  bool

	// rendered answer blocks by transcript index, valid for renderWidth
	renderCache map[int]string
	renderWidth int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model. ctx bounds every query issued
// by the model.
func NewChatModel(ctx context.Context, client Querier, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Render.Width == 0 {
		opts.Render = render.DefaultOptions()
	}

	ta := textarea.New()
	ta.Placeholder = opts.Placeholder
	// Questions are sent as typed or pasted, never cut
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	// Enter submits, so it must not insert newlines
	ta.KeyMap.InsertNewline.SetEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:      client,
		ctx:         ctx,
		opts:        opts,
		logger:      opts.Logger,
		textarea:    ta,
		spinner:     s,
		renderCache: map[int]string{},
	}
}

// Messages returns the transcript in display order
func (m Model) Messages() []models.Message {
	return m.transcript.Messages()
}

// Busy reports whether a query is outstanding
func (m Model) Busy() bool {
	return m.loading
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick(id int) tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(time.Time) tea.Msg {
		return animationTickMsg{id: id}
	})
}

// scrollKeyMap limits the viewport to keys the textarea does not need
func scrollKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Down:         key.NewBinding(key.WithKeys("down")),
		Up:           key.NewBinding(key.WithKeys("up")),
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border and margin
		inputHeight := 6  // Input panel with border and margin
		statusHeight := 2 // Notice line + status bar
		padding := 2      // Messages panel border

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.viewport.KeyMap = scrollKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// No cancellation: a pending query keeps the view busy
			if !m.loading {
				return m, tea.Quit
			}
			return m, nil

		case "ctrl+y":
			m.copyLastAnswer()
			return m, nil

		case "enter":
			return m.submit()
		}

	case responseMsg:
		m.finishQuery(models.AssistantMessage(msg.answer))
		m.logger.Info().
			Dur("elapsed", msg.elapsed).
			Int("answer_len", len(msg.answer)).
			Msg("query answered")
		return m, textarea.Blink

	case errMsg:
		// Every failure looks the same to the user; the cause goes to the log
		m.finishQuery(models.AssistantMessage(models.FallbackMessage))
		m.logger.Warn().
			Err(msg.err).
			Str("kind", apierrors.Kind(msg.err)).
			Int("status", apierrors.GetHTTPStatus(msg.err)).
			Dur("elapsed", msg.elapsed).
			Msg("query failed")
		return m, textarea.Blink

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading && msg.id == m.animationID {
			m.animationFrame++
			cmds = append(cmds, animationTick(m.animationID))
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the input as a query. Blank input and input typed while a
// query is outstanding are ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	input := m.textarea.Value()
	if strings.TrimSpace(input) == "" {
		return m, nil
	}

	m.transcript.Append(models.UserMessage(input))
	m.textarea.Reset()
	m.textarea.Blur()
	m.loading = true
	m.animationFrame = 0
	m.animationID++
	m.notice = ""
	m.refreshTranscript()

	m.logger.Debug().Int("query_len", len(input)).Int("transcript_len", m.transcript.Len()).Msg("query submitted")

	return m, tea.Batch(
		m.sendQuery(input),
		m.spinner.Tick,
		animationTick(m.animationID),
	)
}

// finishQuery records the outcome of the outstanding query and re-enables input
func (m *Model) finishQuery(reply models.Message) {
	m.transcript.Append(reply)
	m.loading = false
	m.textarea.Focus()
	m.refreshTranscript()
}

// sendQuery creates a command that runs the query off the update loop
func (m Model) sendQuery(query string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		start := time.Now()
		answer, err := client.Query(ctx, query)
		if err != nil {
			return errMsg{err: err, elapsed: time.Since(start)}
		}
		return responseMsg{answer: answer, elapsed: time.Since(start)}
	}
}

func (m *Model) copyLastAnswer() {
	answer, ok := m.transcript.LastAnswer()
	if !ok {
		m.notice, m.noticeIsError = "Nothing to copy yet", true
		return
	}
	if err := m.opts.Clipboard(answer); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard copy failed")
		m.notice, m.noticeIsError = fmt.Sprintf("Failed to copy to clipboard: %v", err), true
		return
	}
	m.notice, m.noticeIsError = "✓ Copied last answer to clipboard", false
}

// refreshTranscript re-renders the transcript and scrolls to the bottom. It
// runs after every transcript or busy change.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.updateViewport()
	m.viewport.GotoBottom()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{titleStyle.Render(m.opts.Title)}
	if host := endpointLabel(m.opts.Endpoint, contentWidth-runewidth.StringWidth(m.opts.Title)-12); host != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(host),
		)
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	// Messages
	var messagesContent string
	if m.transcript.Len() == 0 && !m.loading {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Notice + status bar
	notice := ""
	if m.notice != "" {
		if m.noticeIsError {
			notice = noticeErrorStyle.Render(m.notice)
		} else {
			notice = noticeStyle.Render(m.notice)
		}
	}
	sections = append(sections, notice, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// endpointLabel shortens the endpoint to host[/path] within maxWidth cells
func endpointLabel(endpoint string, maxWidth int) string {
	if endpoint == "" || maxWidth < 8 {
		return ""
	}
	label := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		label = u.Host + u.Path
	}
	return runewidth.Truncate(label, maxWidth, "…")
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	hint := welcomeStyle.Width(width).Render(m.opts.Welcome)

	content := lipgloss.JoinVertical(lipgloss.Center, icon, "", hint)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the "Typing..." indicator shown while busy
func (m Model) renderLoadingAnimation() string {
	frame := m.animationFrame

	bar := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		color := gradientColors[(i+frame)%len(gradientColors)]
		bar = append(bar, lipgloss.NewStyle().Foreground(color).Render("▪"))
	}

	dots := strings.Repeat(".", (frame/3)%4)
	text := lipgloss.NewStyle().Foreground(colorText).Render(" Typing" + dots)

	return fmt.Sprintf("%s %s%s", m.spinner.View(), strings.Join(bar, ""), text)
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy answer"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	if bubbleWidth != m.renderWidth {
		m.renderCache = map[int]string{}
		m.renderWidth = bubbleWidth
	}

	var content strings.Builder
	for i, msg := range m.transcript.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			block, ok := m.renderCache[i]
			if !ok {
				block = AnswerBlock(msg.Content, bubbleWidth, m.opts.Render)
				m.renderCache[i] = block
			}
			content.WriteString(block)
		}
		content.WriteString("\n")
	}

	if m.loading {
		content.WriteString("\n" + assistantLabelStyle.Render("AI") + "\n" + hintStyle.Render("Typing..."))
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(client Querier, opts Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewChatModel(ctx, client, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
