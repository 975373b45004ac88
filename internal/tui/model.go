// Package tui provides the interactive chat interface. One pane holds the
// conversation transcript, an input line sits under it, and an optional
// sidebar describes who Kelly is. Generation runs off the Update loop in a
// tea.Cmd so the interface stays responsive while a poem is composed.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sruthykbenni/kelly/internal/conversation"
	"github.com/sruthykbenni/kelly/internal/persona"
)

const aboutText = `Kelly is an AI scientist with a
sharp tongue and a soft spot for
verse. Ask her anything: she answers
only in short poems, three to eight
lines, equal parts rigor and rhyme.

She is skeptical by trade. Expect
demands for evidence.`

const sidebarWidth = 38

// answerMsg signals that generation for the pending question finished.
type answerMsg struct{}

// Model is the root Bubble Tea model for the chat interface.
type Model struct {
	input    textarea.Model
	viewport viewport.Model
	spin     spinner.Model

	log    *conversation.Log
	answer conversation.Answerer
	ctx    context.Context

	composing bool
	showAbout bool
	ready     bool
	quitting  bool
	width     int
	height    int
}

// New creates a chat model over the given conversation log. The answerer is
// invoked off the Update loop for every ask and regenerate.
func New(ctx context.Context, log *conversation.Log, answer conversation.Answerer) Model {
	input := textarea.New()
	input.Placeholder = "Ask Kelly anything..."
	input.Prompt = "> "
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleThinking

	return Model{
		input:  input,
		spin:   sp,
		log:    log,
		answer: answer,
		ctx:    ctx,
	}
}

// Init initializes the model and returns the initial command.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC, KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case KeyEnter:
			if m.composing {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.composing = true
			cmds = append(cmds, m.spin.Tick, m.askCmd(question))

		case KeyRegenerate:
			if m.composing || m.log.LastQuestion() == "" {
				return m, nil
			}
			m.composing = true
			cmds = append(cmds, m.spin.Tick, m.regenerateCmd())

		case KeyAbout:
			m.showAbout = !m.showAbout
			m.computeLayout()
			m.refreshTranscript()

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()
		m.refreshTranscript()
		m.ready = m.width > 0 && m.height > 0

	case spinner.TickMsg:
		if m.composing {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case answerMsg:
		m.composing = false
		m.refreshTranscript()
		m.viewport.GotoBottom()
	}

	return m, tea.Batch(cmds...)
}

// askCmd runs one ask off the Update loop.
func (m Model) askCmd(question string) tea.Cmd {
	log, answer, ctx := m.log, m.answer, m.ctx
	return func() tea.Msg {
		log.Ask(ctx, question, answer)
		return answerMsg{}
	}
}

// regenerateCmd re-answers the last question off the Update loop.
func (m Model) regenerateCmd() tea.Cmd {
	log, answer, ctx := m.log, m.answer, m.ctx
	return func() tea.Msg {
		log.Regenerate(ctx, answer)
		return answerMsg{}
	}
}

// View renders the chat interface.
func (m Model) View() string {
	if m.quitting {
		return "Kelly waves goodbye.\n"
	}
	if !m.ready {
		return "Initializing..."
	}

	title := StyleTitle.Render(persona.Name + " - The AI Scientist")

	transcript := StyleTranscript.
		Width(m.transcriptWidth()).
		Render(m.viewport.View())

	main := transcript
	if m.showAbout {
		sidebar := StyleSidebar.
			Width(sidebarWidth - 2).
			Render(StyleTitle.Render("About Kelly") + "\n" + aboutText)
		main = lipgloss.JoinHorizontal(lipgloss.Top, transcript, sidebar)
	}

	status := ""
	if m.composing {
		status = m.spin.View() + StyleThinking.Render(" Kelly is composing...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		main,
		status,
		m.input.View(),
		HelpView(),
	)
}

// computeLayout sizes the child components from the window dimensions.
func (m *Model) computeLayout() {
	width := m.width
	if width < 20 {
		width = 20
	}
	height := m.height
	if height < 10 {
		height = 10
	}

	// Title, status, input and help each take a line; borders take two.
	vpHeight := height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.viewport = viewport.New(m.transcriptWidth()-2, vpHeight)
	m.input.SetWidth(width - 4)
}

func (m Model) transcriptWidth() int {
	width := m.width
	if width < 20 {
		width = 20
	}
	if m.showAbout && width > sidebarWidth+20 {
		return width - sidebarWidth
	}
	return width
}

// refreshTranscript re-renders the conversation into the viewport.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(renderTranscript(m.log.Turns()))
	m.viewport.GotoBottom()
}

// renderTranscript formats conversation turns for display.
func renderTranscript(turns []conversation.Turn) string {
	if len(turns) == 0 {
		return StylePoem.Render("Ask a question and Kelly will answer in verse.")
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch turn.Role {
		case conversation.RoleUser:
			b.WriteString(StyleQuestion.Render("You: " + turn.Text))
		case conversation.RoleAssistant:
			b.WriteString(StyleSpeaker.Render(persona.Name+":") + "\n")
			b.WriteString(StylePoem.Render(turn.Text))
		}
	}
	return b.String()
}
