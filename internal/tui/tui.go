// Package tui is the interactive terminal front end for the semantic QA demo.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/vqabench/internal/semqa"
)

// Asker answers one question. *semqa.Service implements it.
type Asker interface {
	Ask(ctx context.Context, question string, opts semqa.Options) (semqa.Answer, error)
}

// exchange is one question with its answer or error.
type exchange struct {
	question string
	answer   semqa.Answer
	err      error
	elapsed  time.Duration
}

type answerMsg struct {
	exchange exchange
}

type tickMsg time.Time

// model is the Bubble Tea model for the QA screen.
type model struct {
	ctx              context.Context
	asker            Asker
	opts             semqa.Options
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	history          []exchange
	isLoading        bool
	requestStartTime time.Time
	width            int
	height           int
}

func initialModel(ctx context.Context, asker Asker, opts semqa.Options) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Thủ đô CHXHCN Việt Nam là gì?"
	ta.Focus()
	ta.Prompt = "Câu hỏi: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return &model{
		ctx:      ctx,
		asker:    asker,
		opts:     opts,
		textArea: ta,
		viewport: viewport.New(100, 5),
		spinner:  s,
	}
}

func askCmd(ctx context.Context, asker Asker, question string, opts semqa.Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ans, err := asker.Ask(ctx, question, opts)
		return answerMsg{exchange: exchange{question: question, answer: ans, err: err, elapsed: time.Since(start)}}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles key presses, window resizes and answers.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlT:
			m.opts.Critique = !m.opts.Critique
			return m, nil
		case tea.KeyUp:
			if m.opts.TopK < semqa.MaxTopK {
				m.opts.TopK++
			}
			return m, nil
		case tea.KeyDown:
			if m.opts.TopK > 1 {
				m.opts.TopK--
			}
			return m, nil
		case tea.KeyEnter:
			question := strings.TrimSpace(m.textArea.Value())
			if question == "" || m.isLoading {
				return m, nil
			}
			m.textArea.Reset()
			m.isLoading = true
			m.requestStartTime = time.Now()
			return m, tea.Batch(m.spinner.Tick, askCmd(m.ctx, m.asker, question, m.opts), tickCmd())
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 4
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight

	case answerMsg:
		m.isLoading = false
		m.history = append(m.history, msg.exchange)
		m.textArea.Focus()
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.textArea, cmd = m.textArea.Update(msg)
	cmds = append(cmds, cmd)

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View renders the header, the answer history and the input line.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	b.WriteString(headerStyle.Render("VN Semantic QA"))
	b.WriteString(renderOptions(m.opts))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		b.WriteString(m.spinner.View() + " Đang tìm câu hỏi tương đồng... " + timer + "s\n")
	}
	b.WriteString(m.textArea.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" enter ask · ctrl+t critique · ↑/↓ top-k · esc quit"))
	return b.String()
}

func (m *model) renderHistory() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	var b strings.Builder
	for _, ex := range m.history {
		b.WriteString(renderExchange(ex, width))
		b.WriteString("\n")
	}
	return b.String()
}

// Start runs the interactive QA screen until the user quits.
func Start(ctx context.Context, asker Asker, opts semqa.Options) error {
	m := initialModel(ctx, asker, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
