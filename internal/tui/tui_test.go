package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/vqabench/internal/semqa"
)

type stubAsker struct {
	answer semqa.Answer
	err    error
	last   string
	opts   semqa.Options
}

func (s *stubAsker) Ask(_ context.Context, question string, opts semqa.Options) (semqa.Answer, error) {
	s.last = question
	s.opts = opts
	return s.answer, s.err
}

func newTestModel(asker Asker) *model {
	m := initialModel(context.Background(), asker, semqa.DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newTestModel(&stubAsker{})
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("expected quit command for %v", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected tea.QuitMsg for %v", key)
		}
	}
}

func TestWindowSize(t *testing.T) {
	m := initialModel(context.Background(), &stubAsker{}, semqa.DefaultOptions())
	if got := m.View(); got != "Initializing..." {
		t.Fatalf("expected initializing view, got %q", got)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	if m.width != 120 || m.height != 50 {
		t.Fatalf("unexpected size %dx%d", m.width, m.height)
	}
	if m.viewport.Height != 43 {
		t.Fatalf("expected viewport height 43, got %d", m.viewport.Height)
	}
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	m := newTestModel(&stubAsker{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.isLoading {
		t.Fatalf("blank input should not start a request")
	}
}

func TestEnterStartsRequest(t *testing.T) {
	asker := &stubAsker{}
	m := newTestModel(asker)
	m.textArea.SetValue("  Thủ đô của Việt Nam?  ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.isLoading {
		t.Fatalf("expected request to start")
	}
	if m.textArea.Value() != "" {
		t.Fatalf("expected input to be cleared")
	}

	msg := askCmd(context.Background(), asker, "Thủ đô của Việt Nam?", m.opts)()
	if asker.last != "Thủ đô của Việt Nam?" {
		t.Fatalf("unexpected question %q", asker.last)
	}
	if _, ok := msg.(answerMsg); !ok {
		t.Fatalf("expected answerMsg, got %T", msg)
	}
}

func TestAnswerMsgAppendsHistory(t *testing.T) {
	m := newTestModel(&stubAsker{})
	m.isLoading = true
	m.Update(answerMsg{exchange: exchange{
		question: "Thủ đô của Việt Nam?",
		answer: semqa.Answer{
			Accepted:   true,
			Candidates: []semqa.Candidate{{Rank: 1, Score: 0.91, Question: "Thủ đô Việt Nam là gì?", Answer: "Hà Nội"}},
			Baseline:   "Hà Nội",
			Critique:   "(Baseline) Đáp án cuối: Hà Nội",
			Final:      "Hà Nội",
			Confidence: semqa.ConfidenceHigh,
		},
		elapsed: 20 * time.Millisecond,
	}})
	if m.isLoading {
		t.Fatalf("expected loading to stop")
	}
	if len(m.history) != 1 {
		t.Fatalf("expected one exchange, got %d", len(m.history))
	}
	out := m.renderHistory()
	for _, want := range []string{"Hà Nội", "0.910", "high"} {
		if !strings.Contains(out, want) {
			t.Fatalf("history missing %q:\n%s", want, out)
		}
	}
}

func TestRenderExchangeStates(t *testing.T) {
	out := renderExchange(exchange{question: "q", err: errors.New("embed failed")}, 80)
	if !strings.Contains(out, "embed failed") {
		t.Fatalf("expected error text, got %q", out)
	}

	out = renderExchange(exchange{question: "q", answer: semqa.Answer{
		Candidates: []semqa.Candidate{{Rank: 1, Score: 0.4, Question: "khác"}},
	}}, 80)
	if !strings.Contains(out, "Không tìm thấy") {
		t.Fatalf("expected below-threshold notice, got %q", out)
	}
	if strings.Contains(out, "Đáp án") {
		t.Fatalf("rejected answer should not show a final answer: %q", out)
	}
}

func TestOptionKeys(t *testing.T) {
	m := newTestModel(&stubAsker{})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.opts.Critique {
		t.Fatalf("expected critique toggled off")
	}
	for i := 0; i < 20; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.opts.TopK != semqa.MaxTopK {
		t.Fatalf("expected top-k clamped to %d, got %d", semqa.MaxTopK, m.opts.TopK)
	}
	for i := 0; i < 20; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.opts.TopK != 1 {
		t.Fatalf("expected top-k floor of 1, got %d", m.opts.TopK)
	}
}
