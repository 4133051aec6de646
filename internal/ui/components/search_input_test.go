package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geokey/geoadmin/internal/ui/theme"
)

// collectMsgs runs a command tree and flattens the produced messages
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collectMsgs(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func typeRune(s *SearchInput, r rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

func TestSearchInputMinLength(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme(), 2)

	msgs := collectMsgs(typeRune(s, 'o'))
	for _, m := range msgs {
		if _, ok := m.(QueryMsg); ok {
			t.Error("Single character should not trigger a query")
		}
	}

	msgs = collectMsgs(typeRune(s, 'l'))
	found := false
	for _, m := range msgs {
		if q, ok := m.(QueryMsg); ok {
			found = true
			if q.Query != "ol" {
				t.Errorf("Expected query 'ol', got '%s'", q.Query)
			}
		}
	}
	if !found {
		t.Error("Two characters should trigger a query")
	}
}

func TestSearchInputClearBelowMinLength(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme(), 2)

	collectMsgs(typeRune(s, 'o'))
	collectMsgs(typeRune(s, 'l'))

	msgs := collectMsgs(func() tea.Cmd {
		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
		return cmd
	}())

	found := false
	for _, m := range msgs {
		if _, ok := m.(ClearResultsMsg); ok {
			found = true
		}
	}
	if !found {
		t.Error("Dropping below minimum length should clear results")
	}
}

func TestSearchInputDiscardsStaleResponses(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme(), 2)

	collectMsgs(typeRune(s, 'o'))
	var first, second int
	for _, m := range collectMsgs(typeRune(s, 'l')) {
		if q, ok := m.(QueryMsg); ok {
			first = q.Seq
		}
	}
	for _, m := range collectMsgs(typeRune(s, 'i')) {
		if q, ok := m.(QueryMsg); ok {
			second = q.Seq
		}
	}

	if first == 0 || second == 0 {
		t.Fatal("Expected both queries to be issued")
	}
	if second <= first {
		t.Fatalf("Sequence numbers should increase: %d then %d", first, second)
	}

	if !s.Loading() {
		t.Error("Expected lookups to be in flight")
	}

	// Responses arrive out of order: the newer query's result first.
	if !s.Accept(second) {
		t.Error("Response for the latest query should be accepted")
	}
	if s.Accept(first) {
		t.Error("Response for a superseded query should be discarded")
	}
	if s.Loading() {
		t.Error("All lookups have finished")
	}
}

func TestSearchInputResetInvalidatesPending(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme(), 2)

	collectMsgs(typeRune(s, 'o'))
	var seq int
	for _, m := range collectMsgs(typeRune(s, 'l')) {
		if q, ok := m.(QueryMsg); ok {
			seq = q.Seq
		}
	}

	s.Reset()

	if s.Accept(seq) {
		t.Error("Response issued before reset should be discarded")
	}
	if s.Loading() {
		t.Error("Reset should clear in-flight state")
	}
}
