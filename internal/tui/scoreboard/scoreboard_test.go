// ABOUTME: Tests for the scores screen
// ABOUTME: Validates configuration hint, empty state, and add submission

package scoreboard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/study-tracker/internal/scores"
)

func TestNotConfigured(t *testing.T) {
	s := New(false)

	if s.Load() != nil {
		t.Error("unconfigured screen must not load")
	}
	if !strings.Contains(s.View(), "Supabase is not configured") {
		t.Error("expected configuration hint")
	}

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if s.Adding() {
		t.Error("add form must stay closed when unconfigured")
	}
}

func TestEmptyAndList(t *testing.T) {
	s := New(true)
	if !strings.Contains(s.View(), "Loading...") {
		t.Error("expected loading before data")
	}

	s.SetScores(nil)
	if !strings.Contains(s.View(), "No scores yet.") {
		t.Error("expected empty state")
	}

	s.SetScores([]scores.Score{{Username: "ada", Score: 98.5, Level: "hard"}})
	view := s.View()
	for _, want := range []string{"ada", "98.5", "hard"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestSubmit(t *testing.T) {
	s := New(true)
	s.openForm(" ada ", "42", "easy")

	msg := s.submit()()

	add, ok := msg.(AddMsg)
	if !ok {
		t.Fatalf("expected AddMsg, got %T", msg)
	}
	if add.Score.Username != "ada" || add.Score.Score != 42 || add.Score.Level != "easy" {
		t.Errorf("unexpected score %+v", add.Score)
	}
}

func TestSubmitInvalidKeepsValues(t *testing.T) {
	s := New(true)
	s.openForm("ada", "lots", "easy")

	s.submit()

	if s.username != "ada" || s.level != "easy" {
		t.Error("expected values kept after a validation failure")
	}
	if !strings.Contains(s.View(), "Score must be a number") {
		t.Error("expected validation message")
	}
}

func TestAddedReloads(t *testing.T) {
	s := New(true)
	s.openForm("", "", "")

	cmd := s.Added()
	if s.Adding() {
		t.Error("expected form closed")
	}
	if _, ok := cmd().(LoadMsg); !ok {
		t.Error("expected reload")
	}
}
