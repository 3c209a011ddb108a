// ABOUTME: Tests for the navigation menu
// ABOUTME: Validates items per login state and the messages each item sends

package menu

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/study-tracker/internal/guard"
)

func labels(m *Menu) []string {
	var out []string
	for _, it := range m.items {
		out = append(out, it.label)
	}
	return out
}

func TestMenuItemsSignedOut(t *testing.T) {
	m := New(false)

	got := strings.Join(labels(m), ",")
	want := "Log a session,My sessions,Leaderboard,Scores,Login,Register,Quit"
	if got != want {
		t.Errorf("items = %s, want %s", got, want)
	}
	if !strings.Contains(m.View(), "login required") {
		t.Error("expected protected items to be marked")
	}
}

func TestMenuItemsSignedIn(t *testing.T) {
	m := New(true)

	got := strings.Join(labels(m), ",")
	want := "Log a session,My sessions,Leaderboard,Scores,Logout,Quit"
	if got != want {
		t.Errorf("items = %s, want %s", got, want)
	}
	if strings.Contains(m.View(), "login required") {
		t.Error("no item should be marked once signed in")
	}
}

func TestMenuCursorClampedAfterLogin(t *testing.T) {
	m := New(false)
	m.cursor = len(m.items) - 1

	m.SetAuthenticated(true)
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, len(m.items)-1)
	}
}

func press(m *Menu, key string) tea.Msg {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestMenuSelect(t *testing.T) {
	m := New(false)

	press(m, "down")
	msg := press(m, "enter")

	sel, ok := msg.(SelectedMsg)
	if !ok {
		t.Fatalf("expected SelectedMsg, got %T", msg)
	}
	if sel.Route != guard.RouteSessions {
		t.Errorf("route = %s, want sessions", sel.Route)
	}
}

func TestMenuLogoutAndQuit(t *testing.T) {
	m := New(true)
	m.cursor = 4

	if _, ok := press(m, "enter").(LogoutMsg); !ok {
		t.Error("expected LogoutMsg")
	}
	if _, ok := press(m, "q").(QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
