// ABOUTME: Tests for the login and register form
// ABOUTME: Validates submission, error reset, and cancel behavior

package authform

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSubmitTrimsEmail(t *testing.T) {
	f := New(ModeRegister, "")
	f.email = "  ada@example.com "
	f.password = "password123"

	msg := f.submit()()

	sub, ok := msg.(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg, got %T", msg)
	}
	if sub.Mode != ModeRegister || sub.Email != "ada@example.com" || sub.Password != "password123" {
		t.Errorf("unexpected submit %+v", sub)
	}
	if !strings.Contains(f.View(), "Creating account...") {
		t.Error("expected busy state after submit")
	}
}

func TestSetErrorKeepsEmailClearsPassword(t *testing.T) {
	f := New(ModeLogin, "ada@example.com")
	f.password = "wrong-password"
	f.submit()

	f.SetError("Login failed")

	if f.busy {
		t.Error("expected form to accept input again")
	}
	if f.email != "ada@example.com" {
		t.Errorf("email = %q, want it kept", f.email)
	}
	if f.password != "" {
		t.Error("expected password cleared")
	}
	if !strings.Contains(f.View(), "Login failed") {
		t.Error("expected error in view")
	}
}

func TestEscCancels(t *testing.T) {
	f := New(ModeLogin, "")

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestNotice(t *testing.T) {
	f := New(ModeLogin, "")
	f.SetNotice("Registration successful. Redirecting to login...")

	if !strings.Contains(f.View(), "Registration successful") {
		t.Error("expected notice in view")
	}
}
