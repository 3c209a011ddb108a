// ABOUTME: Tests for form validation rules
// ABOUTME: Covers email, password, session, and score inputs

package validate

import (
	"errors"
	"testing"
)

func TestCredentials(t *testing.T) {
	tests := []struct {
		email, password string
		want            error
	}{
		{"", "password123", ErrCredentialsRequired},
		{"   ", "password123", ErrCredentialsRequired},
		{"a@b.com", "", ErrCredentialsRequired},
		{"not-an-email", "password123", ErrEmailInvalid},
		{"a@b", "password123", ErrEmailInvalid},
		{"a@b.com", "short", ErrPasswordShort},
		{"a@b.com", "1234567", ErrPasswordShort},
		{"a@b.com", "12345678", nil},
		{" a@b.com ", "password123", nil},
	}

	for _, tc := range tests {
		if got := Credentials(tc.email, tc.password); !errors.Is(got, tc.want) {
			t.Errorf("Credentials(%q, %q) = %v, want %v", tc.email, tc.password, got, tc.want)
		}
	}
}

func TestSession(t *testing.T) {
	tests := []struct {
		name                 string
		topic, minutes, date string
		wantMinutes          int
		want                 error
	}{
		{"valid", "Math", "30", "2024-01-01", 30, nil},
		{"trimmed minutes", "Math", " 45 ", "2024-01-01", 45, nil},
		{"no topic", " ", "30", "2024-01-01", 0, ErrTopicRequired},
		{"zero minutes", "Math", "0", "2024-01-01", 0, ErrMinutesInvalid},
		{"negative minutes", "Math", "-5", "2024-01-01", 0, ErrMinutesInvalid},
		{"fractional minutes", "Math", "1.5", "2024-01-01", 0, ErrMinutesInvalid},
		{"text minutes", "Math", "abc", "2024-01-01", 0, ErrMinutesInvalid},
		{"bad date shape", "Math", "30", "01/01/2024", 0, ErrDateInvalid},
		{"impossible date", "Math", "30", "2024-02-30", 0, ErrDateInvalid},
		{"empty date", "Math", "30", "", 0, ErrDateInvalid},
		{"leap day", "Math", "30", "2024-02-29", 30, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Session(tc.topic, tc.minutes, tc.date)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got != tc.wantMinutes {
				t.Errorf("expected %d minutes, got %d", tc.wantMinutes, got)
			}
		})
	}
}

func TestOptionalDate(t *testing.T) {
	if err := OptionalDate(""); err != nil {
		t.Errorf("expected empty filter accepted, got %v", err)
	}
	if err := OptionalDate("2024-13-01"); !errors.Is(err, ErrDateInvalid) {
		t.Errorf("expected invalid date, got %v", err)
	}
}

func TestScoreEntry(t *testing.T) {
	tests := []struct {
		username, score, level string
		wantScore              float64
		want                   error
	}{
		{"alice", "42", "easy", 42, nil},
		{"alice", "-1.5", "hard", -1.5, nil},
		{"", "42", "easy", 0, ErrUsernameRequired},
		{"alice", "many", "easy", 0, ErrScoreInvalid},
		{"alice", "NaN", "easy", 0, ErrScoreInvalid},
		{"alice", "Inf", "easy", 0, ErrScoreInvalid},
		{"alice", "42", " ", 0, ErrLevelRequired},
	}

	for _, tc := range tests {
		got, err := ScoreEntry(tc.username, tc.score, tc.level)
		if !errors.Is(err, tc.want) || got != tc.wantScore {
			t.Errorf("ScoreEntry(%q, %q, %q) = %v, %v; want %v, %v", tc.username, tc.score, tc.level, got, err, tc.wantScore, tc.want)
		}
	}
}

func TestToday(t *testing.T) {
	if err := Date(Today()); err != nil {
		t.Errorf("Today() is not a valid date: %v", err)
	}
}
