// ABOUTME: Form-level input rules shared by CLI commands and TUI screens
// ABOUTME: Returns the user-facing message for the first rule that fails

package validate

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinPasswordLength is the shortest password the register form accepts
const MinPasswordLength = 8

// DateLayout is the session date format
const DateLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile(`.+@.+\..+`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Messages shown for each failed rule
var (
	ErrCredentialsRequired = errors.New("Email and password are required")
	ErrEmailInvalid        = errors.New("Enter a valid email address")
	ErrPasswordShort       = errors.New("Password must be at least 8 characters")
	ErrTopicRequired       = errors.New("Topic is required")
	ErrMinutesInvalid      = errors.New("Minutes must be a positive integer")
	ErrDateInvalid         = errors.New("Date must be in YYYY-MM-DD format")
	ErrUsernameRequired    = errors.New("Username is required")
	ErrScoreInvalid        = errors.New("Score must be a number")
	ErrLevelRequired       = errors.New("Level is required")
)

// Credentials validates the login and register forms
func Credentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrCredentialsRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordShort
	}
	return nil
}

// Topic checks that a topic was entered
func Topic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return ErrTopicRequired
	}
	return nil
}

// Minutes parses a positive whole number of minutes from form text
func Minutes(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return 0, ErrMinutesInvalid
	}
	return n, nil
}

// Date checks the YYYY-MM-DD shape and that the day exists
func Date(text string) error {
	text = strings.TrimSpace(text)
	if !datePattern.MatchString(text) {
		return ErrDateInvalid
	}
	if _, err := time.Parse(DateLayout, text); err != nil {
		return ErrDateInvalid
	}
	return nil
}

// OptionalDate allows an empty filter value
func OptionalDate(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return Date(text)
}

// Session validates the study form and returns the parsed minutes
func Session(topic, minutes, date string) (int, error) {
	if err := Topic(topic); err != nil {
		return 0, err
	}
	n, err := Minutes(minutes)
	if err != nil {
		return 0, err
	}
	if err := Date(date); err != nil {
		return 0, err
	}
	return n, nil
}

// Score parses a finite number from form text
func Score(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrScoreInvalid
	}
	return f, nil
}

// ScoreEntry validates the scores form and returns the parsed score
func ScoreEntry(username, score, level string) (float64, error) {
	if strings.TrimSpace(username) == "" {
		return 0, ErrUsernameRequired
	}
	f, err := Score(score)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(level) == "" {
		return 0, ErrLevelRequired
	}
	return f, nil
}

// Today returns the local date in the session date format
func Today() string {
	return time.Now().Format(DateLayout)
}
