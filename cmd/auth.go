// ABOUTME: Account commands: register, login, logout, and whoami
// ABOUTME: Login stores the access token in durable storage for later commands

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/tokenstore"
	"github.com/markalston/study-tracker/internal/validate"
)

var (
	authEmail         string
	authPassword      string
	authPasswordStdin bool
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create a Study Tracker account.

Passwords must be at least 8 characters. Prompts for missing values when run
in a terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		email, password, err := resolveCredentials(os.Stdin, "Create account")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runRegister(ctx, w, email, password)
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Run: func(cmd *cobra.Command, args []string) {
		email, password, err := resolveCredentials(os.Stdin, "Login")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runLogin(ctx, w, email, password)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func(ctx context.Context, w io.Writer) int {
			return runLogout(w)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the signed-in account",
	Annotations: map[string]string{authKey: authRequired},
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(runWhoami)
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (prefer --password-stdin)")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin")
	}
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}

// resolveCredentials fills in missing values from stdin or an interactive form
func resolveCredentials(stdin io.Reader, title string) (string, string, error) {
	email, password := authEmail, authPassword
	if authPasswordStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("reading password from stdin: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if (email != "" && password != "") || !isTerminal(os.Stdin) {
		return email, password, nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		).Title(title),
	)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return email, password, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// runRegister creates an account and returns exit code
func runRegister(ctx context.Context, w io.Writer, email, password string) int {
	if err := validate.Credentials(email, password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	return withEnv(w, func(e *env) int {
		user, err := e.api.Register(ctx, client.Credentials{Email: strings.TrimSpace(email), Password: password})
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Registration failed"))
			return exitCodeFor(err)
		}

		if writeStructured(w, user) {
			return exitOK
		}
		fmt.Fprintf(w, "Registration successful for %s. Run \"study login\" to sign in.\n", user.Email)
		return exitOK
	})
}

// runLogin signs in and stores the token
func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	if err := validate.Credentials(email, password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	return withEnv(w, func(e *env) int {
		res, err := e.api.Login(ctx, client.Credentials{Email: strings.TrimSpace(email), Password: password})
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Login failed"))
			return exitCodeFor(err)
		}
		if !e.tokens.IsAuthenticated() {
			fmt.Fprintln(w, "Error: login response did not include an access token")
			return exitError
		}

		if writeStructured(w, map[string]interface{}{
			"authenticated": true,
			"token_type":    res.TokenType,
		}) {
			return exitOK
		}
		fmt.Fprintf(w, "Logged in as %s.\n", strings.TrimSpace(email))
		return exitOK
	})
}

// runLogout clears the stored token
func runLogout(w io.Writer) int {
	return withEnv(w, func(e *env) int {
		wasAuthenticated := e.tokens.IsAuthenticated()
		e.api.Logout()

		if writeStructured(w, map[string]bool{"authenticated": false}) {
			return exitOK
		}
		if wasAuthenticated {
			fmt.Fprintln(w, "Logged out.")
		} else {
			fmt.Fprintln(w, "Not logged in.")
		}
		return exitOK
	})
}

// runWhoami prints the current account and token expiry
func runWhoami(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(e *env) int {
		user, err := e.api.Me(ctx)
		if err != nil {
			return printError(w, err, "load profile")
		}

		if writeStructured(w, user) {
			return exitOK
		}
		fmt.Fprintln(w, formatWhoami(user, e.tokens, time.Now()))
		return exitOK
	})
}

// formatWhoami formats the profile for human readability
func formatWhoami(user *client.User, tokens *tokenstore.Store, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Email:    %s\n", user.Email)
	fmt.Fprintf(&sb, "User ID:  %d", user.ID)

	claims, err := tokens.Claims()
	if err != nil || claims.ExpiresAt.IsZero() {
		return sb.String()
	}
	if claims.Expired(now) {
		fmt.Fprintf(&sb, "\nSession:  expired %s", claims.ExpiresAt.Local().Format(time.RFC1123))
	} else {
		fmt.Fprintf(&sb, "\nSession:  expires %s", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return sb.String()
}
