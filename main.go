// ABOUTME: Entry point for the study CLI
// ABOUTME: Logs study sessions and browses the leaderboard from the terminal

package main

import (
	"fmt"
	"os"

	"github.com/markalston/study-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
