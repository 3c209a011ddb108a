// ABOUTME: Config commands for reading and persisting settings
// ABOUTME: Values resolve from environment, config file, then defaults

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/markalston/study-tracker/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: fmt.Sprintf(`Show or change settings.

Settings live in %s.
Known keys: api_base, timeout, storage.backend, supabase.url, supabase.key,
log.level, log.format`, "$XDG_CONFIG_HOME/study-tracker/config.yaml"),
}

var configGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		if code := runConfigGet(os.Stdout, key); code != exitOK {
			os.Exit(code)
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist a setting to the config file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if code := runConfigSet(os.Stdout, args[0], args[1]); code != exitOK {
			os.Exit(code)
		}
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stdout, config.FilePath())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
}

// runConfigGet prints resolved settings and returns exit code
func runConfigGet(w io.Writer, key string) int {
	if key != "" && !config.IsKey(key) {
		fmt.Fprintf(w, "Error: unknown config key %q\n", key)
		return exitInvalid
	}

	v := config.New()
	if _, err := config.Load(v); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if key != "" {
		value := v.GetString(key)
		if writeStructured(w, map[string]string{key: value}) {
			return exitOK
		}
		fmt.Fprintln(w, value)
		return exitOK
	}

	all := make(map[string]string, len(config.Keys))
	for _, k := range config.Keys {
		all[k] = v.GetString(k)
	}
	if writeStructured(w, all) {
		return exitOK
	}

	keys := append([]string(nil), config.Keys...)
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-16s %s\n", k, all[k])
	}
	return exitOK
}

// runConfigSet writes a setting and returns exit code
func runConfigSet(w io.Writer, key, value string) int {
	if !config.IsKey(key) {
		fmt.Fprintf(w, "Error: unknown config key %q\n", key)
		return exitInvalid
	}
	check := config.New()
	check.Set(key, value)
	if _, err := config.Load(check); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	if err := config.Set(key, value); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(w, "Set %s in %s\n", key, config.FilePath())
	return exitOK
}
