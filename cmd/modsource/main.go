package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modsource/internal/config"
	"modsource/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "modsource",
	Short:         "Rule-driven module source rewriting",
	Long:          `modsource matches bundler module requests against a rules file and rewrites their source through deferred loader steps`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := runtimeConfig(cmd)
		if err != nil {
			return err
		}
		logging.Configure(rt.Log)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loadCmd)

	rootCmd.PersistentFlags().String("config", "modsource.yml", "runtime settings file (optional)")
	rootCmd.PersistentFlags().String("rules", "rules.yml", "rules file")
	rootCmd.PersistentFlags().String("log-level", "", "override log level (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "modsource:", err)
		os.Exit(1)
	}
}

// runtimeConfig loads the runtime settings and applies flag overrides.
func runtimeConfig(cmd *cobra.Command) (config.Runtime, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Runtime{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	rt, err := config.LoadRuntime(path)
	if err != nil {
		return rt, fmt.Errorf("runtime config: %w", err)
	}
	level, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return rt, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level != "" {
		rt.Log.Level = level
	}
	return rt, nil
}

func rulesPath(cmd *cobra.Command) (string, error) {
	p, err := cmd.Root().PersistentFlags().GetString("rules")
	if err != nil {
		return "", fmt.Errorf("failed to get rules flag: %w", err)
	}
	return p, nil
}
