package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modsource/internal/config"
	"modsource/internal/modifier"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the rules file",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	path, err := rulesPath(cmd)
	if err != nil {
		return err
	}
	f, err := config.LoadRulesSpec(path)
	if err != nil {
		return err
	}
	if err := config.Validate(f, modifier.Known); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rule(s) ok\n", path, len(f.Rules))
	return nil
}
