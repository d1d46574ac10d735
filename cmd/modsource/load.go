package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"modsource/internal/transport"
	"modsource/plugin"
)

var loadCmd = &cobra.Command{
	Use:   "load [flags] [file]",
	Short: "Execute one pending step against a running registry host",
	Long: `Load reads a module source (file argument or stdin), sends it to the registry
host named by --addr with the step's session and rule index, and writes the
transformed source to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("addr", "localhost:7070", "registry host address")
	loadCmd.Flags().String("session", "", "session token from the step options")
	loadCmd.Flags().Int("rule", 0, "rule index from the step options")
	loadCmd.Flags().String("path", "", "canonical module path from the step options")
	loadCmd.Flags().Duration("timeout", 10*time.Second, "call timeout")
}

func runLoad(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	addr, err := flags.GetString("addr")
	if err != nil {
		return fmt.Errorf("failed to get addr flag: %w", err)
	}
	var d plugin.Descriptor
	if d.Session, err = flags.GetString("session"); err != nil {
		return fmt.Errorf("failed to get session flag: %w", err)
	}
	if d.RuleIndex, err = flags.GetInt("rule"); err != nil {
		return fmt.Errorf("failed to get rule flag: %w", err)
	}
	if d.Path, err = flags.GetString("path"); err != nil {
		return fmt.Errorf("failed to get path flag: %w", err)
	}
	timeout, err := flags.GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}
	if d.Session == "" {
		return fmt.Errorf("--session is required")
	}

	var src []byte
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
		if d.Path == "" {
			d.Path = plugin.CanonicalPath(args[0])
		}
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	client, err := transport.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	out, err := client.Load(ctx, d, string(src))
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}
