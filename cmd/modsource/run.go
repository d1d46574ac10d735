package main

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"modsource/host"
	"modsource/internal/pipeline"
	"modsource/internal/telemetry"
	"modsource/internal/transport"
	"modsource/plugin"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <request>...",
	Short: "Observe module requests in one compilation and print their pending steps",
	Long: `Run a single compilation over the given module requests. Pending steps are
printed as JSON lines. With --exec the steps are executed against the files
the requests resolve to and the rewritten sources are printed instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompilation,
}

func init() {
	runCmd.Flags().Bool("exec", false, "execute pending steps and print the rewritten sources")
	runCmd.Flags().Bool("grpc", false, "with --exec, run loaders over a loopback gRPC transport")
	runCmd.Flags().String("dir", ".", "directory module paths are resolved against")
	runCmd.Flags().Int("concurrency", 4, "parallel loader executions")
}

func runCompilation(cmd *cobra.Command, args []string) error {
	exec, err := cmd.Flags().GetBool("exec")
	if err != nil {
		return fmt.Errorf("failed to get exec flag: %w", err)
	}
	overGRPC, err := cmd.Flags().GetBool("grpc")
	if err != nil {
		return fmt.Errorf("failed to get grpc flag: %w", err)
	}
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return fmt.Errorf("failed to get concurrency flag: %w", err)
	}

	rt, err := runtimeConfig(cmd)
	if err != nil {
		return err
	}
	path, err := rulesPath(cmd)
	if err != nil {
		return err
	}

	reg := plugin.NewRegistry()
	compiled, err := pipeline.Compile(path, pipeline.Settings{
		Registry: reg,
		Metrics:  telemetry.Default,
		Kafka:    rt.Kafka,
		Stdout:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer compiled.Close()

	compiler := host.NewCompiler(rt.HostVersion)
	if err := compiled.Plugin.Apply(compiler); err != nil {
		return err
	}
	comp, err := compiler.Compile()
	if err != nil {
		return err
	}
	defer comp.Finish()

	mods := make([]*host.Module, len(args))
	for i, req := range args {
		mods[i] = host.NewModule(req)
		if err := comp.Load(mods[i]); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !exec {
		for _, m := range mods {
			for _, st := range m.Steps() {
				if err := enc.Encode(map[string]any{"request": m.Request(), "loader": st.Loader, "options": st.Options}); err != nil {
					return err
				}
			}
		}
		return nil
	}

	var loader plugin.Loader = reg
	if overGRPC {
		client, stop, err := loopback(reg)
		if err != nil {
			return err
		}
		defer stop()
		loader = client
	}

	runner := host.NewRunner(loader, host.WithDir(dir), host.WithConcurrency(concurrency))
	results, err := runner.RunAll(cmd.Context(), mods)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// loopback serves reg on an ephemeral local port and dials it.
func loopback(reg *plugin.Registry) (*transport.LoaderClient, func(), error) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, nil, err
	}
	srv := transport.NewServer(lis, reg, telemetry.Default)
	go func() { _ = srv.Serve() }()

	client, err := transport.Dial(srv.Addr().String())
	if err != nil {
		srv.Stop()
		return nil, nil, err
	}
	return client, func() {
		_ = client.Close()
		srv.Stop()
	}, nil
}
