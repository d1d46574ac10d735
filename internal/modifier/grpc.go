package modifier

import (
	"io"
	"time"

	"modsource/internal/spec"
	"modsource/internal/transform"
	"modsource/plugin"
)

func grpcFactory(s spec.ModifySpec) (plugin.ContextModifyFunc, io.Closer, error) {
	cli, err := transform.NewGRPCClient(s.Address)
	if err != nil {
		return nil, nil, err
	}
	p := transform.Policy{
		Timeout:  time.Duration(s.TimeoutMS) * time.Millisecond,
		Attempts: s.RetryPolicy.Attempts,
		Backoff:  time.Duration(s.RetryPolicy.BackoffMS) * time.Millisecond,
	}
	return transform.Modifier(s.Address, cli, p), cli, nil
}

func init() { Register("grpc", grpcFactory) }
