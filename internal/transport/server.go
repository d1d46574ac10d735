package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	apiv1 "modsource/api/v1"
	"modsource/internal/logging"
	"modsource/plugin"
)

// InvocationRecorder is satisfied by telemetry.Metrics.
type InvocationRecorder interface {
	Invocation(outcome string)
}

type Server struct {
	grpc   *grpc.Server
	lis    net.Listener
	health *health.Server
}

// StartServer listens on port and serves the registry's Loader service.
func StartServer(port int, reg *plugin.Registry, rec InvocationRecorder) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return NewServer(lis, reg, rec), nil
}

// NewServer registers the Loader and health services on an existing listener.
func NewServer(lis net.Listener, reg *plugin.Registry, rec InvocationRecorder) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		lis:    lis,
		health: health.NewServer(),
	}
	apiv1.RegisterLoaderServer(s.grpc, &loaderService{reg: reg, rec: rec})
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(apiv1.Loader_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

type loaderService struct {
	apiv1.UnimplementedLoaderServer
	reg *plugin.Registry
	rec InvocationRecorder
}

func (l *loaderService) Invoke(ctx context.Context, req *apiv1.InvokeRequest) (*apiv1.InvokeResponse, error) {
	out, err := l.reg.InvokeContext(ctx, req.Session, req.RuleIndex, string(req.Source), req.Path)
	if err != nil {
		var re *plugin.RegistryError
		if errors.As(err, &re) {
			l.record("miss")
			logging.L().Error("registry miss", "session", req.Session, "rule", req.RuleIndex, "path", req.Path)
			if errors.Is(err, plugin.ErrUnknownRule) {
				return nil, status.Error(codes.OutOfRange, err.Error())
			}
			return nil, status.Error(codes.NotFound, err.Error())
		}
		if ctx.Err() != nil {
			l.record("canceled")
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		l.record("error")
		return nil, status.Error(codes.Internal, err.Error())
	}
	l.record("ok")
	return &apiv1.InvokeResponse{Source: []byte(out)}, nil
}

func (l *loaderService) record(outcome string) {
	if l.rec != nil {
		l.rec.Invocation(outcome)
	}
}
