package transform

// Client wraps a transformer plugin (over gRPC or in‑process) and exposes a uniform API.
import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	apiv1 "modsource/api/v1"
)

type Client interface {
	Metadata(ctx context.Context) (*apiv1.MetadataResponse, error)
	Transform(ctx context.Context, req *apiv1.TransformRequest) (*apiv1.TransformResponse, error)
	Close() error
}

// GRPCClient dials a plugin over gRPC.
type GRPCClient struct {
	conn *grpc.ClientConn
	svc  apiv1.TransformerClient
}

func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{
		conn: conn,
		svc:  apiv1.NewTransformerClient(conn),
	}, nil
}

func (c *GRPCClient) Metadata(ctx context.Context) (*apiv1.MetadataResponse, error) {
	return c.svc.Metadata(ctx, &apiv1.MetadataRequest{})
}
func (c *GRPCClient) Transform(ctx context.Context, req *apiv1.TransformRequest) (*apiv1.TransformResponse, error) {
	return c.svc.Transform(ctx, req)
}
func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// InProcessClient adapts an in‑proc plugin compiled into the binary.
type InProcessClient struct {
	impl Transformer
}
type Transformer interface {
	Metadata(context.Context, *apiv1.MetadataRequest) (*apiv1.MetadataResponse, error)
	Transform(context.Context, *apiv1.TransformRequest) (*apiv1.TransformResponse, error)
}

func NewInProcessClient(impl Transformer) *InProcessClient { return &InProcessClient{impl: impl} }
func (c *InProcessClient) Metadata(ctx context.Context) (*apiv1.MetadataResponse, error) {
	return c.impl.Metadata(ctx, &apiv1.MetadataRequest{})
}
func (c *InProcessClient) Transform(ctx context.Context, req *apiv1.TransformRequest) (*apiv1.TransformResponse, error) {
	return c.impl.Transform(ctx, req)
}
func (c *InProcessClient) Close() error { return nil }
