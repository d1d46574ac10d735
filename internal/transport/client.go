package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	apiv1 "modsource/api/v1"
	"modsource/plugin"
)

// LoaderClient implements plugin.Loader against a remote registry host.
type LoaderClient struct {
	conn *grpc.ClientConn
	svc  apiv1.LoaderClient
}

func Dial(target string, opts ...grpc.DialOption) (*LoaderClient, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	cc, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &LoaderClient{conn: cc, svc: apiv1.NewLoaderClient(cc)}, nil
}

// Load invokes the descriptor's rule on the registry host. Registry misses
// come back as *plugin.RegistryError.
func (c *LoaderClient) Load(ctx context.Context, d plugin.Descriptor, source string) (string, error) {
	resp, err := c.svc.Invoke(ctx, &apiv1.InvokeRequest{
		Session:   d.Session,
		RuleIndex: d.RuleIndex,
		Path:      d.Path,
		Source:    []byte(source),
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return "", &plugin.RegistryError{Kind: plugin.ErrUnknownSession, Session: d.Session, RuleIndex: d.RuleIndex}
		case codes.OutOfRange:
			return "", &plugin.RegistryError{Kind: plugin.ErrUnknownRule, Session: d.Session, RuleIndex: d.RuleIndex}
		}
		return "", err
	}
	return string(resp.Source), nil
}

func (c *LoaderClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
