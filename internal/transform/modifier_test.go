package transform

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	apiv1 "modsource/api/v1"
)

type fakeTransform struct {
	apiv1.UnimplementedTransformerServer
	calls int32
	mode  string
}

func (f *fakeTransform) Metadata(context.Context, *apiv1.MetadataRequest) (*apiv1.MetadataResponse, error) {
	return &apiv1.MetadataResponse{Name: "fake", Version: "0.0.1"}, nil
}

func (f *fakeTransform) Transform(ctx context.Context, req *apiv1.TransformRequest) (*apiv1.TransformResponse, error) {
	c := atomic.AddInt32(&f.calls, 1)
	switch f.mode {
	case "errorThenOK":
		if c == 1 {
			return nil, errors.New("transient")
		}
	case "invalid":
		return nil, status.Error(codes.InvalidArgument, "bad source")
	case "slow":
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &apiv1.TransformResponse{Source: []byte(req.Path + "|" + strings.ToUpper(string(req.Source)))}, nil
}

func TestModifier_InProcessOK(t *testing.T) {
	fake := &fakeTransform{mode: "ok"}
	fn := Modifier("t1", NewInProcessClient(fake), Policy{Timeout: 100 * time.Millisecond})
	out, err := fn(context.Background(), "hello", "a.txt")
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if out != "a.txt|HELLO" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestModifier_RetryThenOK(t *testing.T) {
	fake := &fakeTransform{mode: "errorThenOK"}
	fn := Modifier("t1", NewInProcessClient(fake), Policy{Attempts: 1, Backoff: time.Millisecond})
	if _, err := fn(context.Background(), "x", "p"); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if got := atomic.LoadInt32(&fake.calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestModifier_InvalidArgumentNotRetried(t *testing.T) {
	fake := &fakeTransform{mode: "invalid"}
	fn := Modifier("t1", NewInProcessClient(fake), Policy{Attempts: 3})
	_, err := fn(context.Background(), "x", "p")
	if status.Code(errors.Unwrap(err)) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if got := atomic.LoadInt32(&fake.calls); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestModifier_TimeoutPerAttempt(t *testing.T) {
	fake := &fakeTransform{mode: "slow"}
	fn := Modifier("t1", NewInProcessClient(fake), Policy{Timeout: 5 * time.Millisecond})
	if _, err := fn(context.Background(), "x", "p"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestModifier_CancelStopsRetries(t *testing.T) {
	fake := &fakeTransform{mode: "slow"}
	fn := Modifier("t1", NewInProcessClient(fake), Policy{Attempts: 5, Backoff: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := fn(ctx, "x", "p")
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("transform kept running after its context ended")
	}
	if got := atomic.LoadInt32(&fake.calls); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestGRPCClient_RoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	apiv1.RegisterTransformerServer(s, &fakeTransform{mode: "ok"})
	go func() { _ = s.Serve(lis) }()
	defer s.Stop()

	cli, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer cli.Close()

	md, err := cli.Metadata(context.Background())
	if err != nil || md.Name != "fake" {
		t.Fatalf("metadata: %+v, %v", md, err)
	}
	out, err := Modifier("remote", cli, Policy{Timeout: time.Second})(context.Background(), "abc", "dir/f.md")
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if out != "dir/f.md|ABC" {
		t.Fatalf("unexpected output %q", out)
	}
}
