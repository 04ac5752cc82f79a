package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
)

// DefaultCallTimeout bounds each RPC unless WithCallTimeout says otherwise.
const DefaultCallTimeout = 5 * time.Second

// Client calls the control service.
type Client struct {
	// conn is the underlying gRPC connection to p1-alert.
	conn *grpc.ClientConn
	// health is the standard health client on the same connection.
	health healthpb.HealthClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// dialOptions are appended to the transport defaults.
	dialOptions []grpc.DialOption
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithDialOptions adds gRPC dial options, e.g. a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// errAddressRequired is returned when the address is empty.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the service at address.
// The connection uses insecure transport credentials; the control surface
// listens on loopback by default.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, client.dialOptions...)

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial p1-alert: %w", err)
	}

	client.conn = conn
	client.health = healthpb.NewHealthClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Raise asks the service to open an alert cycle.
func (c *Client) Raise(ctx context.Context, actor *domain.Actor) (domain.Status, error) {
	return c.invoke(ctx, RaiseMethod, ActorToStruct(actor))
}

// Resolve asks the service to close the alert cycle.
func (c *Client) Resolve(ctx context.Context, actor *domain.Actor) (domain.Status, error) {
	return c.invoke(ctx, ResolveMethod, ActorToStruct(actor))
}

// GetState returns the current lifecycle status.
func (c *Client) GetState(ctx context.Context) (domain.Status, error) {
	return c.invoke(ctx, GetStateMethod, &emptypb.Empty{})
}

// Serving reports whether the health service says the control service is serving.
func (c *Client) Serving(ctx context.Context) (bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.health.Check(callCtx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return false, fmt.Errorf("health check: %w", err)
	}

	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

func (c *Client) invoke(ctx context.Context, method string, req any) (domain.Status, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, method, req, resp); err != nil {
		return domain.Status{}, fmt.Errorf("call %s: %w", method, err)
	}

	return StatusFromStruct(resp)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
