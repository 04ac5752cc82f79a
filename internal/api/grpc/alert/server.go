package alert

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/logger"
	"github.com/oshokin/p1-alert/internal/metrics"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "p1alert.v1.AlertService"

// Full method names.
const (
	RaiseMethod    = "/" + ServiceName + "/Raise"
	ResolveMethod  = "/" + ServiceName + "/Resolve"
	GetStateMethod = "/" + ServiceName + "/GetState"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	// Submit queues event on behalf of actor and returns the current status.
	Submit(ctx context.Context, actor *domain.Actor, event domain.Event) (domain.Status, error)
	// Status returns the current status.
	Status(ctx context.Context) domain.Status
}

// AlertServiceServer is the server API of the control surface.
type AlertServiceServer interface {
	Raise(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the control service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level in grpc-go.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlertServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Raise",
			Handler: unaryHandler(RaiseMethod, newStruct, func(ctx context.Context, srv AlertServiceServer, req any) (any, error) {
				return srv.Raise(ctx, req.(*structpb.Struct))
			}),
		},
		{
			MethodName: "Resolve",
			Handler: unaryHandler(ResolveMethod, newStruct, func(ctx context.Context, srv AlertServiceServer, req any) (any, error) {
				return srv.Resolve(ctx, req.(*structpb.Struct))
			}),
		},
		{
			MethodName: "GetState",
			Handler: unaryHandler(GetStateMethod, newEmpty, func(ctx context.Context, srv AlertServiceServer, req any) (any, error) {
				return srv.GetState(ctx, req.(*emptypb.Empty))
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "p1alert/v1/alert.proto",
}

// Server implements AlertServiceServer on top of a Service.
type Server struct {
	// service provides the business logic for lifecycle operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Register adds the control service to gs.
func Register(gs grpc.ServiceRegistrar, srv AlertServiceServer) {
	gs.RegisterService(&ServiceDesc, srv)
}

// Raise queues a Raise event.
func (s *Server) Raise(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.submit(ctx, req, domain.Raise)
}

// Resolve queues a Resolve event.
func (s *Server) Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.submit(ctx, req, domain.Resolve)
}

// GetState returns the current lifecycle status.
func (s *Server) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return StatusToStruct(s.service.Status(ctx)), nil
}

func (s *Server) submit(ctx context.Context, req *structpb.Struct, event domain.Event) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor := actorFromStruct(req)
	if actor == nil {
		return nil, status.Error(codes.InvalidArgument, "actor is required")
	}

	current, err := s.service.Submit(ctx, actor, event)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to queue event")
	}

	return StatusToStruct(current), nil
}

// UnaryServerInterceptor logs each control call and counts it by status code.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		metrics.ControlRequests.WithLabelValues(info.FullMethod, code.String()).Inc()
		logger.DebugKV(ctx, "Control call handled",
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(started).String())

		return resp, err
	}
}

func newStruct() any { return new(structpb.Struct) }

func newEmpty() any { return new(emptypb.Empty) }

// unaryHandler builds the method handler grpc-go expects for a unary call.
func unaryHandler(
	fullMethod string,
	newRequest func() any,
	call func(ctx context.Context, srv AlertServiceServer, req any) (any, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	//nolint:revive // Argument order is fixed by grpc.MethodDesc.
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}

		impl, _ := srv.(AlertServiceServer)

		if interceptor == nil {
			return call(ctx, impl, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(ctx, impl, req)
		})
	}
}
