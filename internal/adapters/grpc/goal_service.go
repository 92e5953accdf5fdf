package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// GoalServiceName is the fully qualified gRPC service name
const GoalServiceName = "goaltracker.v1.GoalService"

// Method names of GoalService
const (
	MethodGetDeficit  = "GetDeficit"
	MethodSwitchGoal  = "SwitchGoal"
	MethodListPresets = "ListPresets"
)

// GoalServiceServer is the server API for GoalService.
// Messages are google.protobuf.Struct documents; field names are snake_case.
type GoalServiceServer interface {
	GetDeficit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SwitchGoal(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListPresets(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterGoalServiceServer registers srv on a gRPC server
func RegisterGoalServiceServer(s grpc.ServiceRegistrar, srv GoalServiceServer) {
	s.RegisterService(&goalServiceDesc, srv)
}

type unaryMethod func(GoalServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, method unaryMethod) grpc.MethodHandler {
	fullMethod := "/" + GoalServiceName + "/" + name
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(GoalServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(srv.(GoalServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var goalServiceDesc = grpc.ServiceDesc{
	ServiceName: GoalServiceName,
	HandlerType: (*GoalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodGetDeficit, Handler: unaryHandler(MethodGetDeficit, GoalServiceServer.GetDeficit)},
		{MethodName: MethodSwitchGoal, Handler: unaryHandler(MethodSwitchGoal, GoalServiceServer.SwitchGoal)},
		{MethodName: MethodListPresets, Handler: unaryHandler(MethodListPresets, GoalServiceServer.ListPresets)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "goaltracker/v1/goal_service.proto",
}
