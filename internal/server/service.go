// ============================================================================
// cpusched gRPC Service Definition
// ============================================================================
//
// Package: internal/server
// File: service.go
//
// Service cpusched.v1.Simulator
//   rpc Simulate(google.protobuf.Struct) returns (google.protobuf.Struct)
//   rpc Compare(google.protobuf.Struct) returns (google.protobuf.Struct)
//
// Request fields:
//   algorithm   string       (Simulate)
//   algorithms  []string     (Compare, optional, default all five)
//   quantum     int          (Round-Robin only)
//   tasks       []Task       (id, arrival_time, burst_time, priority)
//
// Response fields:
//   run_id      string
//   report      Report       (Simulate)
//   reports     []Report     (Compare)
//
// Messages use google.protobuf.Struct so the service needs no generated code;
// the descriptor below is what protoc-gen-go-grpc would emit for it.
//
// ============================================================================

package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "cpusched.v1.Simulator"

	simulateMethod = "/" + ServiceName + "/Simulate"
	compareMethod  = "/" + ServiceName + "/Compare"
)

// SimulatorServer is the server API for the Simulator service
type SimulatorServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSimulatorServer registers srv on s
func RegisterSimulatorServer(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&simulatorServiceDesc, srv)
}

func simulateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Simulate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: simulateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).Simulate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func compareHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Compare(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: compareMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).Compare(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var simulatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: simulateHandler},
		{MethodName: "Compare", Handler: compareHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cpusched/v1/simulator.proto",
}
