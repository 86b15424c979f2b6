// Package proto declares the advisor gRPC service. Requests and responses
// travel as google.protobuf.Struct messages carrying the JSON form of the
// domain types, so both sides share one schema without generated code.
package proto

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName        = "goban.advisor.Advisor"
	GenerateMoveMethod = "/" + ServiceName + "/GenerateMove"
	AnalyzeMethod      = "/" + ServiceName + "/Analyze"
)

type AdvisorServer interface {
	GenerateMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type AdvisorClient interface {
	GenerateMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Analyze(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type advisorClient struct {
	cc grpc.ClientConnInterface
}

func NewAdvisorClient(cc grpc.ClientConnInterface) AdvisorClient {
	return &advisorClient{cc: cc}
}

func (c *advisorClient) GenerateMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GenerateMoveMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *advisorClient) Analyze(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AnalyzeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterAdvisorServer(s grpc.ServiceRegistrar, srv AdvisorServer) {
	s.RegisterService(&Advisor_ServiceDesc, srv)
}

var Advisor_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdvisorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GenerateMove",
			Handler:    generateMoveHandler,
		},
		{
			MethodName: "Analyze",
			Handler:    analyzeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "advisor.proto",
}

func generateMoveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdvisorServer).GenerateMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GenerateMoveMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdvisorServer).GenerateMove(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func analyzeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdvisorServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AnalyzeMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdvisorServer).Analyze(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Encode converts v to a Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	s := new(structpb.Struct)
	if err = protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("convert %T to struct: %w", v, err)
	}
	return s, nil
}

// Decode fills v from the JSON form of s.
func Decode(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("convert struct: %w", err)
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return nil
}
