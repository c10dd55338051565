// Package paymentrpc defines the agency.payment.v1.Payment gRPC service.
//
// Messages travel as google.protobuf.Struct values, so no generated code is
// needed. PayRequest and PayResponse convert to and from the wire form.
package paymentrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName   = "agency.payment.v1.Payment"
	PayFullMethod = "/" + ServiceName + "/Pay"
)

// Server is the server API for the Payment service.
type Server interface {
	Pay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc is the grpc.ServiceDesc for the Payment service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Pay", Handler: payHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "agency/payment/v1/payment.proto",
}

// Register adds srv to s.
func Register(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}

func payHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Pay(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PayFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Pay(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is the client API for the Payment service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Pay(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PayFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
