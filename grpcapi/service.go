package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// ProfileServiceServer is the server API for ProfileService.
type ProfileServiceServer interface {
	GetUuid(context.Context, *UuidRequest) (*UuidResponse, error)
	GetUuids(context.Context, *UuidsRequest) (*UuidsResponse, error)
	GetProfile(context.Context, *ProfileRequest) (*ProfileResponse, error)
	GetSkin(context.Context, *TextureRequest) (*ImageResponse, error)
	GetCape(context.Context, *TextureRequest) (*ImageResponse, error)
	GetHead(context.Context, *HeadRequest) (*ImageResponse, error)
}

// RegisterProfileServiceServer registers srv on s, the same shape
// protoc-gen-go-grpc emits (grpc.ServiceDesc + grpc.MethodDesc per RPC).
func RegisterProfileServiceServer(s *grpc.Server, srv ProfileServiceServer) {
	s.RegisterService(&profileServiceDesc, srv)
}

func profileGetUuidHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UuidRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).GetUuid(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xenos.ProfileService/GetUuid"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileServiceServer).GetUuid(ctx, req.(*UuidRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func profileGetUuidsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UuidsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).GetUuids(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xenos.ProfileService/GetUuids"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileServiceServer).GetUuids(ctx, req.(*UuidsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func profileGetProfileHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProfileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).GetProfile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xenos.ProfileService/GetProfile"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileServiceServer).GetProfile(ctx, req.(*ProfileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func profileGetSkinHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TextureRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).GetSkin(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xenos.ProfileService/GetSkin"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileServiceServer).GetSkin(ctx, req.(*TextureRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func profileGetCapeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TextureRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).GetCape(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xenos.ProfileService/GetCape"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileServiceServer).GetCape(ctx, req.(*TextureRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func profileGetHeadHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HeadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).GetHead(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xenos.ProfileService/GetHead"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProfileServiceServer).GetHead(ctx, req.(*HeadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var profileServiceDesc = grpc.ServiceDesc{
	ServiceName: "xenos.ProfileService",
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUuid", Handler: profileGetUuidHandler},
		{MethodName: "GetUuids", Handler: profileGetUuidsHandler},
		{MethodName: "GetProfile", Handler: profileGetProfileHandler},
		{MethodName: "GetSkin", Handler: profileGetSkinHandler},
		{MethodName: "GetCape", Handler: profileGetCapeHandler},
		{MethodName: "GetHead", Handler: profileGetHeadHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "xenos/profile_service.go",
}

// profileServiceClient is a thin hand-written client, the same shape
// protoc-gen-go-grpc emits around a *grpc.ClientConn.
type profileServiceClient struct {
	cc *grpc.ClientConn
}

// NewProfileServiceClient constructs a client against cc.
func NewProfileServiceClient(cc *grpc.ClientConn) ProfileServiceServer {
	return &profileServiceClient{cc: cc}
}

func (c *profileServiceClient) GetUuid(ctx context.Context, in *UuidRequest) (*UuidResponse, error) {
	out := new(UuidResponse)
	if err := c.cc.Invoke(ctx, "/xenos.ProfileService/GetUuid", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *profileServiceClient) GetUuids(ctx context.Context, in *UuidsRequest) (*UuidsResponse, error) {
	out := new(UuidsResponse)
	if err := c.cc.Invoke(ctx, "/xenos.ProfileService/GetUuids", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *profileServiceClient) GetProfile(ctx context.Context, in *ProfileRequest) (*ProfileResponse, error) {
	out := new(ProfileResponse)
	if err := c.cc.Invoke(ctx, "/xenos.ProfileService/GetProfile", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *profileServiceClient) GetSkin(ctx context.Context, in *TextureRequest) (*ImageResponse, error) {
	out := new(ImageResponse)
	if err := c.cc.Invoke(ctx, "/xenos.ProfileService/GetSkin", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *profileServiceClient) GetCape(ctx context.Context, in *TextureRequest) (*ImageResponse, error) {
	out := new(ImageResponse)
	if err := c.cc.Invoke(ctx, "/xenos.ProfileService/GetCape", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *profileServiceClient) GetHead(ctx context.Context, in *HeadRequest) (*ImageResponse, error) {
	out := new(ImageResponse)
	if err := c.cc.Invoke(ctx, "/xenos.ProfileService/GetHead", in, out); err != nil {
		return nil, err
	}
	return out, nil
}
