package grpcapi

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xenos/core"
)

// handler implements ProfileServiceServer against a core.ResolverContext.
type handler struct {
	resolver *core.ResolverContext
}

// NewHandler constructs the gRPC-facing ProfileServiceServer.
func NewHandler(resolver *core.ResolverContext) ProfileServiceServer {
	return &handler{resolver: resolver}
}

// toStatus maps a core.Kind to its gRPC status code (§4.6).
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	code := codes.Internal
	if e, ok := core.AsError(err); ok {
		switch e.Kind {
		case core.KindNotFound:
			code = codes.NotFound
		case core.KindInvalidInput:
			code = codes.InvalidArgument
		case core.KindRateLimited:
			code = codes.ResourceExhausted
		case core.KindUnavailable:
			code = codes.Unavailable
		case core.KindInternal:
			code = codes.Internal
		}
	}
	return status.Error(code, err.Error())
}

func (h *handler) GetUuid(ctx context.Context, req *UuidRequest) (*UuidResponse, error) {
	if err := core.ValidateNameLength(req.Name); err != nil {
		return nil, toStatus(err)
	}
	p, err := h.resolver.ResolveUUID(ctx, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &UuidResponse{Id: core.Dashed(p.UUID), Name: p.Name, Legacy: p.Legacy, Demo: p.Demo}, nil
}

func (h *handler) GetUuids(ctx context.Context, req *UuidsRequest) (*UuidsResponse, error) {
	for _, n := range req.Names {
		if err := core.ValidateNameLength(n); err != nil {
			return nil, toStatus(err)
		}
	}
	items, err := h.resolver.ResolveUUIDs(ctx, req.Names)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]UuidsResponseItem, len(items))
	for i, it := range items {
		resp := UuidsResponseItem{Name: it.Requested}
		switch {
		case it.Payload != nil:
			resp.Id = core.Dashed(it.Payload.UUID)
		case it.Err != nil && !core.IsNotFound(it.Err):
			resp.Error = it.Err.Error()
		}
		out[i] = resp
	}
	return &UuidsResponse{Items: out}, nil
}

func (h *handler) GetProfile(ctx context.Context, req *ProfileRequest) (*ProfileResponse, error) {
	id, err := core.ParseUUID(req.Uuid)
	if err != nil {
		return nil, toStatus(core.NewError(core.KindInvalidInput, "malformed uuid", err))
	}
	p, err := h.resolver.ResolveProfile(ctx, id, req.Signed)
	if err != nil {
		return nil, toStatus(err)
	}
	props := make([]Property, 0, len(p.Properties))
	for _, prop := range p.Properties {
		props = append(props, Property{Name: prop.Name, Value: prop.Value, Signature: prop.Signature})
	}
	return &ProfileResponse{Uuid: core.Dashed(p.UUID), Name: p.Name, Properties: props}, nil
}

func (h *handler) GetSkin(ctx context.Context, req *TextureRequest) (*ImageResponse, error) {
	id, err := core.ParseUUID(req.Uuid)
	if err != nil {
		return nil, toStatus(core.NewError(core.KindInvalidInput, "malformed uuid", err))
	}
	b, err := h.resolver.ResolveSkin(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ImageResponse{PngData: b}, nil
}

func (h *handler) GetCape(ctx context.Context, req *TextureRequest) (*ImageResponse, error) {
	id, err := core.ParseUUID(req.Uuid)
	if err != nil {
		return nil, toStatus(core.NewError(core.KindInvalidInput, "malformed uuid", err))
	}
	b, err := h.resolver.ResolveCape(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ImageResponse{PngData: b}, nil
}

func (h *handler) GetHead(ctx context.Context, req *HeadRequest) (*ImageResponse, error) {
	id, err := core.ParseUUID(req.Uuid)
	if err != nil {
		return nil, toStatus(core.NewError(core.KindInvalidInput, "malformed uuid", err))
	}
	b, err := h.resolver.ResolveHead(ctx, id, req.Overlay)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ImageResponse{PngData: b}, nil
}
