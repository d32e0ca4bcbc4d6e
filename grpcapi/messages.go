// Package grpcapi exposes the Resolver over gRPC (§6). Protobuf codegen is
// out of scope (§1 Non-goals), so messages here are plain Go structs
// marshaled by a small JSON grpc/encoding.Codec (codec.go) instead of
// protoc-gen-go bindings; the ServiceDesc/handler/client shape below is
// grounded on the hand-inspected protoc-gen-go-grpc output in the example
// pack (storj overlay.pb.go) rather than on anything the teacher itself
// generates.
package grpcapi

// UuidRequest is the request for ProfileService.GetUuid.
type UuidRequest struct {
	Name string `json:"name"`
}

// UuidResponse is the response for ProfileService.GetUuid.
type UuidResponse struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Legacy bool   `json:"legacy,omitempty"`
	Demo   bool   `json:"demo,omitempty"`
}

// UuidsRequest is the request for ProfileService.GetUuids (§4.4, at most 10
// names resolved per upstream call, batched transparently by the Resolver).
type UuidsRequest struct {
	Names []string `json:"names"`
}

// UuidsResponseItem is one element of UuidsResponse.Items, in request order.
type UuidsResponseItem struct {
	Name  string `json:"name"`
	Id    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// UuidsResponse is the response for ProfileService.GetUuids.
type UuidsResponse struct {
	Items []UuidsResponseItem `json:"items"`
}

// ProfileRequest is the request for ProfileService.GetProfile.
type ProfileRequest struct {
	Uuid   string `json:"uuid"`
	Signed bool   `json:"signed,omitempty"`
}

// Property mirrors core.Property on the wire.
type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

// ProfileResponse is the response for ProfileService.GetProfile.
type ProfileResponse struct {
	Uuid       string     `json:"uuid"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// TextureRequest is the request for ProfileService.GetSkin/GetCape.
type TextureRequest struct {
	Uuid string `json:"uuid"`
}

// HeadRequest is the request for ProfileService.GetHead.
type HeadRequest struct {
	Uuid    string `json:"uuid"`
	Overlay bool   `json:"overlay,omitempty"`
}

// ImageResponse carries raw PNG bytes, shared by GetSkin/GetCape/GetHead.
type ImageResponse struct {
	PngData []byte `json:"png_data"`
}
