package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"xenos/core"
)

type uuidResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Legacy bool   `json:"legacy,omitempty"`
	Demo   bool   `json:"demo,omitempty"`
}

func uuidResponseFrom(p core.UuidPayload) uuidResponse {
	return uuidResponse{ID: core.Dashed(p.UUID), Name: p.Name, Legacy: p.Legacy, Demo: p.Demo}
}

type uuidBatchResponse struct {
	Name  string `json:"name"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type propertyResponse struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

type profileResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Properties []propertyResponse `json:"properties"`
}

func profileResponseFrom(p core.ProfilePayload) profileResponse {
	props := make([]propertyResponse, 0, len(p.Properties))
	for _, prop := range p.Properties {
		props = append(props, propertyResponse{Name: prop.Name, Value: prop.Value, Signature: prop.Signature})
	}
	return profileResponse{ID: core.Dashed(p.UUID), Name: p.Name, Properties: props}
}

func (s *Server) handleUUID(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := core.ValidateNameLength(name); err != nil {
		writeError(w, err)
		return
	}
	payload, err := s.resolver.ResolveUUID(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uuidResponseFrom(payload))
}

func (s *Server) handleUUIDs(w http.ResponseWriter, r *http.Request) {
	var names []string
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		writeError(w, core.NewError(core.KindInvalidInput, "malformed request body", err))
		return
	}
	for _, n := range names {
		if err := core.ValidateNameLength(n); err != nil {
			writeError(w, err)
			return
		}
	}
	items, err := s.resolver.ResolveUUIDs(r.Context(), names)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]uuidBatchResponse, len(items))
	for i, it := range items {
		resp := uuidBatchResponse{Name: it.Requested}
		if it.Payload != nil {
			resp.ID = core.Dashed(it.Payload.UUID)
		} else if it.Err != nil {
			if !core.IsNotFound(it.Err) {
				resp.Error = it.Err.Error()
			}
		}
		out[i] = resp
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUUID(mux.Vars(r)["uuid"])
	if err != nil {
		writeError(w, core.NewError(core.KindInvalidInput, "malformed uuid", err))
		return
	}
	signed := r.URL.Query().Get("signed") == "true"
	payload, err := s.resolver.ResolveProfile(r.Context(), id, signed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponseFrom(payload))
}

func (s *Server) handleSkin(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUUID(mux.Vars(r)["uuid"])
	if err != nil {
		writeError(w, core.NewError(core.KindInvalidInput, "malformed uuid", err))
		return
	}
	b, err := s.resolver.ResolveSkin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, b)
}

func (s *Server) handleCape(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUUID(mux.Vars(r)["uuid"])
	if err != nil {
		writeError(w, core.NewError(core.KindInvalidInput, "malformed uuid", err))
		return
	}
	b, err := s.resolver.ResolveCape(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, b)
}

func (s *Server) handleHead(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUUID(mux.Vars(r)["uuid"])
	if err != nil {
		writeError(w, core.NewError(core.KindInvalidInput, "malformed uuid", err))
		return
	}
	overlay := r.URL.Query().Get("overlay") == "true"
	b, err := s.resolver.ResolveHead(r.Context(), id, overlay)
	if err != nil {
		writeError(w, err)
		return
	}
	writePNG(w, b)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	health := s.resolver.Health()
	status := http.StatusOK
	if !health.Ready() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// writeError maps a core.Kind to its HTTP status and writes a small JSON
// error body (§4.6: facades classify Kind into transport-specific codes).
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if e, ok := core.AsError(err); ok {
		switch e.Kind {
		case core.KindNotFound:
			status = http.StatusNotFound
		case core.KindInvalidInput:
			status = http.StatusBadRequest
		case core.KindRateLimited:
			status = http.StatusTooManyRequests
		case core.KindUnavailable:
			status = http.StatusServiceUnavailable
		case core.KindInternal:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
