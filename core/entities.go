package core

import (
	"strings"

	"github.com/google/uuid"
)

// UUID is the canonical 128-bit identifier used internally. It is produced
// by ParseUUID from either dashed or undashed textual forms and always
// re-serialized dashed by Dashed().
type UUID = uuid.UUID

// ParseUUID accepts both dashed and undashed 32-hex-digit forms, per §4.6.
func ParseUUID(s string) (UUID, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "-") && len(s) == 32 {
		dashed := s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
		return uuid.Parse(dashed)
	}
	return uuid.Parse(s)
}

// Dashed returns the canonical dashed textual form of id.
func Dashed(id UUID) string { return id.String() }

// NormalizeName lowercases a username for use as a cache/single-flight key.
// The original casing must be preserved by the caller for response display.
func NormalizeName(name string) string { return strings.ToLower(name) }

// maxNameBytes is the longest username either facade accepts (§4.6: "names
// are rejected if longer than 25 bytes").
const maxNameBytes = 25

// ValidateNameLength rejects a name longer than maxNameBytes before it ever
// reaches the resolver or upstream. Shared by both facades so the 25-byte
// limit is enforced identically regardless of transport.
func ValidateNameLength(name string) error {
	if len(name) > maxNameBytes {
		return NewError(KindInvalidInput, "name exceeds 25 bytes", nil)
	}
	return nil
}

// UuidPayload is the positive payload of a UuidEntry.
type UuidPayload struct {
	Name   string `json:"name"` // canonical case as returned by upstream
	UUID   UUID   `json:"uuid"`
	Legacy bool   `json:"legacy,omitempty"`
	Demo   bool   `json:"demo,omitempty"`
}

// Property is one element of a ProfilePayload's Properties list. Unknown
// property names are preserved verbatim; only "textures" is interpreted.
type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"` // base64
	Signature string `json:"signature,omitempty"`
}

// ProfilePayload is the positive payload of a ProfileEntry.
type ProfilePayload struct {
	UUID       UUID       `json:"uuid"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// TexturesProperty is the decoded JSON object carried base64-encoded inside
// the "textures" Property value.
type TexturesProperty struct {
	Timestamp   int64                `json:"timestamp"`
	ProfileID   string               `json:"profileId"`
	ProfileName string               `json:"profileName"`
	Textures    TexturesPropertyURLs `json:"textures"`
}

// TexturesPropertyURLs carries the optional skin/cape URLs and model hint.
type TexturesPropertyURLs struct {
	Skin *TextureURL `json:"SKIN,omitempty"`
	Cape *TextureURL `json:"CAPE,omitempty"`
}

// TextureURL is a single texture URL entry, optionally carrying a model
// hint ("classic" or "slim") in its Metadata.
type TextureURL struct {
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SkinModel returns "slim" or "classic" (the default) for a skin texture URL.
func (u TextureURL) SkinModel() string {
	if u.Metadata != nil && u.Metadata["model"] == "slim" {
		return "slim"
	}
	return "classic"
}
