package core

// Texture Decoder (§4.2): parses the base64+JSON "textures" profile
// property and extracts the 8×8 head crop (with optional overlay
// composite) from raw skin PNG bytes. Cape extraction needs no decoding —
// upstream cape bytes are served back unmodified (§4.2, §3).

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/draw"
	"image/png"
)

// Head crop rectangles, fixed by the Minecraft skin layout (§4.2).
const (
	headBaseX0, headBaseY0, headBaseX1, headBaseY1       = 8, 8, 16, 16
	headOverlayX0, headOverlayY0, headOverlayX1, headOverlayY1 = 40, 8, 48, 16
)

// DecodeTexturesProperty base64-decodes a profile's "textures" property
// value into its SKIN/CAPE URLs and model hint.
func DecodeTexturesProperty(valueBase64 string) (TexturesProperty, error) {
	raw, err := base64.StdEncoding.DecodeString(valueBase64)
	if err != nil {
		return TexturesProperty{}, NewError(KindInternal, "textures property not valid base64", err)
	}
	var tp TexturesProperty
	if err := json.Unmarshal(raw, &tp); err != nil {
		return TexturesProperty{}, NewError(KindInternal, "textures property not valid json", err)
	}
	return tp, nil
}

// FindTexturesProperty locates and decodes the single recognized
// "textures" property among props, if any (§3 invariant: exactly one
// property named "textures" is recognized; unknown properties are
// preserved verbatim elsewhere).
func FindTexturesProperty(props []Property) (TexturesProperty, bool, error) {
	for _, p := range props {
		if p.Name != "textures" {
			continue
		}
		tp, err := DecodeTexturesProperty(p.Value)
		if err != nil {
			return TexturesProperty{}, false, err
		}
		return tp, true, nil
	}
	return TexturesProperty{}, false, nil
}

// ExtractHead decodes skinPNG and returns an 8×8 PNG of the head (§4.2).
//
// Input skins are 64×64 or legacy 64×32; per §4.2 head extraction does not
// depend on the legacy arm/leg mirror-mapping, so both layouts are read
// directly at the fixed (8,8)-(16,16) / (40,8)-(48,16) rectangles.
//
// Design decision (§9 Open Question a): overlay compositing always applies
// wherever the overlay pixel's alpha channel is nonzero — there is no
// additional "ignore pixels matching a background color" rule. This is the
// exact behavior of image/draw's Over operator, so the contract and the
// implementation are definitionally the same thing; tests pin it.
var headEncodeBufferPool = NewBufferPool(64)

func ExtractHead(skinPNG []byte, overlay bool) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(skinPNG))
	if err != nil {
		return nil, NewError(KindInternal, "malformed skin png", err)
	}
	base := cropRGBA(img, headBaseX0, headBaseY0, headBaseX1, headBaseY1)
	if overlay {
		over := cropRGBA(img, headOverlayX0, headOverlayY0, headOverlayX1, headOverlayY1)
		draw.Draw(base, base.Bounds(), over, image.Point{}, draw.Over)
	}
	buf := headEncodeBufferPool.Acquire()
	defer headEncodeBufferPool.Release(buf)
	if err := png.Encode(buf, base); err != nil {
		return nil, NewError(KindInternal, "encode head png", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// ValidateSkinPNG reports whether b decodes as a well-formed PNG, without
// extracting anything. Used by the resolver to turn a malformed upstream
// skin into KindInternal only when a profile explicitly referenced a
// texture URL (§7) — a profile without one never reaches this check.
func ValidateSkinPNG(b []byte) error {
	if _, err := png.Decode(bytes.NewReader(b)); err != nil {
		return NewError(KindInternal, "malformed skin png", err)
	}
	return nil
}

// cropRGBA returns a new *image.RGBA holding exactly the (x0,y0)-(x1,y1)
// sub-rectangle of img, translated to the origin. Coordinates outside
// img's own bounds read as fully transparent, so undersized legacy skins
// never panic.
func cropRGBA(img image.Image, x0, y0, x1, y1 int) *image.RGBA {
	w, h := x1-x0, y1-y0
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	src := img.Bounds()
	for y := y0; y < y1; y++ {
		if y < src.Min.Y || y >= src.Max.Y {
			continue
		}
		for x := x0; x < x1; x++ {
			if x < src.Min.X || x >= src.Max.X {
				continue
			}
			out.Set(x-x0, y-y0, img.At(x, y))
		}
	}
	return out
}
