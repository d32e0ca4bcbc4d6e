package core

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// buildSkin paints a 64x64 RGBA skin with the given base-head and
// overlay-head colors, everything else left transparent.
func buildSkin(base, overlay color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := headBaseY0; y < headBaseY1; y++ {
		for x := headBaseX0; x < headBaseX1; x++ {
			img.SetRGBA(x, y, base)
		}
	}
	for y := headOverlayY0; y < headOverlayY1; y++ {
		for x := headOverlayX0; x < headOverlayX1; x++ {
			img.SetRGBA(x, y, overlay)
		}
	}
	return img
}

func TestExtractHeadWithoutOverlay(t *testing.T) {
	base := color.RGBA{R: 200, G: 10, B: 10, A: 255}
	overlay := color.RGBA{R: 10, G: 200, B: 10, A: 255}
	skinPNG := encodePNG(t, buildSkin(base, overlay))

	out, err := ExtractHead(skinPNG, false)
	if err != nil {
		t.Fatalf("ExtractHead failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode head png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("expected 8x8 head, got %dx%d", b.Dx(), b.Dy())
	}
	r, g, bl, _ := img.At(0, 0).RGBA()
	if r>>8 != uint32(base.R) || g>>8 != uint32(base.G) || bl>>8 != uint32(base.B) {
		t.Fatalf("expected base color at (0,0), got r=%d g=%d b=%d", r>>8, g>>8, bl>>8)
	}
}

func TestExtractHeadWithOverlayOpaqueWins(t *testing.T) {
	base := color.RGBA{R: 200, G: 10, B: 10, A: 255}
	overlay := color.RGBA{R: 10, G: 200, B: 10, A: 255}
	skinPNG := encodePNG(t, buildSkin(base, overlay))

	out, err := ExtractHead(skinPNG, true)
	if err != nil {
		t.Fatalf("ExtractHead failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode head png: %v", err)
	}
	r, g, bl, _ := img.At(0, 0).RGBA()
	if r>>8 != uint32(overlay.R) || g>>8 != uint32(overlay.G) || bl>>8 != uint32(overlay.B) {
		t.Fatalf("expected opaque overlay color to fully replace base, got r=%d g=%d b=%d", r>>8, g>>8, bl>>8)
	}
}

func TestExtractHeadOverlayTransparentLeavesBaseUntouched(t *testing.T) {
	base := color.RGBA{R: 200, G: 10, B: 10, A: 255}
	transparentOverlay := color.RGBA{}
	skinPNG := encodePNG(t, buildSkin(base, transparentOverlay))

	out, err := ExtractHead(skinPNG, true)
	if err != nil {
		t.Fatalf("ExtractHead failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode head png: %v", err)
	}
	r, g, bl, _ := img.At(0, 0).RGBA()
	if r>>8 != uint32(base.R) || g>>8 != uint32(base.G) || bl>>8 != uint32(base.B) {
		t.Fatalf("fully transparent overlay must not alter base color, got r=%d g=%d b=%d", r>>8, g>>8, bl>>8)
	}
}

func TestExtractHeadLegacySkinDoesNotPanic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := headBaseY0; y < headBaseY1; y++ {
		for x := headBaseX0; x < headBaseX1; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 1, G: 2, B: 3, A: 255})
		}
	}
	legacyPNG := encodePNG(t, img)

	out, err := ExtractHead(legacyPNG, true)
	if err != nil {
		t.Fatalf("ExtractHead on legacy 64x32 skin failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("decode head png: %v", err)
	}
}

func TestExtractHeadMalformedInput(t *testing.T) {
	if _, err := ExtractHead([]byte("not a png"), false); err == nil {
		t.Fatal("expected error for malformed png input")
	}
}

func TestValidateSkinPNG(t *testing.T) {
	good := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 64, 64)))
	if err := ValidateSkinPNG(good); err != nil {
		t.Fatalf("expected valid png to pass, got %v", err)
	}
	if err := ValidateSkinPNG([]byte("garbage")); err == nil {
		t.Fatal("expected malformed png to fail validation")
	}
}

func TestDecodeTexturesProperty(t *testing.T) {
	tp := TexturesProperty{
		ProfileID:   "abc",
		ProfileName: "Steve",
		Textures: TexturesPropertyURLs{
			Skin: &TextureURL{URL: "https://textures.minecraft.net/texture/abcd", Metadata: map[string]string{"model": "slim"}},
			Cape: &TextureURL{URL: "https://textures.minecraft.net/texture/efgh"},
		},
	}
	raw, err := json.Marshal(tp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeTexturesProperty(encoded)
	if err != nil {
		t.Fatalf("DecodeTexturesProperty failed: %v", err)
	}
	if got.Textures.Skin == nil || got.Textures.Skin.URL != tp.Textures.Skin.URL {
		t.Fatalf("unexpected skin url: %+v", got.Textures.Skin)
	}
	if got.Textures.Skin.SkinModel() != "slim" {
		t.Fatalf("expected slim model, got %q", got.Textures.Skin.SkinModel())
	}
	if got.Textures.Cape == nil || got.Textures.Cape.URL != tp.Textures.Cape.URL {
		t.Fatalf("unexpected cape url: %+v", got.Textures.Cape)
	}
}

func TestDecodeTexturesPropertyInvalidBase64(t *testing.T) {
	if _, err := DecodeTexturesProperty("not-base64!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestFindTexturesPropertyIgnoresUnknownProperties(t *testing.T) {
	props := []Property{{Name: "unrelated", Value: "xyz"}}
	_, found, err := FindTexturesProperty(props)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected no textures property to be found")
	}
}

func TestDefaultSkinPNGSelectsModel(t *testing.T) {
	if string(DefaultSkinPNG("slim")) != string(defaultSkinSlimPNG) {
		t.Fatal("expected slim model to return the embedded slim skin")
	}
	if string(DefaultSkinPNG("classic")) != string(defaultSkinClassicPNG) {
		t.Fatal("expected classic model to return the embedded classic skin")
	}
	if string(DefaultSkinPNG("")) != string(defaultSkinClassicPNG) {
		t.Fatal("expected unrecognized model to fall back to classic")
	}
}
