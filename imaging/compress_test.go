package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

// noisyImage builds an image with per-pixel variation so JPEG cannot
// compress it to nothing.
func noisyImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x*7 + y*13) % 256),
				G: uint8((x * y) % 256),
				B: uint8((x + y*3) % 256),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, dataURL string) image.Image {
	t.Helper()
	if !strings.HasPrefix(dataURL, "data:image/jpeg;base64,") {
		t.Fatalf("unexpected data URL prefix: %.40s", dataURL)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/jpeg;base64,"))
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestCompressBoundsLongerSide(t *testing.T) {
	src := encodePNG(t, noisyImage(4000, 3000))
	out, err := Compress(src, DefaultMaxSizeKB)
	if err != nil {
		t.Fatal(err)
	}
	img := decodeDataURL(t, out)
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		t.Errorf("output %dx%d exceeds %dpx bound", b.Dx(), b.Dy(), MaxDimension)
	}
	// aspect ratio 4:3 preserved
	if b.Dx() != 1200 || b.Dy() != 900 {
		t.Errorf("expected 1200x900, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestCompressSmallImagePassesThrough(t *testing.T) {
	src := encodePNG(t, noisyImage(300, 200))
	out, err := Compress(src, DefaultMaxSizeKB)
	if err != nil {
		t.Fatal(err)
	}
	b := decodeDataURL(t, out).Bounds()
	if b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("small image must keep its dimensions, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestCompressHitsSizeTarget(t *testing.T) {
	src := encodePNG(t, noisyImage(2400, 1800))
	out, err := Compress(src, DefaultMaxSizeKB)
	if err != nil {
		t.Fatal(err)
	}
	payload := strings.TrimPrefix(out, "data:image/jpeg;base64,")
	kb := float64(len(payload)) * 0.75 / 1024
	if kb > DefaultMaxSizeKB {
		t.Errorf("estimated size %.1f KB exceeds target %d KB", kb, DefaultMaxSizeKB)
	}
}

func TestCompressGracefulFloor(t *testing.T) {
	// an absurd 1 KB target cannot be met; the floor-quality result
	// must still come back rather than an error
	src := encodePNG(t, noisyImage(1200, 900))
	out, err := Compress(src, 1)
	if err != nil {
		t.Fatalf("floor behavior must not error: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Errorf("expected a data URL even at floor quality")
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	if _, err := Compress([]byte("definitely not an image"), DefaultMaxSizeKB); err == nil {
		t.Error("expected decode error for garbage input")
	}
}

func TestCompressDataURLRoundTrip(t *testing.T) {
	src := encodePNG(t, noisyImage(100, 100))
	wrapped := "data:image/png;base64," + base64.StdEncoding.EncodeToString(src)
	out, err := CompressDataURL(wrapped, ProofMaxSizeKB)
	if err != nil {
		t.Fatal(err)
	}
	if decodeDataURL(t, out).Bounds().Dx() != 100 {
		t.Error("round-tripped image lost its dimensions")
	}
}
