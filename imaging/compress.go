package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"

	// register decoders for the formats clients actually upload
	_ "image/gif"
	_ "image/png"
)

const (
	// MaxDimension bounds the longer side of a compressed image
	MaxDimension = 1200

	// DefaultMaxSizeKB is the target for listing/profile photos
	DefaultMaxSizeKB = 500

	// ProofMaxSizeKB is the tighter target for pickup/delivery proof shots
	ProofMaxSizeKB = 200

	startQuality = 80
	stepQuality  = 10
	floorQuality = 10
)

var ErrDecode = errors.New("imaging: cannot decode image")

// Compress decodes raw image bytes, downsizes so neither dimension exceeds
// MaxDimension, then re-encodes as JPEG stepping quality down from 0.80 to a
// floor of 0.10 until the estimated encoded size fits maxSizeKB. The floor
// result is returned even when it still exceeds the target, so callers always
// get the smallest encoding the quality ladder can produce.
// Returns a data-URL string ready for direct storage.
func Compress(data []byte, maxSizeKB int) (string, error) {
	if maxSizeKB <= 0 {
		maxSizeKB = DefaultMaxSizeKB
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img := downscale(src)

	var encoded []byte
	for q := startQuality; ; q -= stepQuality {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return "", err
		}
		encoded = buf.Bytes()
		if estimatedKB(len(encoded)) <= float64(maxSizeKB) || q <= floorQuality {
			break
		}
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded), nil
}

// CompressDataURL strips a data-URL wrapper, decodes the base64 payload and
// recompresses it. Plain base64 without a data-URL prefix is accepted too.
func CompressDataURL(dataURL string, maxSizeKB int) (string, error) {
	payload := dataURL
	if i := strings.Index(dataURL, ","); i >= 0 && strings.HasPrefix(dataURL, "data:") {
		payload = dataURL[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: bad base64 payload", ErrDecode)
	}
	return Compress(raw, maxSizeKB)
}

// estimatedKB mirrors the client-side size heuristic: base64 inflates the
// payload by 4/3, so encodedLen*4/3*0.75 = encodedLen bytes.
func estimatedKB(encodedLen int) float64 {
	b64Len := base64.StdEncoding.EncodedLen(encodedLen)
	return float64(b64Len) * 0.75 / 1024
}

// downscale shrinks the image so its longer side is at most MaxDimension,
// preserving aspect ratio. Images already within bounds pass through.
func downscale(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxDimension && h <= MaxDimension {
		return src
	}

	scale := float64(MaxDimension) / float64(w)
	if h > w {
		scale = float64(MaxDimension) / float64(h)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
