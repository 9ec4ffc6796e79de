// -----------------------------------------------------------------------
// Image Normalizer Service
// Downscales and recompresses embedded data-URI images before they are
// frozen into report content
// -----------------------------------------------------------------------

package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/ternarybob/arbor"
	xdraw "golang.org/x/image/draw"

	"github.com/ternarybob/refero/internal/interfaces"
)

// DecodeError indicates the input could not be decoded as an image.
// Callers recover by keeping the original value unchanged.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image decode failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("image decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Config holds image normalization settings
type Config struct {
	MaxWidth int // Maximum output width in pixels; wider images are downscaled
	Quality  int // JPEG quality 1-100 for re-encoding
}

// DefaultConfig returns the normalization defaults
func DefaultConfig() Config {
	return Config{
		MaxWidth: 1024,
		Quality:  70,
	}
}

// Service implements interfaces.ImageNormalizer
type Service struct {
	config Config
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ImageNormalizer = (*Service)(nil)

// NewService creates a new image normalizer service
func NewService(config Config, logger arbor.ILogger) *Service {
	if config.MaxWidth <= 0 {
		config.MaxWidth = DefaultConfig().MaxWidth
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = DefaultConfig().Quality
	}
	return &Service{
		config: config,
		logger: logger,
	}
}

// Normalize decodes a data-URI image, downscales it proportionally when its
// width exceeds the configured maximum (never upscales), and re-encodes it
// as JPEG at the configured quality. The result is returned as a new
// data-URI string.
func (s *Service) Normalize(ctx context.Context, dataURI string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("normalize canceled: %w", err)
	}

	raw, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", &DecodeError{Reason: "unrecognized image data", Err: err}
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := src
	if width > s.config.MaxWidth {
		scaled := int(math.Round(float64(height) * float64(s.config.MaxWidth) / float64(width)))
		if scaled < 1 {
			scaled = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, s.config.MaxWidth, scaled))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		out = dst

		s.logger.Debug().
			Str("format", format).
			Int("width", width).
			Int("height", height).
			Int("new_width", s.config.MaxWidth).
			Int("new_height", scaled).
			Msg("Downscaled image")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: s.config.Quality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeDataURI extracts the raw bytes from a data-URI string. Bare base64
// payloads without the data: prefix are accepted as well.
func decodeDataURI(dataURI string) ([]byte, error) {
	if dataURI == "" {
		return nil, &DecodeError{Reason: "empty image value"}
	}

	payload := dataURI
	if strings.HasPrefix(dataURI, "data:") {
		comma := strings.IndexByte(dataURI, ',')
		if comma < 0 {
			return nil, &DecodeError{Reason: "malformed data URI"}
		}
		if !strings.Contains(dataURI[:comma], ";base64") {
			return nil, &DecodeError{Reason: "unsupported data URI encoding"}
		}
		payload = dataURI[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some producers omit padding
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, &DecodeError{Reason: "invalid base64 payload", Err: err}
		}
	}
	return raw, nil
}
