package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// pngDataURI renders a solid PNG of the given size as a data URI
func pngDataURI(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 40, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// decodeOutput parses the normalizer's data-URI output back into an image
func decodeOutput(t *testing.T, dataURI string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(dataURI, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, format, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return img
}

func TestNormalizeDownscalesWideImage(t *testing.T) {
	service := NewService(Config{MaxWidth: 1024, Quality: 70}, arbor.NewLogger())

	out, err := service.Normalize(context.Background(), pngDataURI(t, 2048, 512))
	require.NoError(t, err)

	img := decodeOutput(t, out)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestNormalizeKeepsNarrowImageDimensions(t *testing.T) {
	service := NewService(Config{MaxWidth: 1024, Quality: 70}, arbor.NewLogger())

	out, err := service.Normalize(context.Background(), pngDataURI(t, 200, 80))
	require.NoError(t, err)

	// Recompressed to JPEG but never upscaled
	img := decodeOutput(t, out)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestNormalizeRoundsScaledHeight(t *testing.T) {
	service := NewService(Config{MaxWidth: 100, Quality: 70}, arbor.NewLogger())

	out, err := service.Normalize(context.Background(), pngDataURI(t, 300, 100))
	require.NoError(t, err)

	img := decodeOutput(t, out)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.InDelta(t, 33, img.Bounds().Dy(), 1)
}

func TestNormalizeDecodeErrors(t *testing.T) {
	service := NewService(DefaultConfig(), arbor.NewLogger())

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty value", input: ""},
		{name: "missing comma", input: "data:image/png;base64"},
		{name: "not base64", input: "data:image/png;base64,!!not-base64!!"},
		{name: "base64 but not an image", input: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Normalize(context.Background(), tt.input)
			require.Error(t, err)

			var decodeErr *DecodeError
			assert.True(t, errors.As(err, &decodeErr), "expected *DecodeError, got %T", err)
		})
	}
}

func TestNormalizeRespectsCanceledContext(t *testing.T) {
	service := NewService(DefaultConfig(), arbor.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Normalize(ctx, pngDataURI(t, 10, 10))
	assert.ErrorIs(t, err, context.Canceled)
}
