package interfaces

import "context"

// ImageNormalizer - interface for resizing/recompressing embedded images.
// Input and output are image data URI strings (data:image/...;base64,...).
// Implementations return a *images.DecodeError when the input cannot be
// decoded; callers are expected to fall back to the original value.
type ImageNormalizer interface {
	Normalize(ctx context.Context, dataURI string) (string, error)
}
