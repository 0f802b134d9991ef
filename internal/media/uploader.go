package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Uploader re-encodes incoming images at their native dimensions and
// stores them, returning a URL annotated with width/height/crop query
// parameters for the CDN layer.
type Uploader struct {
	store Store
	log   zerolog.Logger
}

// NewUploader creates a media uploader over the given store
func NewUploader(store Store, log zerolog.Logger) *Uploader {
	return &Uploader{
		store: store,
		log:   log.With().Str("component", "media").Logger(),
	}
}

// Upload processes one image and returns its public URL. The image is
// decoded, re-encoded in its source format at source dimensions and
// uploaded under a fresh uuid key.
func (u *Uploader) Upload(ctx context.Context, data []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read image dimensions: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	contentType := "image/" + format
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		return "", fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to re-encode image: %w", err)
	}

	key := fmt.Sprintf("properties/%s.%s", uuid.NewString(), extension(format))
	url, err := u.store.Put(ctx, key, contentType, &buf)
	if err != nil {
		return "", err
	}

	u.log.Debug().Str("key", key).Int("width", cfg.Width).Int("height", cfg.Height).
		Msg("Uploaded media object")

	return fmt.Sprintf("%s?w=%d&h=%d&c=fill", url, cfg.Width, cfg.Height), nil
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
