package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const defaultProofFormat = "jpg"

// CloudinaryProofStorage serves proofs uploaded to Cloudinary as authenticated assets.
type CloudinaryProofStorage struct {
	cld *cloudinary.Cloudinary
	now func() time.Time
}

func NewCloudinaryProofStorage(cloudName, apiKey, apiSecret string) (*CloudinaryProofStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryProofStorage{cld: cld, now: time.Now}, nil
}

// SignedURL returns a signed private download link for an authenticated image that stops
// working after expires. A ref may carry its file extension ("proofs/t1.png").
func (s *CloudinaryProofStorage) SignedURL(ctx context.Context, ref string, expires time.Duration) (string, error) {
	publicID, format := splitFormat(ref)
	if publicID == "" {
		return "", fmt.Errorf("invalid cloudinary public id %q", ref)
	}

	expiresAt := s.now().Add(expires)
	link, err := s.cld.Upload.PrivateDownloadURL(uploader.PrivateDownloadURLParams{
		PublicID:     publicID,
		Format:       format,
		DeliveryType: string(api.Authenticated),
		ExpiresAt:    &expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign cloudinary url for %s: %w", publicID, err)
	}
	return link, nil
}

func splitFormat(ref string) (publicID, format string) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "/")
	ext := path.Ext(ref)
	if ext == "" || strings.Contains(ext, "/") {
		return ref, defaultProofFormat
	}
	return strings.TrimSuffix(ref, ext), strings.ToLower(strings.TrimPrefix(ext, "."))
}
