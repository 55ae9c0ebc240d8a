package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCloudinary(t *testing.T, now time.Time) *CloudinaryProofStorage {
	t.Helper()
	s, err := NewCloudinaryProofStorage("demo", "1234567890", "secret")
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

// withoutVolatile drops the parameters that depend on the signing second.
func withoutVolatile(t *testing.T, link string) (*url.URL, url.Values) {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	require.NotEmpty(t, q.Get("signature"))
	require.NotEmpty(t, q.Get("timestamp"))
	q.Del("signature")
	q.Del("timestamp")
	return u, q
}

func TestCloudinarySignedURL_MatchesSDK(t *testing.T) {
	now := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)
	s := newTestCloudinary(t, now)

	link, err := s.SignedURL(context.Background(), "proofs/t1", time.Hour)
	require.NoError(t, err)

	expiresAt := now.Add(time.Hour)
	want, err := s.cld.Upload.PrivateDownloadURL(uploader.PrivateDownloadURLParams{
		PublicID:     "proofs/t1",
		Format:       "jpg",
		DeliveryType: string(api.Authenticated),
		ExpiresAt:    &expiresAt,
	})
	require.NoError(t, err)

	gotURL, gotQuery := withoutVolatile(t, link)
	wantURL, wantQuery := withoutVolatile(t, want)
	assert.Equal(t, wantURL.Host, gotURL.Host)
	assert.Equal(t, wantURL.Path, gotURL.Path)
	assert.Equal(t, wantQuery, gotQuery)

	assert.Equal(t, "/v1_1/demo/image/download", gotURL.Path)
	assert.Equal(t, "proofs/t1", gotQuery.Get("public_id"))
	assert.Equal(t, "authenticated", gotQuery.Get("type"))
	assert.Equal(t, "1234567890", gotQuery.Get("api_key"))
	assert.NotEmpty(t, gotQuery.Get("expires_at"))
}

func TestCloudinarySignedURL_Format(t *testing.T) {
	s := newTestCloudinary(t, time.Now())

	link, err := s.SignedURL(context.Background(), "proofs/t2.PNG", time.Minute)
	require.NoError(t, err)
	_, q := withoutVolatile(t, link)
	assert.Equal(t, "proofs/t2", q.Get("public_id"))
	assert.Equal(t, "png", q.Get("format"))

	_, err = s.SignedURL(context.Background(), "  ", time.Minute)
	assert.Error(t, err)
}

func TestSplitFormat(t *testing.T) {
	tests := []struct {
		ref, id, format string
	}{
		{"proofs/t1", "proofs/t1", "jpg"},
		{"/proofs/t1.jpeg", "proofs/t1", "jpeg"},
		{"v1.2/t1", "v1.2/t1", "jpg"},
	}
	for _, tt := range tests {
		id, format := splitFormat(tt.ref)
		assert.Equal(t, tt.id, id, tt.ref)
		assert.Equal(t, tt.format, format, tt.ref)
	}
}
