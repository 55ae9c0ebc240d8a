package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ceygo/config"

	"cloud.google.com/go/storage"
)

// FirebaseProofStorage signs links to objects in the Firebase Storage bucket.
type FirebaseProofStorage struct {
	client         *storage.Client
	bucketName     string
	serviceAccount *config.ServiceAccount
}

// NewFirebaseProofStorage wraps a storage client. Without a service account the client's
// own credentials are used for signing (IAM signBlob on GCP).
func NewFirebaseProofStorage(client *storage.Client, bucketName string, sa *config.ServiceAccount) *FirebaseProofStorage {
	return &FirebaseProofStorage{client: client, bucketName: bucketName, serviceAccount: sa}
}

func (s *FirebaseProofStorage) SignedURL(ctx context.Context, ref string, expires time.Duration) (string, error) {
	object := strings.TrimPrefix(ref, "gs://"+s.bucketName+"/")
	object = strings.TrimPrefix(object, "/")

	if _, err := s.client.Bucket(s.bucketName).Object(object).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", fmt.Errorf("%s: %w", object, ErrProofNotFound)
		}
		return "", fmt.Errorf("failed to stat proof object: %w", err)
	}

	opts := &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expires),
		Scheme:  storage.SigningSchemeV4,
	}
	if s.serviceAccount == nil {
		url, err := s.client.Bucket(s.bucketName).SignedURL(object, opts)
		if err != nil {
			return "", fmt.Errorf("failed to generate signed URL: %w", err)
		}
		return url, nil
	}

	opts.GoogleAccessID = s.serviceAccount.ClientEmail
	opts.PrivateKey = []byte(strings.ReplaceAll(s.serviceAccount.PrivateKey, `\n`, "\n"))
	url, err := storage.SignedURL(s.bucketName, object, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url, nil
}
