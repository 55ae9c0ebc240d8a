// utils/firebase.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ceygo/config"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseApp is the shared Firebase application (Firestore, Storage, Messaging).
var FirebaseApp *firebase.App

// FirebaseInit initializes the Firebase App from the configured service account, or from
// application default credentials when no key file is configured.
func FirebaseInit(ctx context.Context) (*firebase.App, error) {
	if FirebaseApp != nil {
		return FirebaseApp, nil
	}

	fbConfig := &firebase.Config{
		ProjectID:     config.AppConfig.FirebaseProjectID,
		StorageBucket: config.AppConfig.FirebaseStorageBucket,
	}

	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsPath; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
		if fbConfig.ProjectID == "" {
			if sa, err := LoadServiceAccount(path); err == nil {
				fbConfig.ProjectID = sa.ProjectID
				if fbConfig.StorageBucket == "" {
					fbConfig.StorageBucket = sa.ProjectID + ".appspot.com"
				}
			}
		}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	FirebaseApp = app
	return app, nil
}

// LoadServiceAccount reads the service-account key used for signing storage URLs.
func LoadServiceAccount(path string) (*config.ServiceAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account %s: %w", path, err)
	}
	var sa config.ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("failed to parse service account %s: %w", path, err)
	}
	return &sa, nil
}
