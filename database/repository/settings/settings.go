package settingsRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

// PaymentSettingsDocument is the id of the payment settings document in app_settings.
const PaymentSettingsDocument = "payment_methods"

type SettingsRepository interface {
	// GetPaymentSettings returns docstore.ErrNotFound until settings were saved once.
	GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error)
	// MergePaymentSettings deep-merges fields into the settings document.
	MergePaymentSettings(ctx context.Context, fields map[string]any) error
}

type StoreSettingsRepo struct {
	store docstore.Store
}

func NewStoreSettingsRepo(store docstore.Store) SettingsRepository {
	return &StoreSettingsRepo{store: store}
}

func (r *StoreSettingsRepo) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	return docstore.GetAs[models.PaymentSettings](ctx, r.store, database.SettingsCollection, PaymentSettingsDocument)
}

func (r *StoreSettingsRepo) MergePaymentSettings(ctx context.Context, fields map[string]any) error {
	if err := r.store.Set(ctx, database.SettingsCollection, PaymentSettingsDocument, fields, true); err != nil {
		return fmt.Errorf("failed to save payment settings: %w", err)
	}
	return nil
}
