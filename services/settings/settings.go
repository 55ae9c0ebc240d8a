package settings

import (
	"context"
	"errors"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"

	"go.uber.org/zap"
)

// SettingsService reads and updates the payment method configuration.
type SettingsService interface {
	// GetPaymentSettings returns the stored settings, or the defaults before the first save.
	GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, req UpdatePaymentSettingsRequest) error
}

// UpdatePaymentSettingsRequest is a partial settings document; nil fields are kept.
type UpdatePaymentSettingsRequest struct {
	GooglePay    *WalletUpdate       `json:"googlePay"`
	ApplePay     *WalletUpdate       `json:"applePay"`
	BankTransfer *BankTransferUpdate `json:"bankTransfer"`
}

type WalletUpdate struct {
	Enabled    *bool   `json:"enabled"`
	MerchantID *string `json:"merchantId"`
}

type BankTransferUpdate struct {
	Enabled      *bool               `json:"enabled"`
	BankDetails  *models.BankDetails `json:"bankDetails"`
	Instructions *string             `json:"instructions"`
}

func (w *WalletUpdate) fields() map[string]any {
	m := map[string]any{}
	if w.Enabled != nil {
		m["enabled"] = *w.Enabled
	}
	if w.MerchantID != nil {
		m["merchantId"] = *w.MerchantID
	}
	return m
}

func (b *BankTransferUpdate) fields() map[string]any {
	m := map[string]any{}
	if b.Enabled != nil {
		m["enabled"] = *b.Enabled
	}
	if b.Instructions != nil {
		m["instructions"] = *b.Instructions
	}
	if d := b.BankDetails; d != nil {
		details := map[string]any{}
		for k, v := range map[string]string{
			"bankName":      d.BankName,
			"accountName":   d.AccountName,
			"accountNumber": d.AccountNumber,
			"branch":        d.Branch,
			"swiftCode":     d.SwiftCode,
		} {
			if v != "" {
				details[k] = v
			}
		}
		if len(details) > 0 {
			m["bankDetails"] = details
		}
	}
	return m
}

// fields flattens the request into the nested map merged into the document.
func (r UpdatePaymentSettingsRequest) fields() map[string]any {
	m := map[string]any{}
	if r.GooglePay != nil {
		if f := r.GooglePay.fields(); len(f) > 0 {
			m["googlePay"] = f
		}
	}
	if r.ApplePay != nil {
		if f := r.ApplePay.fields(); len(f) > 0 {
			m["applePay"] = f
		}
	}
	if r.BankTransfer != nil {
		if f := r.BankTransfer.fields(); len(f) > 0 {
			m["bankTransfer"] = f
		}
	}
	return m
}

type DefaultSettingsService struct {
	Repo   repository.SettingsRepository
	clock  utils.Clock
	logger *zap.Logger
}

func NewDefaultSettingsService(repo repository.SettingsRepository, clock utils.Clock, logger *zap.Logger) *DefaultSettingsService {
	return &DefaultSettingsService{Repo: repo, clock: clock, logger: logger}
}

func (s *DefaultSettingsService) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	settings, err := s.Repo.GetPaymentSettings(ctx)
	if errors.Is(err, docstore.ErrNotFound) {
		defaults := models.DefaultPaymentSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch payment settings", err)
	}
	return settings, nil
}

func (s *DefaultSettingsService) UpdatePaymentSettings(ctx context.Context, req UpdatePaymentSettingsRequest) error {
	fields := req.fields()
	// The first save seeds the defaults so omitted sections keep their served values.
	if _, err := s.Repo.GetPaymentSettings(ctx); errors.Is(err, docstore.ErrNotFound) {
		fields = overlay(defaultFields(), fields)
	} else if err != nil {
		return utils.Internal("Failed to update payment settings", err)
	}
	fields["updatedAt"] = s.clock.Now().UTC()

	if err := s.Repo.MergePaymentSettings(ctx, fields); err != nil {
		return utils.Internal("Failed to update payment settings", err)
	}
	s.logger.Info("Payment settings updated", zap.Int("fields", len(fields)))
	return nil
}

func defaultFields() map[string]any {
	d := models.DefaultPaymentSettings()
	return map[string]any{
		"googlePay":    map[string]any{"enabled": d.GooglePay.Enabled},
		"applePay":     map[string]any{"enabled": d.ApplePay.Enabled},
		"bankTransfer": map[string]any{"enabled": d.BankTransfer.Enabled},
	}
}

// overlay copies src over dst, descending into nested maps.
func overlay(dst, src map[string]any) map[string]any {
	for k, v := range src {
		nested, ok := v.(map[string]any)
		existing, isMap := dst[k].(map[string]any)
		if ok && isMap {
			dst[k] = overlay(existing, nested)
			continue
		}
		dst[k] = v
	}
	return dst
}
