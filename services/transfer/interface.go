package transfer

import (
	"context"
	"time"

	"ceygo/models"
)

// TransferService reviews bank-transfer payments submitted by users.
type TransferService interface {
	// ListTransfers returns up to 100 transfers, newest first. status "" or "all" means any.
	ListTransfers(ctx context.Context, status string) ([]models.BankTransfer, error)
	GetTransfer(ctx context.Context, id string) (*models.BankTransfer, error)
	CreateTransfer(ctx context.Context, t *models.BankTransfer) (*models.BankTransfer, error)
	// Process moves a pending transfer to approved or rejected. A decided transfer is
	// never processed twice.
	Process(ctx context.Context, id, adminEmail string, req ProcessRequest) error
	// ProofURL returns a link to the transfer's proof image valid for expires.
	ProofURL(ctx context.Context, id string, expires time.Duration) (string, error)
}

// ProcessRequest is the admin decision on a transfer.
type ProcessRequest struct {
	Status      string `json:"status" binding:"required"`
	Notes       string `json:"notes"`
	PackageType string `json:"packageType"`
	// Duration is the subscription length in days; 30 when omitted.
	Duration *int `json:"duration"`
}

const (
	DefaultDurationDays = 30
	MaxDurationDays     = 366

	DefaultProofExpiry = 15 * time.Minute
	MaxProofExpiry     = 24 * time.Hour
)
