package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/services/notification"
	"ceygo/services/storage"
	"ceygo/utils"

	"go.uber.org/zap"
)

const listLimit = 100

// DefaultTransferService is the production implementation.
type DefaultTransferService struct {
	tx            docstore.Transactor
	repos         *repository.Repositories
	notifications notification.NotificationService
	proofs        storage.ProofStorage
	clock         utils.Clock
	logger        *zap.Logger
}

func NewDefaultTransferService(
	repos *repository.Repositories,
	notifications notification.NotificationService,
	proofs storage.ProofStorage,
	clock utils.Clock,
	logger *zap.Logger,
) *DefaultTransferService {
	if proofs == nil {
		proofs = storage.NoProofStorage{}
	}
	return &DefaultTransferService{
		tx:            repos.Store,
		repos:         repos,
		notifications: notifications,
		proofs:        proofs,
		clock:         clock,
		logger:        logger,
	}
}

func (s *DefaultTransferService) ListTransfers(ctx context.Context, status string) ([]models.BankTransfer, error) {
	if status == "all" {
		status = ""
	}
	transfers, err := s.repos.Transfers.List(ctx, status, listLimit)
	if err != nil {
		return nil, utils.Internal("Failed to fetch bank transfers", err)
	}
	return transfers, nil
}

func (s *DefaultTransferService) GetTransfer(ctx context.Context, id string) (*models.BankTransfer, error) {
	t, err := s.repos.Transfers.GetByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, utils.NotFound("Transfer not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch bank transfer", err)
	}
	return t, nil
}

func (s *DefaultTransferService) CreateTransfer(ctx context.Context, t *models.BankTransfer) (*models.BankTransfer, error) {
	if strings.TrimSpace(t.UserID) == "" {
		return nil, utils.BadRequest("userId is required")
	}
	if t.Amount <= 0 {
		return nil, utils.BadRequest("amount must be positive")
	}

	t.ID = ""
	t.Status = models.TransferPending
	t.CreatedAt = s.clock.Now().UTC()
	t.ProcessedAt = nil
	t.ProcessedBy = ""

	if _, err := s.repos.Transfers.Create(ctx, t); err != nil {
		return nil, utils.Internal("Failed to create bank transfer", err)
	}
	s.logger.Info("Bank transfer recorded", zap.String("transferID", t.ID), zap.String("userID", t.UserID))
	return t, nil
}

func validateProcess(req *ProcessRequest) error {
	req.Notes = strings.TrimSpace(req.Notes)
	switch req.Status {
	case models.TransferApproved:
	case models.TransferRejected:
		if req.Notes == "" {
			return utils.BadRequest("notes are required when rejecting a transfer")
		}
	default:
		return utils.BadRequest("status must be approved or rejected")
	}
	if req.Duration != nil && (*req.Duration < 1 || *req.Duration > MaxDurationDays) {
		return utils.BadRequest(fmt.Sprintf("duration must be between 1 and %d days", MaxDurationDays))
	}
	return nil
}

func (s *DefaultTransferService) Process(ctx context.Context, id, adminEmail string, req ProcessRequest) error {
	if err := validateProcess(&req); err != nil {
		return err
	}
	now := s.clock.Now().UTC()

	var (
		note  models.Notification
		token string
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repos.Transfers.GetByID(ctx, id)
		if errors.Is(err, docstore.ErrNotFound) {
			return utils.NotFound("Transfer not found")
		}
		if err != nil {
			return err
		}
		if t.Status != models.TransferPending {
			return utils.Conflict("Transfer already processed")
		}

		user, err := s.repos.Users.GetByID(ctx, t.UserID)
		switch {
		case errors.Is(err, docstore.ErrNotFound) && req.Status == models.TransferApproved:
			return utils.NotFound("User not found")
		case errors.Is(err, docstore.ErrNotFound):
			user = nil
		case err != nil:
			return err
		}

		patch := map[string]any{
			"status":      req.Status,
			"processedAt": now,
			"processedBy": adminEmail,
		}
		if req.Notes != "" {
			patch["notes"] = req.Notes
		}
		if err := s.repos.Transfers.Update(ctx, id, patch); err != nil {
			return err
		}

		if req.Status == models.TransferApproved {
			packageType := req.PackageType
			if packageType == "" {
				packageType = t.PackageType
			}
			days := DefaultDurationDays
			if req.Duration != nil {
				days = *req.Duration
			}
			endDate := now.AddDate(0, 0, days)

			// The window replaces any earlier one, including a stored null.
			if err := s.repos.Users.Update(ctx, t.UserID, map[string]any{
				"subscription": map[string]any{
					"isActive":      true,
					"type":          packageType,
					"startDate":     now,
					"endDate":       endDate,
					"paymentMethod": "bank_transfer",
				},
				"hasActiveSubscription":  true,
				"subscriptionExpiryDate": endDate,
				"updatedAt":              now,
			}); err != nil {
				return err
			}
			note = approvedNotification(t, packageType, now)
		} else {
			note = rejectedNotification(t, req.Notes, now)
		}

		if user != nil {
			token = user.FCMToken
		}
		return s.notifications.Record(ctx, &note)
	})
	if err != nil {
		return utils.Classify(err, "Failed to process transfer")
	}

	s.logger.Info("Bank transfer processed",
		zap.String("transferID", id),
		zap.String("status", req.Status),
		zap.String("processedBy", adminEmail))

	s.notifications.Deliver(ctx, token, note)
	return nil
}

func approvedNotification(t *models.BankTransfer, packageType string, now time.Time) models.Notification {
	return models.Notification{
		UserID:    t.UserID,
		Title:     "Payment Approved",
		Body:      fmt.Sprintf("Your bank transfer has been approved. Your %s subscription is now active.", packageType),
		Type:      models.NotificationPayment,
		Data:      map[string]string{"transferId": t.ID},
		CreatedAt: now,
	}
}

func rejectedNotification(t *models.BankTransfer, reason string, now time.Time) models.Notification {
	return models.Notification{
		UserID:    t.UserID,
		Title:     "Payment Rejected",
		Body:      fmt.Sprintf("Your bank transfer was rejected: %s", reason),
		Type:      models.NotificationPayment,
		Data:      map[string]string{"transferId": t.ID},
		CreatedAt: now,
	}
}

func (s *DefaultTransferService) ProofURL(ctx context.Context, id string, expires time.Duration) (string, error) {
	t, err := s.GetTransfer(ctx, id)
	if err != nil {
		return "", err
	}
	ref := strings.TrimSpace(t.ProofImageURL)
	if ref == "" {
		return "", utils.NotFound("Transfer has no proof image")
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}

	if expires <= 0 {
		expires = DefaultProofExpiry
	}
	if expires > MaxProofExpiry {
		expires = MaxProofExpiry
	}

	url, err := s.proofs.SignedURL(ctx, ref, expires)
	if errors.Is(err, storage.ErrProofNotFound) {
		return "", utils.NotFound("Proof image not found")
	}
	if err != nil {
		return "", utils.Internal("Failed to sign proof link", err)
	}
	return url, nil
}
