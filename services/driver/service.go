package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDriverService is the production implementation.
type DefaultDriverService struct {
	tx         docstore.Transactor
	repos      *repository.Repositories
	reconciler *Reconciler
	clock      utils.Clock
	logger     *zap.Logger
}

func NewDefaultDriverService(repos *repository.Repositories, reconciler *Reconciler, clock utils.Clock, logger *zap.Logger) *DefaultDriverService {
	return &DefaultDriverService{
		tx:         repos.Store,
		repos:      repos,
		reconciler: reconciler,
		clock:      clock,
		logger:     logger,
	}
}

func (s *DefaultDriverService) ListDrivers(ctx context.Context, status string) ([]models.Driver, error) {
	users, err := s.repos.Users.ListByRole(ctx, models.RoleDriver)
	if err != nil {
		return nil, utils.Internal("Failed to fetch drivers", err)
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	profiles, err := s.repos.DriverProfile.GetMany(ctx, ids)
	if err != nil {
		return nil, utils.Internal("Failed to fetch drivers", err)
	}

	drivers := make([]models.Driver, 0, len(users))
	for _, u := range users {
		var profile *models.DriverProfile
		if p, ok := profiles[u.ID]; ok {
			profile = &p
		}
		d := models.MergeDriver(u, profile)
		switch status {
		case StatusActive:
			if !d.Enabled() {
				continue
			}
		case StatusInactive:
			if d.Enabled() {
				continue
			}
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func (s *DefaultDriverService) GetDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	user, err := s.repos.Users.GetByID(ctx, driverID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, utils.NotFound("Driver not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch driver", err)
	}
	if user.Role != models.RoleDriver {
		return nil, utils.NotFound("Driver not found")
	}

	profile, err := optionalProfile(ctx, s.repos.DriverProfile, driverID)
	if err != nil {
		return nil, utils.Internal("Failed to fetch driver", err)
	}
	d := models.MergeDriver(*user, profile)
	return &d, nil
}

func (s *DefaultDriverService) SetActive(ctx context.Context, driverID string, isActive bool) error {
	_, err := s.reconciler.SetActive(ctx, driverID, isActive, ActiveOptions{NotFound: "Driver not found"})
	return err
}

func (s *DefaultDriverService) SetVerified(ctx context.Context, driverID string, verified bool, reason string) error {
	return s.reconciler.SetVerified(ctx, driverID, verified, reason)
}

func (s *DefaultDriverService) ListSubscriptions(ctx context.Context, driverID string) ([]models.Subscription, error) {
	subs, err := s.repos.Subscriptions.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, utils.Internal("Failed to fetch subscription history", err)
	}
	return subs, nil
}

// GrantSubscription creates an active subscription from a plan and points both driver
// records at it. Earlier active subscriptions are left as they are.
func (s *DefaultDriverService) GrantSubscription(ctx context.Context, driverID string, req GrantRequest) (*GrantResult, error) {
	if req.PlanID == "" {
		return nil, utils.BadRequest("planId is required")
	}
	subID := uuid.NewString()
	now := s.clock.Now().UTC()

	var sub models.Subscription
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repos.Users.GetByID(ctx, driverID)
		if errors.Is(err, docstore.ErrNotFound) {
			return utils.NotFound("Driver not found")
		}
		if err != nil {
			return err
		}
		if user.Role != models.RoleDriver {
			return utils.BadRequest("User is not a driver")
		}

		plan, err := s.repos.Plans.GetByID(ctx, req.PlanID)
		if errors.Is(err, docstore.ErrNotFound) {
			return utils.NotFound("Subscription plan not found")
		}
		if err != nil {
			return err
		}
		if plan.DurationDays <= 0 {
			return utils.BadRequest("Invalid plan data")
		}
		if !plan.IsActive {
			return utils.BadRequest("Subscription plan is not active")
		}

		profile, err := optionalProfile(ctx, s.repos.DriverProfile, driverID)
		if err != nil {
			return err
		}

		sub = newGrantedSubscription(subID, driverID, plan, req, now)
		if _, err := s.repos.Subscriptions.Create(ctx, &sub); err != nil {
			return err
		}

		mirror := map[string]any{
			"hasActiveSubscription":  true,
			"currentSubscriptionId":  subID,
			"subscriptionExpiryDate": sub.ExpiryDate,
			"updatedAt":              now,
		}
		if profile != nil {
			profilePatch := map[string]any{"isTrialActive": false}
			for k, v := range mirror {
				profilePatch[k] = v
			}
			if err := s.repos.DriverProfile.Update(ctx, driverID, profilePatch); err != nil {
				return err
			}
		}
		return s.repos.Users.Update(ctx, driverID, mirror)
	})
	if err != nil {
		return nil, utils.Classify(err, "Failed to add subscription")
	}

	s.logger.Info("Subscription granted",
		zap.String("driverID", driverID),
		zap.String("subscriptionID", subID),
		zap.String("planID", req.PlanID),
		zap.Time("expiryDate", sub.ExpiryDate))
	return &GrantResult{SubscriptionID: subID, ExpiryDate: sub.ExpiryDate}, nil
}

func newGrantedSubscription(id, driverID string, plan *models.SubscriptionPlan, req GrantRequest, now time.Time) models.Subscription {
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "admin_granted"
	}
	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = fmt.Sprintf("ADMIN-%d", now.UnixMilli())
	}

	sub := models.Subscription{
		DriverID:       driverID,
		PassType:       plan.Type,
		StartDate:      now,
		ExpiryDate:     now.AddDate(0, 0, plan.DurationDays),
		Amount:         plan.Price,
		PaymentMethod:  paymentMethod,
		TransactionID:  transactionID,
		Status:         models.SubscriptionActive,
		GrantedByAdmin: true,
		CreatedAt:      now,
	}
	sub.ID = id
	return sub
}

// RevokeSubscription deletes the subscription and clears the current-subscription
// reference on whichever driver record pointed at it.
func (s *DefaultDriverService) RevokeSubscription(ctx context.Context, driverID, subscriptionID string) error {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		sub, err := s.repos.Subscriptions.GetByID(ctx, subscriptionID)
		if errors.Is(err, docstore.ErrNotFound) {
			return utils.NotFound("Subscription not found")
		}
		if err != nil {
			return err
		}
		if sub.DriverID != driverID {
			return utils.Forbidden("Subscription does not belong to this driver")
		}

		profile, err := optionalProfile(ctx, s.repos.DriverProfile, driverID)
		if err != nil {
			return err
		}
		user, err := s.repos.Users.GetByID(ctx, driverID)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return err
		}

		if err := s.repos.Subscriptions.Delete(ctx, subscriptionID); err != nil {
			return err
		}

		reset := map[string]any{
			"hasActiveSubscription":  false,
			"currentSubscriptionId":  nil,
			"subscriptionExpiryDate": nil,
			"updatedAt":              s.clock.Now(),
		}
		if profile != nil && profile.CurrentSubscriptionID == subscriptionID {
			if err := s.repos.DriverProfile.Update(ctx, driverID, reset); err != nil {
				return err
			}
		}
		if user != nil && user.CurrentSubscriptionID == subscriptionID {
			if err := s.repos.Users.Update(ctx, driverID, reset); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.Classify(err, "Failed to delete subscription")
	}

	s.logger.Info("Subscription revoked", zap.String("driverID", driverID), zap.String("subscriptionID", subscriptionID))
	return nil
}
