package driver

import (
	"context"
	"errors"
	"strings"
	"time"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"

	"go.uber.org/zap"
)

// Reconciler keeps the overlapping fields of a User and its DriverProfile equal. Each
// operation reads both records and writes both inside one transaction.
type Reconciler struct {
	tx       docstore.Transactor
	users    repository.UserRepository
	profiles repository.DriverProfileRepository
	clock    utils.Clock
	logger   *zap.Logger
}

func NewReconciler(repos *repository.Repositories, clock utils.Clock, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		tx:       repos.Store,
		users:    repos.Users,
		profiles: repos.DriverProfile,
		clock:    clock,
		logger:   logger,
	}
}

// ActiveOptions tune SetActive for its two callers.
type ActiveOptions struct {
	// NotFound is the message used when the user does not exist.
	NotFound string
	// DriversOnly mirrors into the profile only when the user's role is driver.
	DriversOnly bool
}

// SetActive writes isActive on the user and isAvailable on the profile when one exists.
// It returns the user as read before the update.
func (r *Reconciler) SetActive(ctx context.Context, userID string, active bool, opts ActiveOptions) (*models.User, error) {
	if opts.NotFound == "" {
		opts.NotFound = "Driver not found"
	}

	var before *models.User
	err := r.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		user, err := r.users.GetByID(ctx, userID)
		if errors.Is(err, docstore.ErrNotFound) {
			return utils.NotFound(opts.NotFound)
		}
		if err != nil {
			return err
		}
		before = user

		var profile *models.DriverProfile
		if !opts.DriversOnly || user.Role == models.RoleDriver {
			if profile, err = optionalProfile(ctx, r.profiles, userID); err != nil {
				return err
			}
		}

		now := r.clock.Now()
		if err := r.users.Update(ctx, userID, map[string]any{
			"isActive":  active,
			"updatedAt": now,
		}); err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return r.profiles.Update(ctx, userID, map[string]any{
			"isAvailable": active,
			"updatedAt":   now,
		})
	})
	if err != nil {
		return nil, utils.Classify(err, "Failed to update account status")
	}

	r.logger.Info("Account activation updated", zap.String("userID", userID), zap.Bool("isActive", active))
	return before, nil
}

// SetVerified writes isVerified and documents.isVerified on both records, so readers of
// either path agree. A rejection stores the reason; an approval clears any old one.
func (r *Reconciler) SetVerified(ctx context.Context, driverID string, verified bool, reason string) error {
	reason = strings.TrimSpace(reason)
	if !verified && reason == "" {
		return utils.BadRequest("A reason is required when rejecting verification")
	}

	err := r.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := r.users.GetByID(ctx, driverID)
		if errors.Is(err, docstore.ErrNotFound) {
			return utils.NotFound("Driver not found")
		}
		if err != nil {
			return err
		}
		profile, err := optionalProfile(ctx, r.profiles, driverID)
		if err != nil {
			return err
		}

		patch := verificationPatch(verified, reason, r.clock.Now())
		if err := r.users.Update(ctx, driverID, patch); err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return r.profiles.Update(ctx, driverID, patch)
	})
	if err != nil {
		return utils.Classify(err, "Failed to update driver verification")
	}

	r.logger.Info("Driver verification updated", zap.String("driverID", driverID), zap.Bool("verified", verified))
	return nil
}

func verificationPatch(verified bool, reason string, now time.Time) map[string]any {
	patch := map[string]any{
		"isVerified":           verified,
		"documents.isVerified": verified,
		"updatedAt":            now,
	}
	if verified {
		patch["rejectionReason"] = nil
		patch["documents.rejectionReason"] = nil
	} else {
		patch["rejectionReason"] = reason
		patch["documents.rejectionReason"] = reason
	}
	return patch
}

// optionalProfile returns nil when the driver has no profile.
func optionalProfile(ctx context.Context, profiles repository.DriverProfileRepository, id string) (*models.DriverProfile, error) {
	p, err := profiles.GetByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	return p, err
}
