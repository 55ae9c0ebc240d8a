package user

import (
	"context"
	"errors"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/services/driver"
	"ceygo/utils"

	"go.uber.org/zap"
)

const listLimit = 100

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo       repository.UserRepository
	reconciler *driver.Reconciler
	logger     *zap.Logger
}

func NewDefaultUserService(repo repository.UserRepository, reconciler *driver.Reconciler, logger *zap.Logger) *DefaultUserService {
	return &DefaultUserService{Repo: repo, reconciler: reconciler, logger: logger}
}

func (s *DefaultUserService) ListUsers(ctx context.Context, role, status string) ([]models.User, error) {
	criteria := repository.UserSearchCriteria{Limit: listLimit}
	if role != "" && role != "all" {
		criteria.Role = role
	}
	switch status {
	case "active":
		criteria.IsActive = models.Bool(true)
	case "inactive":
		criteria.IsActive = models.Bool(false)
	}

	users, err := s.Repo.Search(ctx, criteria)
	if err != nil {
		return nil, utils.Internal("Failed to fetch users", err)
	}
	return users, nil
}

func (s *DefaultUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch user", err)
	}
	return u, nil
}

func (s *DefaultUserService) ToggleStatus(ctx context.Context, userID string, isActive bool) error {
	before, err := s.reconciler.SetActive(ctx, userID, isActive, driver.ActiveOptions{
		NotFound:    "User not found",
		DriversOnly: true,
	})
	if err != nil {
		return err
	}
	s.logger.Debug("User status toggled", zap.String("userID", userID), zap.String("role", before.Role))
	return nil
}
