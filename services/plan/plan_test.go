package plan

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) *DefaultPlanService {
	t.Helper()
	repos := repository.NewRepositories(docstore.NewMemoryStore())
	return NewDefaultPlanService(repos.Plans, utils.FixedClock(testNow), zaptest.NewLogger(t))
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
}

func TestPlanLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.CreatePlan(ctx, CreatePlanRequest{
		Name:         "Weekly Pass",
		Type:         models.PlanWeekly,
		DurationDays: 7,
		Price:        2500,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive, "plans are active unless stated otherwise")

	plans, err := svc.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Weekly Pass", plans[0].Name)
	require.NotNil(t, plans[0].CreatedAt)
	assert.True(t, plans[0].CreatedAt.Equal(testNow))

	price := 2750.0
	updated, err := svc.UpdatePlan(ctx, created.ID, UpdatePlanRequest{Price: &price, IsActive: models.Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, 2750.0, updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Weekly Pass", updated.Name, "absent fields are untouched")
	assert.Equal(t, 7, updated.DurationDays)

	require.NoError(t, svc.DeletePlan(ctx, created.ID))
	plans, err = svc.ListPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestCreatePlan_Validation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreatePlan(ctx, CreatePlanRequest{Name: " ", Type: models.PlanWeekly, DurationDays: 7})
	requireStatus(t, err, http.StatusBadRequest)
	_, err = svc.CreatePlan(ctx, CreatePlanRequest{Name: "Broken", Type: models.PlanWeekly})
	requireStatus(t, err, http.StatusBadRequest)

	inactive, err := svc.CreatePlan(ctx, CreatePlanRequest{Name: "Draft", Type: models.PlanMonthly, DurationDays: 30, IsActive: models.Bool(false)})
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)
}

func TestUpdatePlan_Errors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	name := "Renamed"
	_, err := svc.UpdatePlan(ctx, "missing", UpdatePlanRequest{Name: &name})
	requireStatus(t, err, http.StatusNotFound)

	created, err := svc.CreatePlan(ctx, CreatePlanRequest{Name: "Monthly", Type: models.PlanMonthly, DurationDays: 30})
	require.NoError(t, err)

	zero := 0
	_, err = svc.UpdatePlan(ctx, created.ID, UpdatePlanRequest{DurationDays: &zero})
	requireStatus(t, err, http.StatusBadRequest)
	negative := -1.0
	_, err = svc.UpdatePlan(ctx, created.ID, UpdatePlanRequest{Price: &negative})
	requireStatus(t, err, http.StatusBadRequest)
	blank := ""
	_, err = svc.UpdatePlan(ctx, created.ID, UpdatePlanRequest{Name: &blank})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestDeletePlan_Missing(t *testing.T) {
	svc := newService(t)
	requireStatus(t, svc.DeletePlan(context.Background(), "missing"), http.StatusNotFound)
}
