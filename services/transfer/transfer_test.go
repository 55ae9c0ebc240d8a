package transfer

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/services/notification"
	"ceygo/services/storage"
	"ceygo/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type push struct {
	token, title, body string
	data               map[string]string
}

type recordingPusher struct {
	mu     sync.Mutex
	pushes []push
	err    error
}

func (p *recordingPusher) Push(_ context.Context, token, title, body string, data map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, push{token: token, title: title, body: body, data: data})
	return p.err
}

type fakeProofs struct {
	refs    map[string]bool
	expires time.Duration
}

func (f *fakeProofs) SignedURL(_ context.Context, ref string, expires time.Duration) (string, error) {
	if !f.refs[ref] {
		return "", storage.ErrProofNotFound
	}
	f.expires = expires
	return "https://signed.example.com/" + ref, nil
}

type fixture struct {
	ctx     context.Context
	store   *docstore.MemoryStore
	repos   *repository.Repositories
	pusher  *recordingPusher
	proofs  *fakeProofs
	service *DefaultTransferService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	repos := repository.NewRepositories(store)
	logger := zaptest.NewLogger(t)
	pusher := &recordingPusher{}
	proofs := &fakeProofs{refs: map[string]bool{"proofs/t1.jpg": true}}
	notifications := notification.NewDefaultNotificationService(repos.Notifications, pusher, logger)
	return &fixture{
		ctx:     context.Background(),
		store:   store,
		repos:   repos,
		pusher:  pusher,
		proofs:  proofs,
		service: NewDefaultTransferService(repos, notifications, proofs, utils.FixedClock(testNow), logger),
	}
}

func (f *fixture) seed(t *testing.T, coll, id string, doc any) {
	t.Helper()
	_, err := f.store.Create(f.ctx, coll, id, doc)
	require.NoError(t, err)
}

func (f *fixture) seedPending(t *testing.T, id, userID string) {
	t.Helper()
	f.seed(t, database.BankTransfersCollection, id, models.BankTransfer{
		UserID:          userID,
		UserName:        "Nimal",
		Amount:          5000,
		PackageType:     "Standard",
		TransferDate:    "2025-02-28",
		ReferenceNumber: "REF-" + id,
		ProofImageURL:   "proofs/" + id + ".jpg",
		Status:          models.TransferPending,
		CreatedAt:       testNow.Add(-time.Hour),
	})
}

func (f *fixture) seedUser(t *testing.T, id, token string) {
	t.Helper()
	f.seed(t, database.UsersCollection, id, models.User{
		Email:     id + "@example.com",
		Name:      "User " + id,
		Role:      models.RoleDriver,
		FCMToken:  token,
		CreatedAt: testNow.AddDate(0, -1, 0),
	})
}

func (f *fixture) notifications(t *testing.T, userID string) []models.Notification {
	t.Helper()
	notes, err := f.repos.Notifications.ListByUser(f.ctx, userID)
	require.NoError(t, err)
	return notes
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
}

func TestProcess_ApproveActivatesSubscription(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "token-u1")
	f.seedPending(t, "t1", "u1")

	days := 30
	err := f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{
		Status:      models.TransferApproved,
		PackageType: "Premium",
		Duration:    &days,
	})
	require.NoError(t, err)

	tr, err := f.service.GetTransfer(f.ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TransferApproved, tr.Status)
	assert.Equal(t, "admin@ceygo.lk", tr.ProcessedBy)
	require.NotNil(t, tr.ProcessedAt)
	assert.True(t, tr.ProcessedAt.Equal(testNow))

	u, err := f.repos.Users.GetByID(f.ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.Subscription)
	assert.True(t, u.Subscription.IsActive)
	assert.Equal(t, "Premium", u.Subscription.Type)
	assert.Equal(t, "bank_transfer", u.Subscription.PaymentMethod)
	assert.True(t, u.Subscription.StartDate.Equal(testNow))
	assert.True(t, u.Subscription.EndDate.Equal(testNow.AddDate(0, 0, 30)))
	assert.True(t, u.HasActiveSubscription)

	notes := f.notifications(t, "u1")
	require.Len(t, notes, 1)
	assert.Equal(t, "Payment Approved", notes[0].Title)
	assert.Equal(t, models.NotificationPayment, notes[0].Type)
	assert.Contains(t, notes[0].Body, "Premium")
	assert.Equal(t, "t1", notes[0].Data["transferId"])
	assert.False(t, notes[0].IsRead)

	require.Len(t, f.pusher.pushes, 1)
	assert.Equal(t, "token-u1", f.pusher.pushes[0].token)
	assert.Equal(t, "Payment Approved", f.pusher.pushes[0].title)
	assert.Equal(t, models.NotificationPayment, f.pusher.pushes[0].data["type"])
	assert.Equal(t, notes[0].ID, f.pusher.pushes[0].data["notificationId"])
}

func TestProcess_ApproveReplacesStoredSubscription(t *testing.T) {
	cases := map[string]any{
		"null":    nil,
		"expired": map[string]any{"isActive": false, "type": "Basic", "cancelledAt": "2024-12-01T00:00:00Z"},
	}
	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, database.UsersCollection, "u1", map[string]any{
				"email":        "u1@example.com",
				"role":         models.RoleDriver,
				"subscription": stored,
			})
			f.seedPending(t, "t1", "u1")

			require.NoError(t, f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferApproved}))

			snap, err := f.store.Get(f.ctx, database.UsersCollection, "u1")
			require.NoError(t, err)
			sub, ok := snap.Data()["subscription"].(map[string]any)
			require.True(t, ok, "subscription should be a document, got %#v", snap.Data()["subscription"])
			assert.ElementsMatch(t, []string{"isActive", "type", "startDate", "endDate", "paymentMethod"}, keys(sub))
			assert.Equal(t, true, sub["isActive"])
			assert.Equal(t, "Standard", sub["type"])
		})
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestProcess_ApproveDefaults(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "")
	f.seedPending(t, "t1", "u1")

	require.NoError(t, f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferApproved}))

	u, err := f.repos.Users.GetByID(f.ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.Subscription)
	assert.Equal(t, "Standard", u.Subscription.Type, "falls back to the transfer's package")
	assert.True(t, u.Subscription.EndDate.Equal(testNow.AddDate(0, 0, DefaultDurationDays)))

	assert.Len(t, f.notifications(t, "u1"), 1)
	assert.Empty(t, f.pusher.pushes, "no push without a device token")
}

func TestProcess_RejectRequiresNotes(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "token-u1")
	f.seedPending(t, "t1", "u1")

	err := f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferRejected, Notes: "   "})
	requireStatus(t, err, http.StatusBadRequest)

	tr, err := f.service.GetTransfer(f.ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TransferPending, tr.Status)
	assert.Empty(t, f.notifications(t, "u1"))
}

func TestProcess_RejectNotifiesUser(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "token-u1")
	f.seedPending(t, "t1", "u1")

	err := f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferRejected, Notes: "Amount mismatch"})
	require.NoError(t, err)

	tr, err := f.service.GetTransfer(f.ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TransferRejected, tr.Status)
	assert.Equal(t, "Amount mismatch", tr.Notes)

	u, err := f.repos.Users.GetByID(f.ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, u.Subscription)
	assert.False(t, u.HasActiveSubscription)

	notes := f.notifications(t, "u1")
	require.Len(t, notes, 1)
	assert.Equal(t, "Payment Rejected", notes[0].Title)
	assert.Contains(t, notes[0].Body, "Amount mismatch")
	require.Len(t, f.pusher.pushes, 1)
}

func TestProcess_RejectWithoutUserStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.seedPending(t, "t1", "gone")

	require.NoError(t, f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferRejected, Notes: "Unknown account"}))
	assert.Len(t, f.notifications(t, "gone"), 1)
	assert.Empty(t, f.pusher.pushes)
}

func TestProcess_ApproveWithoutUser(t *testing.T) {
	f := newFixture(t)
	f.seedPending(t, "t1", "gone")

	err := f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferApproved})
	requireStatus(t, err, http.StatusNotFound)

	tr, err := f.service.GetTransfer(f.ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TransferPending, tr.Status, "the transaction rolled back")
}

func TestProcess_SecondDecisionConflicts(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "token-u1")
	f.seedPending(t, "t1", "u1")

	require.NoError(t, f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferApproved}))

	err := f.service.Process(f.ctx, "t1", "other@ceygo.lk", ProcessRequest{Status: models.TransferApproved})
	requireStatus(t, err, http.StatusConflict)
	err = f.service.Process(f.ctx, "t1", "other@ceygo.lk", ProcessRequest{Status: models.TransferRejected, Notes: "late"})
	requireStatus(t, err, http.StatusConflict)

	tr, err := f.service.GetTransfer(f.ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "admin@ceygo.lk", tr.ProcessedBy)
	assert.Len(t, f.notifications(t, "u1"), 1)
	assert.Len(t, f.pusher.pushes, 1)
}

func TestProcess_Validation(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "")
	f.seedPending(t, "t1", "u1")

	tooLong := MaxDurationDays + 1
	zero := 0
	cases := []ProcessRequest{
		{Status: "pending"},
		{Status: ""},
		{Status: models.TransferApproved, Duration: &tooLong},
		{Status: models.TransferApproved, Duration: &zero},
	}
	for _, req := range cases {
		requireStatus(t, f.service.Process(f.ctx, "t1", "admin@ceygo.lk", req), http.StatusBadRequest)
	}

	requireStatus(t, f.service.Process(f.ctx, "missing", "admin@ceygo.lk", ProcessRequest{Status: models.TransferApproved}), http.StatusNotFound)
}

func TestProcess_PushFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.pusher.err = errors.New("fcm unavailable")
	f.seedUser(t, "u1", "token-u1")
	f.seedPending(t, "t1", "u1")

	require.NoError(t, f.service.Process(f.ctx, "t1", "admin@ceygo.lk", ProcessRequest{Status: models.TransferApproved}))
	assert.Len(t, f.notifications(t, "u1"), 1)
}

func TestListTransfers(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", "")
	f.seedPending(t, "t1", "u1")
	f.seedPending(t, "t2", "u1")
	require.NoError(t, f.service.Process(f.ctx, "t2", "admin@ceygo.lk", ProcessRequest{Status: models.TransferApproved}))

	all, err := f.service.ListTransfers(f.ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.service.ListTransfers(f.ctx, models.TransferPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "t1", pending[0].ID)
}

func TestCreateTransfer(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateTransfer(f.ctx, &models.BankTransfer{Amount: 100})
	requireStatus(t, err, http.StatusBadRequest)
	_, err = f.service.CreateTransfer(f.ctx, &models.BankTransfer{UserID: "u1"})
	requireStatus(t, err, http.StatusBadRequest)

	created, err := f.service.CreateTransfer(f.ctx, &models.BankTransfer{
		UserID:      "u1",
		Amount:      2500,
		Status:      models.TransferApproved,
		ProcessedBy: "someone",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.TransferPending, created.Status)
	assert.Empty(t, created.ProcessedBy)

	stored, err := f.service.GetTransfer(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransferPending, stored.Status)
	assert.True(t, stored.CreatedAt.Equal(testNow))
}

func TestProofURL(t *testing.T) {
	f := newFixture(t)
	f.seedPending(t, "t1", "u1")
	f.seedPending(t, "t2", "u1")
	f.seed(t, database.BankTransfersCollection, "t3", models.BankTransfer{UserID: "u1", Status: models.TransferPending})
	f.seed(t, database.BankTransfersCollection, "t4", models.BankTransfer{
		UserID:        "u1",
		Status:        models.TransferPending,
		ProofImageURL: "https://res.cloudinary.com/demo/image/upload/proof.jpg",
	})

	url, err := f.service.ProofURL(f.ctx, "t1", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/proofs/t1.jpg", url)
	assert.Equal(t, DefaultProofExpiry, f.proofs.expires)

	_, err = f.service.ProofURL(f.ctx, "t1", 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, MaxProofExpiry, f.proofs.expires)

	_, err = f.service.ProofURL(f.ctx, "t2", time.Minute)
	requireStatus(t, err, http.StatusNotFound)

	_, err = f.service.ProofURL(f.ctx, "t3", time.Minute)
	requireStatus(t, err, http.StatusNotFound)

	url, err = f.service.ProofURL(f.ctx, "t4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/proof.jpg", url)

	_, err = f.service.ProofURL(f.ctx, "missing", time.Minute)
	requireStatus(t, err, http.StatusNotFound)
}

func TestProofURL_NoBackend(t *testing.T) {
	store := docstore.NewMemoryStore()
	repos := repository.NewRepositories(store)
	logger := zaptest.NewLogger(t)
	svc := NewDefaultTransferService(repos, notification.NewDefaultNotificationService(repos.Notifications, nil, logger), nil, utils.FixedClock(testNow), logger)

	_, err := store.Create(context.Background(), database.BankTransfersCollection, "t1", models.BankTransfer{UserID: "u1", ProofImageURL: "proofs/t1.jpg"})
	require.NoError(t, err)

	_, err = svc.ProofURL(context.Background(), "t1", time.Minute)
	requireStatus(t, err, http.StatusInternalServerError)
}
