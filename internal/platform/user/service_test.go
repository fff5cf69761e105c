package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danuarta/dompetku/pkg/logger"
)

type fakeRepo struct {
	users map[uuid.UUID]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]*User)}
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := r.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) Exists(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestRegister_CreatesStarterUser(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewDefault("test"))

	u, err := svc.Register(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, PlanStarter, u.Plan)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.NotEqual(t, "password123", u.PasswordHash, "password must be hashed")
	assert.NoError(t, u.CheckPassword("password123"))
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewDefault("test"))

	_, err := svc.Register(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "budi@example.com", "otherpassword")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_ValidationErrors(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewDefault("test"))

	_, err := svc.Register(context.Background(), "not-an-email", "password123")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(context.Background(), "budi@example.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewDefault("test"))

	u, err := svc.Register(context.Background(), "  Budi@Example.COM ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", u.Email)

	// The same address under different casing is still a duplicate.
	_, err = svc.Register(context.Background(), "BUDI@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Login(context.Background(), "Budi@Example.com", "password123")
	require.NoError(t, err)
}

func TestLogin_DoesNotRevealUnknownEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewDefault("test"))

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewDefault("test"))

	_, err := svc.Register(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "budi@example.com", "password124")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLogin_UpdatesLastLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.NewDefault("test"))

	registered, err := svc.Register(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)

	u, err := svc.Login(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	stored, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestChangePlan_SubscriptionTiers(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.NewDefault("test"))

	registered, err := svc.Register(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)

	until := time.Now().AddDate(0, 1, 0)
	u, err := svc.ChangePlan(context.Background(), registered.ID, PlanProfessional, &until)
	require.NoError(t, err)
	assert.True(t, u.IsPremium())
	require.NotNil(t, u.SubscriptionUntil)

	// Lifetime carries no expiry even when one is passed.
	u, err = svc.ChangePlan(context.Background(), registered.ID, PlanLifetime, &until)
	require.NoError(t, err)
	assert.True(t, u.IsPremium())
	assert.Nil(t, u.SubscriptionUntil)

	// Downgrading back to starter clears the window too.
	u, err = svc.ChangePlan(context.Background(), registered.ID, PlanStarter, nil)
	require.NoError(t, err)
	assert.False(t, u.IsPremium())
	assert.Nil(t, u.SubscriptionUntil)
}

func TestChangePlan_RejectsInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.NewDefault("test"))

	registered, err := svc.Register(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.ChangePlan(context.Background(), registered.ID, Plan("platinum"), nil)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	// A subscription tier needs a future expiry.
	_, err = svc.ChangePlan(context.Background(), registered.ID, PlanProfessional, nil)
	assert.ErrorIs(t, err, ErrInvalidSubscription)

	past := time.Now().Add(-time.Hour)
	_, err = svc.ChangePlan(context.Background(), registered.ID, PlanMaster, &past)
	assert.ErrorIs(t, err, ErrInvalidSubscription)

	stored, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, PlanStarter, stored.Plan)
}

func TestPlanLimits(t *testing.T) {
	future := time.Now().Add(365 * 24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name        string
		user        User
		wantMonths  int
		allowsAtCap bool
	}{
		{
			name:        "starter is capped",
			user:        User{Plan: PlanStarter},
			wantMonths:  3,
			allowsAtCap: false,
		},
		{
			name:        "active professional is unbounded",
			user:        User{Plan: PlanProfessional, SubscriptionUntil: &future},
			wantMonths:  0,
			allowsAtCap: true,
		},
		{
			name:        "expired professional falls back to starter limits",
			user:        User{Plan: PlanProfessional, SubscriptionUntil: &past},
			wantMonths:  3,
			allowsAtCap: false,
		},
		{
			name:        "lifetime never expires",
			user:        User{Plan: PlanLifetime},
			wantMonths:  0,
			allowsAtCap: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMonths, tt.user.MaxTrackerMonths())
			assert.True(t, tt.user.AllowsCustomCategory(0))
			assert.Equal(t, tt.allowsAtCap, tt.user.AllowsCustomCategory(3))
		})
	}
}

func TestPlanGate_AllowsCustomCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.NewDefault("test"))
	gate := NewPlanGate(svc)

	u, err := svc.Register(context.Background(), "budi@example.com", "password123")
	require.NoError(t, err)

	ok, err := gate.AllowsCustomCategory(context.Background(), u.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gate.AllowsCustomCategory(context.Background(), u.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = gate.AllowsCustomCategory(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
