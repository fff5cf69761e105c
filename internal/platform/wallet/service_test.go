package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	wallets map[uuid.UUID]*Wallet
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{wallets: make(map[uuid.UUID]*Wallet)}
}

func (r *fakeRepo) Create(_ context.Context, w *Wallet) error {
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*Wallet, error) {
	var out []*Wallet
	for _, w := range r.wallets {
		if w.UserID == userID {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetActiveByUserID(_ context.Context, userID uuid.UUID) ([]*Wallet, error) {
	var out []*Wallet
	for _, w := range r.wallets {
		if w.UserID == userID && w.IsActive {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, w *Wallet) error {
	stored, ok := r.wallets[w.ID]
	if !ok {
		return ErrWalletNotFound
	}
	balance := stored.Balance
	cp := *w
	cp.Balance = balance
	r.wallets[w.ID] = &cp
	return nil
}

func (r *fakeRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	w, ok := r.wallets[id]
	if !ok {
		return ErrWalletNotFound
	}
	w.IsActive = active
	return nil
}

func (r *fakeRepo) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	w, ok := r.wallets[id]
	if !ok {
		return ErrWalletNotFound
	}
	w.Balance = w.Balance.Add(delta)
	return nil
}

func (r *fakeRepo) ExistsByUserAndName(_ context.Context, userID uuid.UUID, name string) (bool, error) {
	for _, w := range r.wallets {
		if w.UserID == userID && w.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func TestCreate_SeedsBalanceAndDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())
	userID := uuid.New()

	created, err := svc.Create(context.Background(), &Wallet{
		UserID:   userID,
		Name:     "BCA Checking",
		Type:     TypeBank,
		Currency: "IDR",
		Balance:  decimal.RequireFromString("1500000.005"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.Color)
	assert.True(t, created.Balance.Equal(decimal.RequireFromString("1500000.01")),
		"seed balance should be rounded to 2dp, got %s", created.Balance)
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	svc := NewService(newFakeRepo())
	userID := uuid.New()

	w := Wallet{UserID: userID, Name: "Cash", Type: TypeCash, Currency: "IDR"}
	_, err := svc.Create(context.Background(), &w)
	require.NoError(t, err)

	dup := Wallet{UserID: userID, Name: "Cash", Type: TypeCash, Currency: "IDR"}
	_, err = svc.Create(context.Background(), &dup)
	assert.ErrorIs(t, err, ErrDuplicateWalletName)
}

func TestCreate_AllowsSameNameForDifferentUsers(t *testing.T) {
	svc := NewService(newFakeRepo())

	for i := 0; i < 2; i++ {
		w := Wallet{UserID: uuid.New(), Name: "Cash", Type: TypeCash, Currency: "IDR"}
		_, err := svc.Create(context.Background(), &w)
		require.NoError(t, err)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc := NewService(newFakeRepo())
	userID := uuid.New()

	tests := []struct {
		name    string
		wallet  Wallet
		wantErr error
	}{
		{
			name:    "missing name",
			wallet:  Wallet{UserID: userID, Type: TypeCash, Currency: "IDR"},
			wantErr: ErrMissingWalletName,
		},
		{
			name:    "invalid type",
			wallet:  Wallet{UserID: userID, Name: "X", Type: "vault", Currency: "IDR"},
			wantErr: ErrInvalidWalletType,
		},
		{
			name:    "invalid currency",
			wallet:  Wallet{UserID: userID, Name: "X", Type: TypeCash, Currency: "RUPIAH"},
			wantErr: ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.wallet)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdate_PreservesCurrencyAndBalance(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), &Wallet{
		UserID:   userID,
		Name:     "GoPay",
		Type:     TypeEwallet,
		Currency: "IDR",
		Balance:  decimal.RequireFromString("250000"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), &Wallet{
		ID:       created.ID,
		Name:     "GoPay Personal",
		Type:     TypeEwallet,
		Currency: "USD",                              // must be ignored
		Balance:  decimal.RequireFromString("99999"), // must be ignored
	}, userID)
	require.NoError(t, err)

	assert.Equal(t, "GoPay Personal", updated.Name)
	assert.Equal(t, "IDR", updated.Currency)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("250000")))

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "IDR", stored.Currency)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("250000")))
}

func TestUpdate_RejectsForeignWallet(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), &Wallet{
		UserID:   uuid.New(),
		Name:     "Cash",
		Type:     TypeCash,
		Currency: "IDR",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), &Wallet{
		ID:   created.ID,
		Name: "Stolen",
		Type: TypeCash,
	}, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
}

func TestToggle_FlipsActiveFlag(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), &Wallet{
		UserID:   userID,
		Name:     "Cash",
		Type:     TypeCash,
		Currency: "IDR",
		Balance:  decimal.RequireFromString("100000"),
	})
	require.NoError(t, err)

	toggled, err := svc.Toggle(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	// Balance survives deactivation.
	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("100000")))

	toggled, err = svc.Toggle(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestToggle_RejectsForeignWallet(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), &Wallet{
		UserID:   uuid.New(),
		Name:     "Cash",
		Type:     TypeCash,
		Currency: "IDR",
	})
	require.NoError(t, err)

	_, err = svc.Toggle(context.Background(), created.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
}
