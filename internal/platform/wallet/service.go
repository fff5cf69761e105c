package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/danuarta/dompetku/pkg/money"
)

// Default wallet card colors, assigned round-robin style at creation.
var defaultColors = []string{
	"bg-emerald-500", "bg-blue-500", "bg-indigo-500", "bg-purple-500",
	"bg-rose-500", "bg-orange-500", "bg-cyan-500",
}

// Service provides business logic for wallet operations.
type Service struct {
	repo Repository
}

// NewService creates a new wallet service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new wallet for a user. The initial balance is treated
// as the wallet's seed: it is stored directly, as if a single implicit
// seed transaction had produced it.
func (s *Service) Create(ctx context.Context, w *Wallet) (*Wallet, error) {
	if err := w.ValidateCreate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := s.repo.ExistsByUserAndName(ctx, w.UserID, w.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if exists {
		return nil, ErrDuplicateWalletName
	}

	w.ID = uuid.New()
	w.Balance = money.Round(w.Balance)
	w.IsActive = true
	if w.Color == "" {
		w.Color = defaultColors[int(w.ID[0])%len(defaultColors)]
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return w, nil
}

// GetByID retrieves a wallet and validates user ownership.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Wallet, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if w.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	return w, nil
}

// List retrieves all wallets for a user.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Wallet, error) {
	wallets, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// Update updates a wallet's name, type and bank metadata. Currency and
// balance are never touched here.
func (s *Service) Update(ctx context.Context, w *Wallet, userID uuid.UUID) (*Wallet, error) {
	if err := w.ValidateUpdate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	if w.Name != existing.Name {
		exists, err := s.repo.ExistsByUserAndName(ctx, userID, w.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check wallet name: %w", err)
		}
		if exists {
			return nil, ErrDuplicateWalletName
		}
	}

	// Immutable fields come from the stored row.
	w.UserID = existing.UserID
	w.Currency = existing.Currency
	w.Balance = existing.Balance

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return w, nil
}

// Toggle flips the wallet's active flag. Deactivation hides the wallet
// from listings and reports but keeps its rows and balance intact.
func (s *Service) Toggle(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Wallet, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	if err := s.repo.SetActive(ctx, id, !w.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle wallet: %w", err)
	}

	w.IsActive = !w.IsActive
	return w, nil
}
