package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danuarta/dompetku/internal/rates"
	"github.com/danuarta/dompetku/pkg/logger"
)

// Service derives historical balances and running-balance statements
// from current wallet balances and the active transaction history. It is
// read-only: every answer is a pure function of (current balances,
// ordered active transaction set, date range) and safely re-runnable.
type Service struct {
	repo      Repository
	wallets   WalletSource
	users     UserSource
	converter Converter
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a new report service.
func NewService(repo Repository, wallets WalletSource, users UserSource, converter Converter, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		wallets:   wallets,
		users:     users,
		converter: converter,
		log:       log,
		now:       time.Now,
	}
}

// memoized wraps the converter in a call-scoped rate memo so one tracker
// or statement request never resolves the same currency pair twice.
func (s *Service) memoized() Converter {
	if conv, ok := s.converter.(rates.Converter); ok {
		return rates.NewMemo(conv, s.log)
	}
	return s.converter
}

func (s *Service) resolveUser(ctx context.Context, userID uuid.UUID) (maxMonths int, err error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve user: %w", err)
	}
	return u.MaxTrackerMonths(), nil
}
