package user

import (
	"context"

	"github.com/google/uuid"
)

// PlanGate answers plan-limit questions for other platforms without
// exposing user internals to them.
type PlanGate struct {
	svc *Service
}

// NewPlanGate creates a plan gate backed by the user service.
func NewPlanGate(svc *Service) *PlanGate {
	return &PlanGate{svc: svc}
}

// AllowsCustomCategory reports whether the user may create another
// custom category given how many they already own.
func (g *PlanGate) AllowsCustomCategory(ctx context.Context, userID uuid.UUID, currentCount int) (bool, error) {
	u, err := g.svc.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.AllowsCustomCategory(currentCount), nil
}
