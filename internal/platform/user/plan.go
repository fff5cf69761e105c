package user

// Plan is a subscription tier. Payment processing lives in the external
// billing gateway; the ledger core only consumes the resulting limits.
type Plan string

const (
	PlanStarter      Plan = "starter"
	PlanProfessional Plan = "professional"
	PlanMaster       Plan = "master"
	PlanLifetime     Plan = "lifetime"
)

// starterCategoryLimit is how many custom categories a Starter user may
// create before being prompted to upgrade.
const starterCategoryLimit = 3

// starterTrackerMonths is the longest lookback window a Starter user may
// request on the balance tracker.
const starterTrackerMonths = 3

// IsValid checks if the plan is a known tier.
func (p Plan) IsValid() bool {
	switch p {
	case PlanStarter, PlanProfessional, PlanMaster, PlanLifetime:
		return true
	}
	return false
}

// IsPaid reports whether the plan is a paid tier.
func (p Plan) IsPaid() bool {
	switch p {
	case PlanProfessional, PlanMaster, PlanLifetime:
		return true
	}
	return false
}

// DisplayName returns the user-facing plan name.
func (p Plan) DisplayName() string {
	switch p {
	case PlanProfessional:
		return "Professional"
	case PlanMaster:
		return "Master"
	case PlanLifetime:
		return "Lifetime"
	default:
		return "Starter"
	}
}

// AllowsCustomCategory reports whether a user on this plan may create
// one more custom category given their current count.
func (u *User) AllowsCustomCategory(currentCount int) bool {
	if u.IsPremium() {
		return true
	}
	return currentCount < starterCategoryLimit
}

// MaxTrackerMonths clamps a requested tracker lookback to what the plan
// allows. Zero means unbounded.
func (u *User) MaxTrackerMonths() int {
	if u.IsPremium() {
		return 0
	}
	return starterTrackerMonths
}
