package ledger

import (
	"sort"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotAllocation is one slice of a planned consumption. A nil LotID means the
// quantity is drawn from pooled, non-lot-tracked inventory.
type LotAllocation struct {
	LotID     *uuid.UUID
	LotNumber string
	Quantity  decimal.Decimal
}

// SortLotsFEFO orders lots first-expired-first-out: earliest expiry first,
// lots without an expiry date last, ties broken by receipt order (CreatedAt).
// The sort is stable so equal lots keep their incoming order.
func SortLotsFEFO(lots []Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

// SelectLotsForConsumption greedily allocates the required quantity against
// the given lots in FEFO order, taking min(lot remaining, still required)
// from each lot until the requirement is met.
//
// When the component has no lots at all, consumption falls back to a single
// pooled allocation with a nil lot ID; lot tracking is opt-in per component
// and untracked components must keep working.
//
// When lots exist but cannot cover the requirement and allowInsufficient is
// false, an InsufficientLotQuantityError reports the shortfall. With
// allowInsufficient true every lot is drained and the partial allocations are
// returned, letting callers record the negative drift explicitly.
func SelectLotsForConsumption(componentID uuid.UUID, lots []Lot, required decimal.Decimal, allowInsufficient bool) ([]LotAllocation, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}

	if len(lots) == 0 {
		return []LotAllocation{{LotID: nil, Quantity: required}}, nil
	}

	sorted := make([]Lot, len(lots))
	copy(sorted, lots)
	SortLotsFEFO(sorted)

	allocations := make([]LotAllocation, 0, len(sorted))
	remaining := required
	for i := range sorted {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		lot := &sorted[i]
		if !lot.HasStock() {
			continue
		}
		take := decimal.Min(lot.RemainingQuantity, remaining)
		lotID := lot.ID
		allocations = append(allocations, LotAllocation{
			LotID:     &lotID,
			LotNumber: lot.LotNumber,
			Quantity:  take,
		})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) && !allowInsufficient {
		return nil, &InsufficientLotQuantityError{
			ComponentID: componentID,
			Required:    required,
			Available:   required.Sub(remaining),
			Shortfall:   remaining,
		}
	}
	return allocations, nil
}
