package partner

import (
	"slices"

	"github.com/samber/lo"
)

// AddressPlan is the set of writes that brings a customer's stored addresses in
// line with a submitted address list
type AddressPlan struct {
	Updates []Address
	Creates []Address
	Deletes []uint
}

// IsEmpty reports whether the plan has nothing to write
func (p AddressPlan) IsEmpty() bool {
	return len(p.Updates) == 0 && len(p.Creates) == 0 && len(p.Deletes) == 0
}

// ReconcileAddresses diffs current against incoming by address ID.
//
// An incoming entry whose ID matches a current address updates it in place and
// marks it handled. Any other entry (no ID, or an ID that is not one of this
// customer's addresses) becomes a new address. Current addresses left unhandled
// are deleted. Deletes are sorted by ID.
func ReconcileAddresses(customerID uint, current []Address, incoming []AddressInput) AddressPlan {
	pending := lo.KeyBy(current, func(a Address) uint { return a.ID })
	plan := AddressPlan{}

	for _, in := range incoming {
		in = in.Normalize()
		if in.ID != nil {
			if existing, ok := pending[*in.ID]; ok {
				existing.No = in.No
				existing.Street = in.Street
				existing.City = in.City
				existing.State = in.State
				plan.Updates = append(plan.Updates, existing)
				delete(pending, *in.ID)
				continue
			}
		}
		plan.Creates = append(plan.Creates, in.toAddress(customerID))
	}

	plan.Deletes = lo.Keys(pending)
	slices.Sort(plan.Deletes)
	return plan
}
