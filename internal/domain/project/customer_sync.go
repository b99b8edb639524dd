package project

import (
	"github.com/samber/lo"
)

// CustomerSyncPlan lists the join rows to add and remove so a project's
// customer set equals a target set
type CustomerSyncPlan struct {
	Attach []uint
	Detach []uint
}

// IsEmpty reports whether the plan changes nothing
func (p CustomerSyncPlan) IsEmpty() bool {
	return len(p.Attach) == 0 && len(p.Detach) == 0
}

// SyncCustomerIDs computes the attach/detach sets that turn current into target.
// IDs present in both are left alone. Duplicates in target are ignored.
func SyncCustomerIDs(current, target []uint) CustomerSyncPlan {
	detach, attach := lo.Difference(lo.Uniq(current), lo.Uniq(target))
	return CustomerSyncPlan{Attach: attach, Detach: detach}
}
