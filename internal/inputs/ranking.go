package inputs

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/JaimeStill/triage/internal/classify"
)

// Order names a ranking policy.
type Order string

const (
	OrderDashboard Order = "dashboard"
	OrderCategory  Order = "category"
	OrderCreatedAt Order = "created_at"
)

// Orders lists every ranking policy.
var Orders = []Order{OrderDashboard, OrderCategory, OrderCreatedAt}

// ParseOrder returns the order named s. The empty string selects OrderDashboard.
func ParseOrder(s string) (Order, error) {
	if s == "" {
		return OrderDashboard, nil
	}
	if slices.Contains(Orders, Order(s)) {
		return Order(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
}

// Rank returns items sorted by order. The sort is stable and items is not modified.
//
// OrderCreatedAt sorts newest first. OrderCategory sorts by category declaration
// order, then newest first. OrderDashboard puts high severity first and done last,
// then newest first.
func Rank(items []Input, order Order) []Input {
	out := slices.Clone(items)

	var compare func(a, b Input) int
	switch order {
	case OrderCreatedAt:
		compare = newestFirst
	case OrderCategory:
		compare = func(a, b Input) int {
			return cmp.Or(
				cmp.Compare(a.Category.Rank(), b.Category.Rank()),
				newestFirst(a, b),
			)
		}
	default:
		compare = func(a, b Input) int {
			return cmp.Or(
				cmp.Compare(flag(a.Severity != classify.SeverityHigh), flag(b.Severity != classify.SeverityHigh)),
				cmp.Compare(flag(a.Status == StatusDone), flag(b.Status == StatusDone)),
				newestFirst(a, b),
			)
		}
	}

	slices.SortStableFunc(out, compare)
	return out
}

func newestFirst(a, b Input) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
