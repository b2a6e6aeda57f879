package checkout

import (
	"github.com/glowmart/storefront-backend/internal/cart"
)

// Mode distinguishes the two checkout entry paths. It is resolved once when
// checkout starts and drives post-order cleanup; it never changes mid-flow.
type Mode string

const (
	// ModeCart checks out the shared cart.
	ModeCart Mode = "cart"
	// ModeDirect checks out a single staged item and leaves the shared cart
	// untouched.
	ModeDirect Mode = "direct"
)

// Intent is the resolved purchase at checkout entry: which path the shopper
// took and the exact items under purchase.
type Intent struct {
	Mode  Mode          `json:"mode"`
	Items cart.Snapshot `json:"items"`
	Total int64         `json:"total"`
}

// Empty reports whether there is nothing to purchase.
func (i Intent) Empty() bool {
	return len(i.Items) == 0
}
