package cart

// Product is the denormalized catalog value carried inside a line item. The
// cart stores a full copy of the product at add time; the JSON keys match the
// persisted slot layout consumed by the storefront clients.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Price         int64  `json:"price"`
	OriginalPrice *int64 `json:"originalPrice,omitempty"`
	Image         string `json:"image,omitempty"`
	Category      string `json:"category,omitempty"`
	IsNew         bool   `json:"isNew,omitempty"`
	IsSale        bool   `json:"isSale,omitempty"`
	TikTokLink    string `json:"tiktokLink,omitempty"`
	ShopeeLink    string `json:"shopeeLink,omitempty"`
	Slug          string `json:"slug,omitempty"`
}

// LineItem pairs a product with its quantity. Quantity is always >= 1; zero
// quantities never exist in a persisted snapshot.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Snapshot is the full ordered cart at a point in time. Insertion order is
// preserved; re-adding an existing product changes its quantity, not its
// position.
type Snapshot []LineItem

// Total sums price * quantity over all line items.
func (s Snapshot) Total() int64 {
	var total int64
	for _, item := range s {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Count sums the quantities of all line items (the header badge number).
func (s Snapshot) Count() int {
	var count int
	for _, item := range s {
		count += item.Quantity
	}
	return count
}

// IndexOf returns the position of the line item for productID, or -1.
func (s Snapshot) IndexOf(productID string) int {
	for i, item := range s {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}
