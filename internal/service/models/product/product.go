package product

// Product is the order core's read-side view of a catalog product. The
// catalog itself is owned by an external collaborator; this core reads
// snapshots of it and mutates Quantity exclusively through the inventory
// ledger.
type Product struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessId"`
	Title      string `json:"title"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
	InStock    bool   `json:"inStock"`
}
