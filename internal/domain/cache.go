package domain

import "context"

// ListingCache is the mutable side of the price feed: the bootstrap loader
// and the live ticker write listing prices through it, the engine reads them
// back through the PriceFeed contract.
type ListingCache interface {
	PriceFeed
	Set(ctx context.Context, listing string, price float64) error
	SetBatch(ctx context.Context, prices map[string]float64) error
	Len(ctx context.Context) (int64, error)
}

// RefineRequest asks the asynchronous float-lookup collaborator to resolve a
// precise condition value for one trade item.
type RefineRequest struct {
	ItemID      string `json:"item_id"`
	InspectLink string `json:"inspect_link"`
}

// RefineResult is the collaborator's answer: the precise condition value for
// the item.
type RefineResult struct {
	ItemID string  `json:"item_id"`
	Float  float64 `json:"float"`
}

// RefineQueue carries pending inspect-link float lookups and their results.
type RefineQueue interface {
	Enqueue(ctx context.Context, req RefineRequest) error
	// Results returns a channel of completed lookups. The channel closes
	// when ctx is cancelled.
	Results(ctx context.Context) (<-chan RefineResult, error)
	Complete(ctx context.Context, res RefineResult) error
}
