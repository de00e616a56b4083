package repository

import (
	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"fmt"
	"sync"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB stores the history of a schedule: every accepted bid and the
// result of every closed auction
type AuctionDB interface {
	RegisterAuction(index int, item model.Item) error
	RecordBid(bid model.Bid) error
	RecordResult(result model.AuctionResult) error
	GetBidsByAuction(index int) ([]model.Bid, error)
	GetWinningBid(index int) (model.Bid, error)
	GetItemsByUser(userID string) ([]model.Item, error)
	GetResults() ([]model.AuctionResult, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu        sync.RWMutex
	bids      map[int][]model.Bid // key: auction index -> value: accepted bids in order
	items     map[int]model.Item  // key: auction index -> value: item
	userItems map[string][]int    // key: userID -> value: auction indexes the user has bid on
	results   []model.AuctionResult
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		bids:      make(map[int][]model.Bid),
		items:     make(map[int]model.Item),
		userItems: make(map[string][]int),
	}
}

// RegisterAuction makes an auction of the schedule known to the repository
func (r *MemoryRepo) RegisterAuction(index int, item model.Item) error {
	if index < 0 {
		return fmt.Errorf("register auction %d: %w", index, biddingerrors.ErrAuctionNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[index] = item
	return nil
}

// RecordBid records an accepted bid
func (r *MemoryRepo) RecordBid(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[bid.AuctionIndex]; !ok {
		return fmt.Errorf("record bid for auction %d: %w", bid.AuctionIndex, biddingerrors.ErrAuctionNotFound)
	}

	r.bids[bid.AuctionIndex] = append(r.bids[bid.AuctionIndex], bid)

	for _, idx := range r.userItems[bid.UserID] {
		if idx == bid.AuctionIndex {
			return nil
		}
	}
	r.userItems[bid.UserID] = append(r.userItems[bid.UserID], bid.AuctionIndex)

	return nil
}

// RecordResult appends the result of a closed auction
func (r *MemoryRepo) RecordResult(result model.AuctionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[result.AuctionIndex]; !ok {
		return fmt.Errorf("record result for auction %d: %w", result.AuctionIndex, biddingerrors.ErrAuctionNotFound)
	}
	r.results = append(r.results, result)
	return nil
}

// GetBidsByAuction returns all accepted bids of an auction
func (r *MemoryRepo) GetBidsByAuction(index int) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[index]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %d: %w", index, biddingerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// GetWinningBid returns the highest bid of an auction
func (r *MemoryRepo) GetWinningBid(index int) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[index]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %d: %w", index, biddingerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) || (b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// GetItemsByUser returns all items a user has bid on
func (r *MemoryRepo) GetItemsByUser(userID string) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes, ok := r.userItems[userID]
	if !ok || len(indexes) == 0 {
		return nil, fmt.Errorf("get items for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}

	items := make([]model.Item, 0, len(indexes))
	for _, idx := range indexes {
		if item, exists := r.items[idx]; exists {
			items = append(items, item)
		}
	}
	return items, nil
}

// GetResults returns the results of closed auctions in closing order
func (r *MemoryRepo) GetResults() ([]model.AuctionResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.results) == 0 {
		return nil, fmt.Errorf("get results: %w", biddingerrors.ErrNoResults)
	}
	return append([]model.AuctionResult(nil), r.results...), nil
}
